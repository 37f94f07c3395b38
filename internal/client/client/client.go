package client

import (
	"context"
	"time"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// SendMessageRequest carries one outgoing user message. TempID is a
// client-generated correlation id; it is never persisted locally since the
// server-assigned ids in the response are authoritative. ConversationID is
// empty when the message starts a new conversation.
type SendMessageRequest struct {
	TempID         string
	ConversationID string
	Message        string
	FileID         string
}

// SendMessageResult is the mapped response to SendMessage: the stored user
// message echo and the generated assistant reply, each with optional citations.
type SendMessageResult struct {
	ConversationID   string
	FileID           string
	UserMessage      models.Message
	AssistantMessage models.Message
	CreatedAt        time.Time
}

// UploadSession is an upload authorization: a one-time destination URL plus
// the form fields it requires, and the server-assigned document id.
type UploadSession struct {
	DocID  string
	URL    string
	Fields map[string]string
}

// DocumentStatus reports backend processing progress for an uploaded document.
type DocumentStatus struct {
	DocID     string
	Status    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client is the transport-agnostic contract for talking to the askpdf
// backend. All methods honor context cancellation. Transport failures map to
// ErrUnavailable, authorization failures to ErrUnauthorized, and responses
// that cannot be decoded into their typed shape to ErrDecode.
type Client interface {
	Close() error

	AuthorizeURL(ctx context.Context, provider string) (string, error)
	ExchangeCode(ctx context.Context, provider, code, state string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	RefreshSession(ctx context.Context) error
	Logout(ctx context.Context) error

	ConversationsSince(ctx context.Context, since time.Time) ([]*models.Conversation, error)
	Conversation(ctx context.Context, id string) (*models.Conversation, error)
	UpdateConversationTitle(ctx context.Context, id, title string) (*models.Conversation, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error)

	CreateUploadSession(ctx context.Context, fileName string) (*UploadSession, error)
	DocumentStatus(ctx context.Context, docID string) (*DocumentStatus, error)
}

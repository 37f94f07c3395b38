package client

import (
	"fmt"
	"time"

	"github.com/vkazlou/askpdf/internal/client/models"
)

// Wire shapes for the backend's snake_case JSON, decoded into typed models at
// the HTTP boundary. Required fields are validated explicitly so a malformed
// response fails with ErrDecode instead of propagating zero values.

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", ErrDecode, s)
	}
	return t, nil
}

type authorizeURLPayload struct {
	URL string `json:"url"`
}

func (p *authorizeURLPayload) toURL() (string, error) {
	if p.URL == "" {
		return "", fmt.Errorf("%w: authorize url missing", ErrDecode)
	}
	return p.URL, nil
}

type userPayload struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

func (p *userPayload) toModel() (*models.User, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: user id missing", ErrDecode)
	}
	return &models.User{
		ID:            p.ID,
		Email:         p.Email,
		FullName:      p.FullName,
		ProfilePicURL: p.ProfilePicURL,
	}, nil
}

type citationPayload struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type messagePayload struct {
	ID             string            `json:"id"`
	Text           string            `json:"text"`
	Citations      []citationPayload `json:"citations"`
	ConversationID string            `json:"conversation_id"`
	Role           string            `json:"role"`
	TimeStamp      string            `json:"time_stamp"`
}

func (p *messagePayload) toModel() (models.Message, error) {
	if p.ID == "" {
		return models.Message{}, fmt.Errorf("%w: message id missing", ErrDecode)
	}
	role := models.Role(p.Role)
	if role != models.RoleUser && role != models.RoleAssistant {
		return models.Message{}, fmt.Errorf("%w: unknown message role %q", ErrDecode, p.Role)
	}

	ts, err := parseTime(p.TimeStamp)
	if err != nil {
		return models.Message{}, err
	}

	m := models.Message{
		ID:             p.ID,
		Text:           p.Text,
		ConversationID: p.ConversationID,
		Role:           role,
		Timestamp:      ts,
	}
	for _, c := range p.Citations {
		m.Citations = append(m.Citations, models.Citation{Text: c.Text, Source: c.Source})
	}
	return m, nil
}

type conversationPayload struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Messages  []messagePayload `json:"messages"`
	Documents []string         `json:"documents"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

func (p *conversationPayload) toModel() (*models.Conversation, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: conversation id missing", ErrDecode)
	}

	createdAt, err := parseTime(p.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c := &models.Conversation{
		ID:        p.ID,
		Title:     p.Title,
		Documents: p.Documents,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for i := range p.Messages {
		m, err := p.Messages[i].toModel()
		if err != nil {
			return nil, err
		}
		c.Messages = append(c.Messages, m)
	}
	return c, nil
}

type sendMessageBody struct {
	TempID         string  `json:"temp_id"`
	ConversationID *string `json:"conv_id"`
	Message        string  `json:"message"`
	FileID         string  `json:"file_id"`
}

type sendMessagePayload struct {
	ConversationID   string          `json:"conversation_id"`
	FileID           string          `json:"file_id"`
	UserMessage      *messagePayload `json:"user_message"`
	AssistantMessage *messagePayload `json:"assistant_message"`
	CreatedAt        string          `json:"created_at"`
}

func (p *sendMessagePayload) toResult() (*SendMessageResult, error) {
	if p.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversation id missing", ErrDecode)
	}
	if p.UserMessage == nil || p.AssistantMessage == nil {
		return nil, fmt.Errorf("%w: message pair missing", ErrDecode)
	}

	user, err := p.UserMessage.toModel()
	if err != nil {
		return nil, err
	}
	assistant, err := p.AssistantMessage.toModel()
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(p.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &SendMessageResult{
		ConversationID:   p.ConversationID,
		FileID:           p.FileID,
		UserMessage:      user,
		AssistantMessage: assistant,
		CreatedAt:        createdAt,
	}, nil
}

type uploadSessionPayload struct {
	DocID  string            `json:"doc_id"`
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

func (p *uploadSessionPayload) toSession() (*UploadSession, error) {
	if p.DocID == "" || p.URL == "" {
		return nil, fmt.Errorf("%w: upload session incomplete", ErrDecode)
	}
	return &UploadSession{DocID: p.DocID, URL: p.URL, Fields: p.Fields}, nil
}

type documentStatusPayload struct {
	DocID     string `json:"doc_id"`
	Status    string `json:"status"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (p *documentStatusPayload) toStatus() (*DocumentStatus, error) {
	if p.DocID == "" || p.Status == "" {
		return nil, fmt.Errorf("%w: document status incomplete", ErrDecode)
	}
	createdAt, err := parseTime(p.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &DocumentStatus{
		DocID:     p.DocID,
		Status:    p.Status,
		Title:     p.Title,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

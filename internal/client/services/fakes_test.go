package services

import (
	"context"
	"testing"
	"time"

	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/stretchr/testify/require"
)

// fakeClient presets responses for the Client methods a test exercises.
// Calling anything without a preset panics via the embedded nil interface.
type fakeClient struct {
	client.Client

	authorizeURL string
	authorizeErr error

	exchangedUser *models.User
	exchangeErr   error
	exchangeCalls int
	lastProvider  string
	lastCode      string
	lastState     string

	currentUser *models.User
	currentErr  error

	refreshErr  error
	logoutErr   error
	logoutCalls int

	remote      []*models.Conversation
	remoteErr   error
	lastSince   time.Time
	sinceCalls  int
	fullRecord  *models.Conversation
	renamedInto *models.Conversation

	sendResult *client.SendMessageResult
	sendErr    error
	sendCalls  int
	lastSend   client.SendMessageRequest

	uploadSession *client.UploadSession
	sessionErr    error
	sessionCalls  int

	statuses  []*client.DocumentStatus
	statusErr error
	statusIdx int
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) AuthorizeURL(ctx context.Context, provider string) (string, error) {
	return f.authorizeURL, f.authorizeErr
}

func (f *fakeClient) ExchangeCode(ctx context.Context, provider, code, state string) (*models.User, error) {
	f.exchangeCalls++
	f.lastProvider = provider
	f.lastCode = code
	f.lastState = state
	return f.exchangedUser, f.exchangeErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return f.currentUser, f.currentErr
}

func (f *fakeClient) RefreshSession(ctx context.Context) error { return f.refreshErr }

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeClient) ConversationsSince(ctx context.Context, since time.Time) ([]*models.Conversation, error) {
	f.sinceCalls++
	f.lastSince = since
	return f.remote, f.remoteErr
}

func (f *fakeClient) Conversation(ctx context.Context, id string) (*models.Conversation, error) {
	return f.fullRecord, nil
}

func (f *fakeClient) UpdateConversationTitle(ctx context.Context, id, title string) (*models.Conversation, error) {
	return f.renamedInto, nil
}

func (f *fakeClient) SendMessage(ctx context.Context, req client.SendMessageRequest) (*client.SendMessageResult, error) {
	f.sendCalls++
	f.lastSend = req
	return f.sendResult, f.sendErr
}

func (f *fakeClient) CreateUploadSession(ctx context.Context, fileName string) (*client.UploadSession, error) {
	f.sessionCalls++
	return f.uploadSession, f.sessionErr
}

func (f *fakeClient) DocumentStatus(ctx context.Context, docID string) (*client.DocumentStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := f.statuses[f.statusIdx]
	if f.statusIdx < len(f.statuses)-1 {
		f.statusIdx++
	}
	return st, nil
}

// setupRepos opens a fresh in-memory mirror store with all partitions.
func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

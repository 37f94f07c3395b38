// Package services contains application services for the askpdf client:
// session management, conversation sync and send, and the document upload
// pipeline. Services sit between the CLI and the API client / mirror store
// and own the merge and validation rules.
package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/client/state"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/logging"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - InitiateOAuth: resolve the provider's authorization URL for the user
//     to open in a browser.
//   - HandleCallback: consume the pasted callback URL and exchange the code
//     for a session. A callback without a code is not an error; it yields no
//     user and makes no network call.
//   - CurrentUser: resolve the signed-in user. Failures degrade to absent
//     (nil user) instead of propagating.
//   - Refresh: attempt a session refresh, reporting success as a bool.
//   - Logout: best-effort server logout plus local state reset.
type AuthService interface {
	InitiateOAuth(ctx context.Context, provider string) (string, error)
	HandleCallback(ctx context.Context, callbackURL string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) bool
	Logout(ctx context.Context) error
}

var knownProviders = map[string]struct{}{
	"google": {},
	"github": {},
}

type authService struct {
	client client.Client
	state  *state.AppState
	log    logging.Logger

	// provider of the last initiated flow, used when the pasted callback
	// URL does not name one
	lastProvider string
}

func NewAuthService(client client.Client, st *state.AppState, log logging.Logger) AuthService {
	return &authService{client: client, state: st, log: log}
}

func (a *authService) InitiateOAuth(ctx context.Context, provider string) (string, error) {
	if _, ok := knownProviders[provider]; !ok {
		return "", common.ErrorUnknownProvider
	}

	authURL, err := a.client.AuthorizeURL(ctx, provider)
	if err != nil {
		return "", err
	}
	a.lastProvider = provider
	return authURL, nil
}

// HandleCallback parses the callback URL the user pasted after completing the
// provider flow. When the URL carries no authorization code the flow was
// abandoned: no network call is made and no user is returned.
func (a *authService) HandleCallback(ctx context.Context, callbackURL string) (*models.User, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, err
	}

	code := u.Query().Get("code")
	if code == "" {
		return nil, nil
	}

	provider := a.callbackProvider(u)
	user, err := a.client.ExchangeCode(ctx, provider, code, u.Query().Get("state"))
	if err != nil {
		return nil, err
	}

	a.state.SetUser(user)
	return user, nil
}

// callbackProvider picks the provider from the callback path when present,
// falling back to the last initiated flow.
func (a *authService) callbackProvider(u *url.URL) string {
	for _, segment := range strings.Split(u.Path, "/") {
		if _, ok := knownProviders[segment]; ok {
			return segment
		}
	}
	if a.lastProvider != "" {
		return a.lastProvider
	}
	return "google"
}

// CurrentUser never propagates failures: an expired session, a missing
// session, or an unreachable server all look the same to the caller, an
// absent user.
func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		a.log.Debug(ctx, "current user unavailable", "error", err)
		a.state.SetUser(nil)
		return nil, nil
	}

	a.state.SetUser(user)
	return user, nil
}

func (a *authService) Refresh(ctx context.Context) bool {
	if err := a.client.RefreshSession(ctx); err != nil {
		a.log.Debug(ctx, "session refresh failed", "error", err)
		return false
	}
	return true
}

// Logout tells the server to drop the session and resets local state. The
// server call is best effort: a dead server must not keep the user signed in
// locally.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	a.state.Reset()
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/logging"
)

// statusTokenExpired is what the backend returns when the session's access
// token has expired and a refresh should be attempted.
const statusTokenExpired = http.StatusUnprocessableEntity

// refreshLeeway triggers a proactive refresh when the access token cookie
// expires within this window, saving the expired round-trip.
const refreshLeeway = 30 * time.Second

// HTTPClient implements Client against the REST backend. The session is
// cookie-based; the in-process cookie jar carries it on every request. When a
// request fails with the token-expired status, the client transparently
// refreshes the session and retries the original request exactly once.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, log logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		log:     log,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// sessionNearExpiry reports whether the access token cookie is about to
// expire. The token is parsed without verification: the client only reads the
// exp claim, the server remains the authority on validity.
func (c *HTTPClient) sessionNearExpiry() bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	for _, ck := range c.http.Jar.Cookies(base) {
		if ck.Name != common.AccessTokenCookieName {
			continue
		}
		token, _, err := jwt.NewParser().ParseUnverified(ck.Value, jwt.MapClaims{})
		if err != nil {
			return false
		}
		exp, err := token.Claims.GetExpirationTime()
		if err != nil || exp == nil {
			return false
		}
		return time.Until(exp.Time) < refreshLeeway
	}
	return false
}

// doOnce performs a single request and decodes a 2xx JSON body into out
// (when out is non-nil). It returns the HTTP status; transport failures map
// to ErrUnavailable.
func (c *HTTPClient) doOnce(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	return resp.StatusCode, nil
}

func mapStatus(status int) error {
	switch {
	case status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// do performs an authenticated request with the refresh-and-retry contract:
// at most one refresh, then at most one retry of the original request. The
// single-retry guarantee is structural, so a persistently failing refresh can
// never loop.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	if c.sessionNearExpiry() {
		// best effort; the reactive path below still covers a failure here
		if err := c.RefreshSession(ctx); err != nil {
			c.log.Debug(ctx, "proactive session refresh failed", "error", err)
		}
	}

	status, err := c.doOnce(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status != statusTokenExpired {
		return mapStatus(status)
	}

	if err := c.RefreshSession(ctx); err != nil {
		return ErrUnauthorized
	}
	status, err = c.doOnce(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	if status == statusTokenExpired {
		return ErrUnauthorized
	}
	return mapStatus(status)
}

func (c *HTTPClient) AuthorizeURL(ctx context.Context, provider string) (string, error) {
	var p authorizeURLPayload
	status, err := c.doOnce(ctx, http.MethodGet, "/auth/authorize/"+provider, nil, &p)
	if err != nil {
		return "", err
	}
	if err := mapStatus(status); err != nil {
		return "", err
	}
	return p.toURL()
}

func (c *HTTPClient) ExchangeCode(ctx context.Context, provider, code, state string) (*models.User, error) {
	body := map[string]string{"code": code, "state": state}
	var p userPayload
	status, err := c.doOnce(ctx, http.MethodPost, "/auth/exchange/"+provider, body, &p)
	if err != nil {
		return nil, err
	}
	if err := mapStatus(status); err != nil {
		return nil, err
	}
	return p.toModel()
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var p userPayload
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return p.toModel()
}

func (c *HTTPClient) RefreshSession(ctx context.Context) error {
	status, err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", nil, nil)
	if err != nil {
		return err
	}
	return mapStatus(status)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) ConversationsSince(ctx context.Context, since time.Time) ([]*models.Conversation, error) {
	path := "/conversation/all?last_sync_date="
	if !since.IsZero() {
		path += url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	var payloads []conversationPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, err
	}

	result := make([]*models.Conversation, 0, len(payloads))
	for i := range payloads {
		conv, err := payloads[i].toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, conv)
	}
	return result, nil
}

func (c *HTTPClient) Conversation(ctx context.Context, id string) (*models.Conversation, error) {
	var p conversationPayload
	if err := c.do(ctx, http.MethodGet, "/conversation/"+id, nil, &p); err != nil {
		return nil, err
	}
	return p.toModel()
}

func (c *HTTPClient) UpdateConversationTitle(ctx context.Context, id, title string) (*models.Conversation, error) {
	body := map[string]string{"title": title}
	var p conversationPayload
	if err := c.do(ctx, http.MethodPut, "/conversation/"+id, body, &p); err != nil {
		return nil, err
	}
	return p.toModel()
}

func (c *HTTPClient) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	body := sendMessageBody{
		TempID:  req.TempID,
		Message: req.Message,
		FileID:  req.FileID,
	}
	if req.ConversationID != "" {
		body.ConversationID = &req.ConversationID
	}

	var p sendMessagePayload
	if err := c.do(ctx, http.MethodPost, "/conversation/message", body, &p); err != nil {
		return nil, err
	}
	return p.toResult()
}

func (c *HTTPClient) CreateUploadSession(ctx context.Context, fileName string) (*UploadSession, error) {
	body := map[string]string{"file_name": fileName}
	var p uploadSessionPayload
	if err := c.do(ctx, http.MethodPost, "/document/upload", body, &p); err != nil {
		return nil, err
	}
	return p.toSession()
}

func (c *HTTPClient) DocumentStatus(ctx context.Context, docID string) (*DocumentStatus, error) {
	var p documentStatusPayload
	if err := c.do(ctx, http.MethodGet, "/document/status/"+docID, nil, &p); err != nil {
		return nil, err
	}
	return p.toStatus()
}

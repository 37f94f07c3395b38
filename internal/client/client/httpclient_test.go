package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vkazlou/askpdf/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, logging.NewSlogLogger(slog.Default()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCurrentUser_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "u1", "email": "a@b.c", "full_name": "Ada", "profile_pic_url": "http://pic",
		})
	}))

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ada", u.FullName)
}

func TestCurrentUser_MissingIDIsDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"email": "a@b.c"})
	}))

	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrDecode)
}

func TestDo_RefreshAndRetryIsTransparent(t *testing.T) {
	var refreshes, meCalls int
	refreshed := false

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshes++
			refreshed = true
			w.WriteHeader(http.StatusOK)
		case "/auth/me":
			meCalls++
			if !refreshed {
				w.WriteHeader(statusTokenExpired)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "email": "a@b.c", "full_name": "Ada"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := newTestClient(t, handler)
	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 2, meCalls)
}

func TestDo_PersistentExpiryDoesNotLoop(t *testing.T) {
	var refreshes, meCalls int

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshes++
			w.WriteHeader(http.StatusOK)
		case "/auth/me":
			meCalls++
			w.WriteHeader(statusTokenExpired)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := newTestClient(t, handler)
	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, 2, meCalls)
}

func TestDo_FailedRefreshPropagatesUnauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(statusTokenExpired)
		}
	})

	c := newTestClient(t, handler)
	_, err := c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestExchangeCode_Accepts201(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/exchange/google", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "code123", body["code"])
		require.Equal(t, "state456", body["state"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": "u1", "email": "a@b.c", "full_name": "Ada"})
	}))

	u, err := c.ExchangeCode(context.Background(), "google", "code123", "state456")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestAuthorizeURL_MissingURLIsDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	_, err := c.AuthorizeURL(context.Background(), "github")
	require.ErrorIs(t, err, ErrDecode)
}

func TestConversationsSince_WatermarkQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conversation/all", r.URL.Path)
		gotQuery = r.URL.Query().Get("last_sync_date")
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "c1", "title": "t", "updated_at": "2026-01-10T09:05:00Z"},
		})
	}))

	since := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	convs, err := c.ConversationsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "c1", convs[0].ID)
	assert.Equal(t, "2026-01-10T09:00:00Z", gotQuery)
}

func TestConversationsSince_EpochSendsEmptyWatermark(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("last_sync_date")
		writeJSON(w, http.StatusOK, []map[string]any{})
	}))

	_, err := c.ConversationsSince(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestSendMessage_NullConversationForNewChat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{
			"conversation_id": "c1",
			"file_id":         "d1",
			"user_message": map[string]any{
				"id": "m1", "text": "hi", "conversation_id": "c1", "role": "user", "time_stamp": "2026-01-10T09:00:00Z",
			},
			"assistant_message": map[string]any{
				"id": "m2", "text": "hello", "conversation_id": "c1", "role": "assistant",
				"citations": []map[string]any{{"text": "quote", "source": "page 3"}},
			},
		})
	}))

	res, err := c.SendMessage(context.Background(), SendMessageRequest{
		TempID: "tmp-1", Message: "hi", FileID: "d1",
	})
	require.NoError(t, err)

	assert.Nil(t, body["conv_id"])
	assert.Equal(t, "tmp-1", body["temp_id"])
	assert.Equal(t, "c1", res.ConversationID)
	assert.Equal(t, "m2", res.AssistantMessage.ID)
	require.Len(t, res.AssistantMessage.Citations, 1)
	assert.Equal(t, "page 3", res.AssistantMessage.Citations[0].Source)
}

func TestSendMessage_UnknownRoleIsDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"conversation_id": "c1",
			"user_message":    map[string]any{"id": "m1", "role": "user"},
			"assistant_message": map[string]any{
				"id": "m2", "role": "robot",
			},
		})
	}))

	_, err := c.SendMessage(context.Background(), SendMessageRequest{TempID: "t", Message: "m", FileID: "d"})
	require.ErrorIs(t, err, ErrDecode)
}

func TestCreateUploadSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/document/upload", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "report.pdf", body["file_name"])
		writeJSON(w, http.StatusOK, map[string]any{
			"doc_id": "d1",
			"url":    "http://storage.local/bucket",
			"fields": map[string]string{"key": "docs/d1.pdf"},
		})
	}))

	s, err := c.CreateUploadSession(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "d1", s.DocID)
	assert.Equal(t, "docs/d1.pdf", s.Fields["key"])
}

func TestDocumentStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/document/status/d1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"doc_id": "d1", "status": "processed", "title": "report.pdf",
			"created_at": "2026-01-10T09:00:00Z", "updated_at": "2026-01-10T09:03:00Z",
		})
	}))

	s, err := c.DocumentStatus(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "processed", s.Status)
	assert.Equal(t, "report.pdf", s.Title)
}

func TestDo_ServerDownIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := NewHTTPClient(srv.URL, logging.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	_, err = c.CurrentUser(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"expensebot/internal/archive"
	"expensebot/internal/bot"
	"expensebot/internal/log"
	"expensebot/internal/session"
	"expensebot/internal/storage"
	"expensebot/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	sessions := session.NewStore()
	wallets := wallet.NewCoordinator(repo, sessions)
	router := bot.NewRouter(repo, sessions, wallets, archive.NewEngine(archive.DefaultPageSize), nil, logger)

	return NewServer(":0", router, logger)
}

func postEvent(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEventRecordsExpense(t *testing.T) {
	s := newTestServer(t)

	rec := postEvent(t, s, `{"user_id": 1, "locale": "en", "text": "Books-50"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Replies, 1)
	assert.Equal(t, "Recorded: Books - 50₪", resp.Replies[0].Text)
}

func TestEventActionToken(t *testing.T) {
	s := newTestServer(t)

	postEvent(t, s, `{"user_id": 1, "text": "Books-50"}`)
	rec := postEvent(t, s, `{"user_id": 1, "action": "cat_Books"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Replies, 1)
	assert.True(t, resp.Replies[0].Markdown)
	assert.NotEmpty(t, resp.Replies[0].Controls)
}

func TestEventSuppressedRenderReturnsEmptyList(t *testing.T) {
	s := newTestServer(t)

	postEvent(t, s, `{"user_id": 1, "text": "Books-50"}`)
	postEvent(t, s, `{"user_id": 1, "text": "/archive"}`)
	rec := postEvent(t, s, `{"user_id": 1, "action": "archive_view_list"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"replies":[]}`, rec.Body.String())
}

func TestEventValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing user", `{"text": "Books-50"}`},
		{"empty envelope", `{"user_id": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEvent(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package chathttp_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfx1026/creativelink-ai-search/internal/adapter/chathttp"
	"github.com/jfx1026/creativelink-ai-search/internal/domain"
	"github.com/jfx1026/creativelink-ai-search/internal/usecase"
)

type stubChat struct {
	events []usecase.StreamEvent
	err    error

	gotInput    usecase.ChatInput
	invalidated bool
}

func (s *stubChat) Stream(ctx context.Context, input usecase.ChatInput) (<-chan usecase.StreamEvent, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan usecase.StreamEvent, len(s.events))
	for _, event := range s.events {
		ch <- event
	}
	close(ch)
	return ch, nil
}

func (s *stubChat) InvalidateCache() { s.invalidated = true }

type stubIndex struct {
	err       error
	refreshed bool
}

func (s *stubIndex) GetIndex(ctx context.Context) ([]domain.IndexedPost, error) {
	return nil, s.err
}

func (s *stubIndex) ForceRefresh(ctx context.Context) ([]domain.IndexedPost, error) {
	s.refreshed = true
	return nil, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func postChat(t *testing.T, h *chathttp.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Chat(e.NewContext(req, rec)))
	return rec
}

func TestHandler_ChatStreamsSSE(t *testing.T) {
	chat := &stubChat{events: []usecase.StreamEvent{
		{Kind: usecase.StreamEventKindDelta, Payload: "Hello"},
		{Kind: usecase.StreamEventKindDelta, Payload: " world"},
		{Kind: usecase.StreamEventKindResults, Payload: []usecase.SearchResult{
			{Title: "Arcade Game Typography", URL: "https://johnfreeborn.com/week-12#:~:text=Arcade%20Game%20Typography", Excerpt: "pixel typefaces"},
		}},
		{Kind: usecase.StreamEventKindDone},
	}}
	h := chathttp.NewHandler(chat, &stubIndex{}, quietLogger())

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"typography"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, "data: {\"response\":\"Hello\"}\n\n")
	assert.Contains(t, body, "data: {\"response\":\" world\"}\n\n")
	assert.Contains(t, body, `"results":[{"title":"Arcade Game Typography"`)
	assert.True(t, strings.HasSuffix(body, "data: [DONE]\n\n"), "stream must end with the done frame")

	require.Len(t, chat.gotInput.Messages, 1)
	assert.Equal(t, domain.RoleUser, chat.gotInput.Messages[0].Role)
}

func TestHandler_ChatIgnoresPluginContextFields(t *testing.T) {
	chat := &stubChat{events: []usecase.StreamEvent{{Kind: usecase.StreamEventKindDone}}}
	h := chathttp.NewHandler(chat, &stubIndex{}, quietLogger())

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}],"context":{"posts":[]},"scope":"archive"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, chat.gotInput.Messages, 1)
}

func TestHandler_ChatMidStreamErrorEndsWithoutDone(t *testing.T) {
	chat := &stubChat{events: []usecase.StreamEvent{
		{Kind: usecase.StreamEventKindDelta, Payload: "partial"},
		{Kind: usecase.StreamEventKindError, Payload: assert.AnError},
	}}
	h := chathttp.NewHandler(chat, &stubIndex{}, quietLogger())

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)

	body := rec.Body.String()
	assert.Contains(t, body, "data: {\"response\":\"partial\"}\n\n")
	assert.NotContains(t, body, "[DONE]")
}

func TestHandler_ChatErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", &domain.ValidationError{Reason: "messages array required"}, http.StatusBadRequest, "messages array required"},
		{"model", &domain.ModelError{Err: assert.AnError}, http.StatusBadGateway, "AI service error"},
		{"upstream", &domain.UpstreamError{Status: 500, Err: assert.AnError}, http.StatusInternalServerError, "Content source error"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := chathttp.NewHandler(&stubChat{err: tt.err}, &stubIndex{}, quietLogger())

			rec := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}
}

func TestHandler_ChatRejectsMalformedBody(t *testing.T) {
	h := chathttp.NewHandler(&stubChat{}, &stubIndex{}, quietLogger())

	rec := postChat(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Messages array required")
}

func TestHandler_Health(t *testing.T) {
	h := chathttp.NewHandler(&stubChat{}, &stubIndex{}, quietLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), "timestamp")
}

func TestHandler_RefreshRebuildsAndInvalidates(t *testing.T) {
	chat := &stubChat{}
	index := &stubIndex{}
	h := chathttp.NewHandler(chat, index, quietLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/refresh", http.NoBody)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cache refreshed")
	assert.True(t, index.refreshed)
	assert.True(t, chat.invalidated)
}

func TestHandler_RefreshPropagatesUpstreamFailure(t *testing.T) {
	chat := &stubChat{}
	index := &stubIndex{err: &domain.UpstreamError{Status: 500, Err: assert.AnError}}
	h := chathttp.NewHandler(chat, index, quietLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/refresh", http.NoBody)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, chat.invalidated, "a failed refresh keeps memoized retrievals")
}

func TestCORS(t *testing.T) {
	allowed := []string{"localhost", "127.0.0.1", "johnfreeborn.com"}

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{"allowed domain", "https://johnfreeborn.com", "https://johnfreeborn.com"},
		{"allowed subdomain port", "http://localhost:3000", "http://localhost:3000"},
		{"absent origin", "", "*"},
		{"null origin", "null", "*"},
		{"disallowed origin", "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(chathttp.CORS(allowed))
			e.GET("/health", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
			if tt.origin != "" {
				req.Header.Set(echo.HeaderOrigin, tt.origin)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantHeader, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	e := echo.New()
	e.Use(chathttp.CORS([]string{"johnfreeborn.com"}))
	e.POST("/chat", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/chat", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "https://johnfreeborn.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "Content-Type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Equal(t, "86400", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

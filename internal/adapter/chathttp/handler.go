// Package chathttp exposes the chat wire protocol over HTTP.
package chathttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
	"github.com/jfx1026/creativelink-ai-search/internal/usecase"
)

type Handler struct {
	chat   usecase.ChatUsecase
	index  usecase.IndexService
	logger *slog.Logger
}

func NewHandler(chat usecase.ChatUsecase, index usecase.IndexService, logger *slog.Logger) *Handler {
	return &Handler{
		chat:   chat,
		index:  index,
		logger: logger,
	}
}

// chatRequest is the wire request. Context and Scope are accepted for
// compatibility with plugin clients that pre-filter content; the server
// retrieves from its own index and ignores them.
type chatRequest struct {
	Messages []domain.Message `json:"messages"`
	Context  json.RawMessage  `json:"context,omitempty"`
	Scope    string           `json:"scope,omitempty"`
}

// Chat answers a conversation with a streamed, citation-bearing response.
// (POST /chat)
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Messages array required"})
	}

	events, err := h.chat.Stream(c.Request().Context(), usecase.ChatInput{Messages: req.Messages})
	if err != nil {
		return h.errorResponse(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	w := newEventWriter(res)
	for event := range events {
		switch event.Kind {
		case usecase.StreamEventKindDelta:
			delta, ok := event.Payload.(string)
			if !ok {
				continue
			}
			if err := w.WriteJSON(map[string]string{"response": delta}); err != nil {
				return nil
			}
		case usecase.StreamEventKindResults:
			results, ok := event.Payload.([]usecase.SearchResult)
			if !ok {
				continue
			}
			if err := w.WriteJSON(map[string]interface{}{"results": results}); err != nil {
				return nil
			}
		case usecase.StreamEventKindError:
			// Streaming already began: end abruptly without the done frame
			// so the client shows its generic failure message.
			return nil
		case usecase.StreamEventKindDone:
			_ = w.WriteDone()
			return nil
		}
	}
	return nil
}

// Health reports liveness.
// (GET /health)
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Refresh rebuilds the link index regardless of remaining TTL.
// (POST /refresh)
func (h *Handler) Refresh(c echo.Context) error {
	if _, err := h.index.ForceRefresh(c.Request().Context()); err != nil {
		return h.errorResponse(c, err)
	}
	h.chat.InvalidateCache()
	return c.JSON(http.StatusOK, map[string]string{"status": "cache refreshed"})
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	switch {
	case domain.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsModelError(err):
		h.logger.Error("model error", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":   "AI service error",
			"message": err.Error(),
		})
	case domain.IsUpstreamError(err):
		h.logger.Error("upstream error", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Content source error",
			"message": err.Error(),
		})
	default:
		h.logger.Error("internal error", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}

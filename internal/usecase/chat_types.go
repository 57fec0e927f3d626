package usecase

import (
	"context"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// ChatInput carries the validated conversation for one chat request.
type ChatInput struct {
	Messages []domain.Message
}

// SearchResult is one structured citation in the wire protocol's results
// frame.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
}

type StreamEventKind string

const (
	StreamEventKindDelta   StreamEventKind = "delta"
	StreamEventKindResults StreamEventKind = "results"
	StreamEventKindDone    StreamEventKind = "done"
	StreamEventKindError   StreamEventKind = "error"
)

// StreamEvent is one unit of relay output. Delta events carry a string,
// results events carry []SearchResult, error events carry an error.
type StreamEvent struct {
	Kind    StreamEventKind
	Payload interface{}
}

// ChatUsecase runs the retrieval-augmented chat pipeline. Stream performs all
// pre-flight work synchronously so validation, upstream, and model-setup
// failures surface before any streaming response begins.
type ChatUsecase interface {
	Stream(ctx context.Context, input ChatInput) (<-chan StreamEvent, error)

	// InvalidateCache drops memoized retrieval results. Called alongside a
	// forced index refresh.
	InvalidateCache()
}

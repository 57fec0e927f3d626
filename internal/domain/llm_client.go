package domain

import "context"

// StreamChunk is one incremental piece of model output. Done marks the final
// chunk; Response may be empty on it.
type StreamChunk struct {
	Response string
	Done     bool
}

// LLMClient defines the capability to send a conversation to a language model
// and receive a streamed textual response. Cancelling ctx releases the
// underlying stream.
type LLMClient interface {
	ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, <-chan error, error)
	Version() string
}

package llm

import (
	"context"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// AnthropicStreamer streams responses from the Anthropic Messages API.
type AnthropicStreamer struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicStreamer creates a streamer for the given model.
func NewAnthropicStreamer(apiKey, model string, maxTokens int) *AnthropicStreamer {
	return &AnthropicStreamer{
		client:    anthropic.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}
}

var _ domain.LLMClient = (*AnthropicStreamer)(nil)

// ChatStream implements domain.LLMClient. The Messages API takes the system
// prompt as a dedicated field, so it is lifted out of the conversation.
func (s *AnthropicStreamer) ChatStream(ctx context.Context, messages []domain.Message) (<-chan domain.StreamChunk, <-chan error, error) {
	system, turns := splitSystem(messages)

	chunks := make(chan domain.StreamChunk, 8)
	errs := make(chan error, 1)

	req := anthropic.MessagesStreamRequest{
		MessagesRequest: anthropic.MessagesRequest{
			Model:     anthropic.Model(s.model),
			System:    system,
			Messages:  turns,
			MaxTokens: s.maxTokens,
		},
		OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
			if data.Delta.Text == nil || *data.Delta.Text == "" {
				return
			}
			select {
			case chunks <- domain.StreamChunk{Response: *data.Delta.Text}:
			case <-ctx.Done():
			}
		},
	}

	go func() {
		defer close(chunks)
		defer close(errs)

		if _, err := s.client.CreateMessagesStream(ctx, req); err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case chunks <- domain.StreamChunk{Done: true}:
		case <-ctx.Done():
		}
	}()

	return chunks, errs, nil
}

// Version returns the wrapped model name.
func (s *AnthropicStreamer) Version() string {
	return s.model
}

func splitSystem(messages []domain.Message) (string, []anthropic.Message) {
	var system string
	turns := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			system = m.Content
		case domain.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantTextMessage(m.Content))
		default:
			turns = append(turns, anthropic.NewUserTextMessage(m.Content))
		}
	}
	return system, turns
}

// Package llm adapts third-party model SDKs to the domain.LLMClient port.
package llm

import (
	"context"
	"errors"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// OpenAIStreamer streams chat completions from any OpenAI-compatible
// endpoint (OpenAI, OpenRouter, Workers AI) selected via base URL.
type OpenAIStreamer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIStreamer creates a streamer. baseURL may be empty for the default
// OpenAI endpoint; httpClient may be nil.
func NewOpenAIStreamer(apiKey, baseURL, model string, maxTokens int, httpClient *http.Client) *OpenAIStreamer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIStreamer{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

var _ domain.LLMClient = (*OpenAIStreamer)(nil)

// ChatStream implements domain.LLMClient. A setup failure is returned
// directly; mid-stream failures arrive on the error channel.
func (s *OpenAIStreamer) ChatStream(ctx context.Context, messages []domain.Message) (<-chan domain.StreamChunk, <-chan error, error) {
	req := openai.ChatCompletionRequest{
		Model:     s.model,
		Messages:  toOpenAIMessages(messages),
		MaxTokens: s.maxTokens,
		Stream:    true,
	}

	stream, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	chunks := make(chan domain.StreamChunk, 8)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				select {
				case chunks <- domain.StreamChunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				select {
				case errs <- err:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case chunks <- domain.StreamChunk{Response: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, errs, nil
}

// Version returns the wrapped model name.
func (s *OpenAIStreamer) Version() string {
	return s.model
}

func toOpenAIMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

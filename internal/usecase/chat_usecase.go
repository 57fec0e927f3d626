package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
	"github.com/jfx1026/creativelink-ai-search/internal/usecase/retrieval"
)

// CitationMode selects how the relay produces the structured results frame.
type CitationMode string

const (
	// CitationModeStream derives results directly from the retrieved subset
	// and emits them after the last text delta.
	CitationModeStream CitationMode = "stream"

	// CitationModeTrailer asks the model for a POSTS trailer line, strips it
	// from the visible text, and resolves its indices against the retrieved
	// subset.
	CitationModeTrailer CitationMode = "trailer"
)

const (
	// maxStreamCitations bounds the results frame in stream mode, matching
	// the 3-5 entries the prompt asks the model to present.
	maxStreamCitations = 5

	// trailerHoldback is how many bytes of model output are withheld from
	// the client so a trailer split across chunks is never shown.
	trailerHoldback = 48

	retrievalCacheSize = 256
	retrievalCacheTTL  = 5 * time.Minute
)

type chatUsecase struct {
	index      IndexService
	prompts    PromptBuilder
	llm        domain.LLMClient
	mode       CitationMode
	maxResults int
	memo       *expirable.LRU[string, []domain.ScoredLink]
	logger     *slog.Logger
}

// NewChatUsecase wires the chat pipeline. maxResults bounds the retrieved
// subset handed to the prompt composer.
func NewChatUsecase(index IndexService, prompts PromptBuilder, llm domain.LLMClient, mode CitationMode, maxResults int, logger *slog.Logger) ChatUsecase {
	if mode == "" {
		mode = CitationModeStream
	}
	return &chatUsecase{
		index:      index,
		prompts:    prompts,
		llm:        llm,
		mode:       mode,
		maxResults: maxResults,
		memo:       expirable.NewLRU[string, []domain.ScoredLink](retrievalCacheSize, nil, retrievalCacheTTL),
		logger:     logger,
	}
}

func (u *chatUsecase) Stream(ctx context.Context, input ChatInput) (<-chan StreamEvent, error) {
	if err := validateMessages(input.Messages); err != nil {
		return nil, err
	}

	index, err := u.index.GetIndex(ctx)
	if err != nil {
		return nil, err
	}

	query := lastUserMessage(input.Messages)
	links := u.retrieve(index, query)

	systemPrompt := u.prompts.Build(links, len(index))
	messages := make([]domain.Message, 0, len(input.Messages)+1)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	messages = append(messages, input.Messages...)

	chunkCh, errCh, err := u.llm.ChatStream(ctx, messages)
	if err != nil {
		return nil, &domain.ModelError{Err: err}
	}

	requestID := uuid.New().String()
	u.logger.Info("chat stream started",
		slog.String("request_id", requestID),
		slog.String("model", u.llm.Version()),
		slog.Int("retrieved_links", len(links)))

	events := make(chan StreamEvent, 4)
	go func() {
		defer close(events)
		if u.mode == CitationModeTrailer {
			u.relayWithTrailer(ctx, events, chunkCh, errCh, links, requestID)
		} else {
			u.relayDirect(ctx, events, chunkCh, errCh, links, requestID)
		}
	}()

	return events, nil
}

func (u *chatUsecase) InvalidateCache() {
	u.memo.Purge()
}

// retrieve memoizes ranked subsets per normalized query. Retrieval is a pure
// function of (index, query), so a short TTL only has to cover index churn.
func (u *chatUsecase) retrieve(index []domain.IndexedPost, query string) []domain.ScoredLink {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil
	}
	if cached, ok := u.memo.Get(key); ok {
		return cached
	}
	links := retrieval.Retrieve(index, query, u.maxResults)
	u.memo.Add(key, links)
	return links
}

// relayDirect forwards deltas as they arrive, then appends a results frame
// derived from the retrieved subset.
func (u *chatUsecase) relayDirect(ctx context.Context, events chan<- StreamEvent, chunkCh <-chan domain.StreamChunk, errCh <-chan error, links []domain.ScoredLink, requestID string) {
	for chunkCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-chunkCh:
			if !ok {
				chunkCh = nil
				continue
			}
			if chunk.Response != "" {
				if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindDelta, Payload: chunk.Response}) {
					return
				}
			}
			if chunk.Done {
				chunkCh = nil
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			u.logger.Error("model stream failed",
				slog.String("request_id", requestID), slog.String("error", err.Error()))
			u.send(ctx, events, StreamEvent{Kind: StreamEventKindError, Payload: err})
			return
		}
	}

	if results := resultsFromLinks(links, maxStreamCitations); len(results) > 0 {
		if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindResults, Payload: results}) {
			return
		}
	}
	u.send(ctx, events, StreamEvent{Kind: StreamEventKindDone})
}

// relayWithTrailer forwards deltas while holding back a short tail of output,
// so a terminal POSTS trailer can be stripped before the client sees it. The
// trailer's indices are resolved against the numbered context.
func (u *chatUsecase) relayWithTrailer(ctx context.Context, events chan<- StreamEvent, chunkCh <-chan domain.StreamChunk, errCh <-chan error, links []domain.ScoredLink, requestID string) {
	pending := ""
	trailerFound := false

	for chunkCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-chunkCh:
			if !ok {
				chunkCh = nil
				continue
			}
			if chunk.Response != "" && !trailerFound {
				pending += chunk.Response
				if idx := trailerStart(pending); idx >= 0 {
					trailerFound = true
					if visible := strings.TrimRight(pending[:idx], " \n"); visible != "" {
						if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindDelta, Payload: visible}) {
							return
						}
					}
					pending = pending[idx:]
				} else if visible, rest := splitHoldback(pending, trailerHoldback); visible != "" {
					if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindDelta, Payload: visible}) {
						return
					}
					pending = rest
				}
			} else if chunk.Response != "" {
				pending += chunk.Response
			}
			if chunk.Done {
				chunkCh = nil
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			u.logger.Error("model stream failed",
				slog.String("request_id", requestID), slog.String("error", err.Error()))
			u.send(ctx, events, StreamEvent{Kind: StreamEventKindError, Payload: err})
			return
		}
	}

	if trailerFound {
		indices := parseTrailerIndices(pending, len(links))
		if results := resultsFromIndices(links, indices); len(results) > 0 {
			if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindResults, Payload: results}) {
				return
			}
		}
	} else if pending != "" {
		if !u.send(ctx, events, StreamEvent{Kind: StreamEventKindDelta, Payload: pending}) {
			return
		}
	}
	u.send(ctx, events, StreamEvent{Kind: StreamEventKindDone})
}

func (u *chatUsecase) send(ctx context.Context, events chan<- StreamEvent, event StreamEvent) bool {
	select {
	case <-ctx.Done():
		return false
	case events <- event:
		return true
	}
}

func validateMessages(messages []domain.Message) error {
	if len(messages) == 0 {
		return &domain.ValidationError{Reason: "messages array required"}
	}
	for _, m := range messages {
		if !domain.ValidRole(m.Role) {
			return &domain.ValidationError{Reason: "unknown message role: " + m.Role}
		}
	}
	return nil
}

func lastUserMessage(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// splitHoldback splits s so that at least holdback trailing bytes stay
// buffered, cutting only on rune boundaries.
func splitHoldback(s string, holdback int) (visible, rest string) {
	if len(s) <= holdback {
		return "", s
	}
	cut := len(s) - holdback
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], s[cut:]
}

func resultsFromLinks(links []domain.ScoredLink, limit int) []SearchResult {
	if limit > len(links) {
		limit = len(links)
	}
	results := make([]SearchResult, 0, limit)
	for _, link := range links[:limit] {
		results = append(results, toSearchResult(link))
	}
	return results
}

func resultsFromIndices(links []domain.ScoredLink, indices []int) []SearchResult {
	results := make([]SearchResult, 0, len(indices))
	for _, n := range indices {
		results = append(results, toSearchResult(links[n-1]))
	}
	return results
}

func toSearchResult(link domain.ScoredLink) SearchResult {
	excerpt := link.Description
	if excerpt == "" {
		excerpt = link.Title
	}
	return SearchResult{
		Title:   link.Title,
		URL:     DeepLink(link.PostURL, link.Title),
		Excerpt: excerpt,
	}
}

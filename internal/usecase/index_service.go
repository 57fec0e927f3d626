package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// displayDateLayout renders publish timestamps the way the archive shows
// them, e.g. "Jan 13, 2026".
const displayDateLayout = "Jan 2, 2006"

// IndexService serves the cached link index and rebuilds it on expiry.
type IndexService interface {
	// GetIndex returns the cached index if present and unexpired, otherwise
	// rebuilds it from the content source and caches the result.
	GetIndex(ctx context.Context) ([]domain.IndexedPost, error)

	// ForceRefresh rebuilds and overwrites the cache regardless of
	// remaining TTL.
	ForceRefresh(ctx context.Context) ([]domain.IndexedPost, error)
}

type indexService struct {
	content   domain.ContentClient
	extractor domain.LinkExtractor
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger

	group singleflight.Group

	mu        sync.RWMutex
	posts     []domain.IndexedPost
	expiresAt time.Time
}

// IndexOption customizes the index service.
type IndexOption func(*indexService)

// WithClock replaces the wall clock, so tests can simulate TTL expiry.
func WithClock(now func() time.Time) IndexOption {
	return func(s *indexService) {
		s.now = now
	}
}

// NewIndexService creates an index service with the given cache TTL.
func NewIndexService(content domain.ContentClient, extractor domain.LinkExtractor, ttl time.Duration, logger *slog.Logger, opts ...IndexOption) IndexService {
	s := &indexService{
		content:   content,
		extractor: extractor,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *indexService) GetIndex(ctx context.Context) ([]domain.IndexedPost, error) {
	if posts, ok := s.cached(); ok {
		return posts, nil
	}

	// Collapse concurrent misses into one rebuild; every waiter gets the
	// same result.
	v, err, _ := s.group.Do("index", func() (interface{}, error) {
		if posts, ok := s.cached(); ok {
			return posts, nil
		}
		return s.rebuildAndStore(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.IndexedPost), nil
}

func (s *indexService) ForceRefresh(ctx context.Context) ([]domain.IndexedPost, error) {
	return s.rebuildAndStore(ctx)
}

func (s *indexService) cached() ([]domain.IndexedPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.posts != nil && s.now().Before(s.expiresAt) {
		return s.posts, true
	}
	return nil, false
}

// rebuildAndStore builds a fresh index and swaps it in whole. A failed build
// leaves any still-valid previous entry untouched.
func (s *indexService) rebuildAndStore(ctx context.Context) ([]domain.IndexedPost, error) {
	start := s.now()

	sourcePosts, err := s.content.FetchAllPosts(ctx)
	if err != nil {
		s.logger.Error("index rebuild failed", slog.String("error", err.Error()))
		return nil, err
	}

	index := make([]domain.IndexedPost, 0, len(sourcePosts))
	linkCount := 0
	for _, p := range sourcePosts {
		links := s.extractor.ExtractLinks(p.Content)
		linkCount += len(links)
		index = append(index, domain.IndexedPost{
			ID:      p.ID,
			Title:   s.extractor.DecodeText(p.Title),
			Date:    p.Date.Format(displayDateLayout),
			PostURL: p.Link,
			Links:   links,
		})
	}

	s.mu.Lock()
	s.posts = index
	s.expiresAt = s.now().Add(s.ttl)
	s.mu.Unlock()

	s.logger.Info("index rebuilt",
		slog.Int("posts", len(index)),
		slog.Int("links", linkCount),
		slog.Duration("took", s.now().Sub(start)))

	return index, nil
}

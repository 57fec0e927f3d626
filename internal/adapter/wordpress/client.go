// Package wordpress implements the upstream content client against the
// WordPress REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// wpDateLayout is the timezone-less timestamp the posts endpoint returns.
const wpDateLayout = "2006-01-02T15:04:05"

// errPastEnd signals the API's 400 "page past end" response. It terminates
// pagination and is never retried.
var errPastEnd = errors.New("page past end")

type postDTO struct {
	ID    int `json:"id"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
	Date string `json:"date"`
	Link string `json:"link"`
}

// Client pages through the WordPress posts endpoint. It satisfies
// domain.ContentClient.
type Client struct {
	baseURL    string
	categoryID int
	perPage    int
	maxPages   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a content client. maxPages is a hard ceiling against an
// upstream that keeps returning full pages.
func NewClient(baseURL string, categoryID, perPage, maxPages int, httpClient *http.Client, logger *slog.Logger) *Client {
	if perPage <= 0 {
		perPage = 100
	}
	if maxPages <= 0 {
		maxPages = 50
	}
	return &Client{
		baseURL:    baseURL,
		categoryID: categoryID,
		perPage:    perPage,
		maxPages:   maxPages,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(4), 1),
		logger:     logger,
	}
}

var _ domain.ContentClient = (*Client)(nil)

// FetchAllPosts implements domain.ContentClient. Pagination stops on an empty
// page, the total-pages header, a 400 past-end status, or the page ceiling.
// Any other failure discards the partial accumulation.
func (c *Client) FetchAllPosts(ctx context.Context) ([]domain.SourcePost, error) {
	var all []domain.SourcePost

	for page := 1; page <= c.maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.UpstreamError{Err: err}
		}

		posts, totalPages, err := c.fetchPage(ctx, page)
		if errors.Is(err, errPastEnd) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(posts) == 0 {
			break
		}

		all = append(all, posts...)

		if totalPages > 0 && page >= totalPages {
			break
		}
	}

	c.logger.Info("fetched posts from content source",
		slog.String("base_url", c.baseURL),
		slog.Int("count", len(all)))

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]domain.SourcePost, int, error) {
	url := fmt.Sprintf("%s?categories=%d&per_page=%d&page=%d&_fields=id,title,content,date,link",
		c.baseURL, c.categoryID, c.perPage, page)

	var (
		dtos       []postDTO
		totalPages int
	)

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.logger.Warn("content fetch failed, will retry",
					slog.Int("page", page), slog.String("error", err.Error()))
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode == http.StatusBadRequest {
				return retry.Unrecoverable(errPastEnd)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("content API returned %d", resp.StatusCode)
			}

			if tp, err := strconv.Atoi(resp.Header.Get("X-WP-TotalPages")); err == nil {
				totalPages = tp
			}

			dtos = dtos[:0]
			if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode posts page: %w", err))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.MaxJitter(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying content fetch",
				slog.Int("page", page), slog.Uint64("attempt", uint64(n)), slog.String("error", err.Error()))
		}),
	)
	if errors.Is(err, errPastEnd) {
		return nil, 0, errPastEnd
	}
	if err != nil {
		return nil, 0, &domain.UpstreamError{Err: fmt.Errorf("page %d: %w", page, err)}
	}

	posts := make([]domain.SourcePost, 0, len(dtos))
	for _, dto := range dtos {
		date, err := time.Parse(wpDateLayout, dto.Date)
		if err != nil {
			c.logger.Warn("invalid post date, using current time",
				slog.Int("post_id", dto.ID), slog.String("date", dto.Date))
			date = time.Now()
		}
		posts = append(posts, domain.SourcePost{
			ID:      dto.ID,
			Title:   dto.Title.Rendered,
			Content: dto.Content.Rendered,
			Date:    date,
			Link:    dto.Link,
		})
	}

	return posts, totalPages, nil
}

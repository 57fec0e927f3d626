package domain

import (
	"context"
	"time"
)

// SourcePost is a raw upstream post before link extraction. Title and Content
// are the rendered fields straight from the content API and may carry HTML
// entities and markup.
type SourcePost struct {
	ID      int
	Title   string
	Content string
	Date    time.Time
	Link    string
}

// ContentClient pages through the upstream content source and returns every
// post in the configured scope. A failed fetch discards all partial
// accumulation; callers never see a truncated corpus.
type ContentClient interface {
	FetchAllPosts(ctx context.Context) ([]SourcePost, error)
}

package domain

// LinkRecord is one external link extracted from a post body.
// URL is always absolute and never points back at the source site.
type LinkRecord struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IndexedPost is a post from the content source with its extracted links.
// Posts are built in bulk during an index rebuild and immutable afterward;
// the whole collection is replaced atomically on the next rebuild.
type IndexedPost struct {
	ID      int          `json:"id"`
	Title   string       `json:"title"`
	Date    string       `json:"date"`
	PostURL string       `json:"postUrl"`
	Links   []LinkRecord `json:"links"`
}

// ScoredLink denormalizes a LinkRecord with its parent post metadata and the
// relevance score computed for a single query. Never persisted.
type ScoredLink struct {
	LinkRecord
	PostTitle    string
	PostDate     string
	PostURL      string
	Score        int
	MatchedTerms int
}

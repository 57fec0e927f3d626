package domain

// LinkExtractor turns raw post HTML into link records. Implementations must
// be pure functions of their input so they can be swapped (regex scan, HTML
// tokenizer) without touching retrieval or prompt logic.
type LinkExtractor interface {
	// ExtractLinks returns the external links found in htmlBody, in document
	// order, deduplicated by URL.
	ExtractLinks(htmlBody string) []LinkRecord

	// DecodeText decodes HTML entities and strips residual tags from s.
	// Idempotent on already-plain text.
	DecodeText(s string) string
}

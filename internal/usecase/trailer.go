package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// The trailer grammar lives here so its parsing never leaks into the
// streaming core.

var (
	trailerMarkerRe  = regexp.MustCompile(`(?i)POSTS:`)
	trailerIndicesRe = regexp.MustCompile(`(?i)POSTS:\s*([\d,\s]+)`)
)

// maxTrailerCitations caps how many trailer indices are resolved.
const maxTrailerCitations = 5

// trailerStart returns the byte offset where a POSTS trailer begins, or -1.
func trailerStart(text string) int {
	loc := trailerMarkerRe.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// parseTrailerIndices extracts the unique 1-based entry numbers from a
// trailer, dropping anything outside [1, max] and capping the count.
func parseTrailerIndices(text string, max int) []int {
	m := trailerIndicesRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	seen := make(map[int]struct{})
	var indices []int
	for _, field := range strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	}) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > max {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		indices = append(indices, n)
		if len(indices) == maxTrailerCitations {
			break
		}
	}
	return indices
}

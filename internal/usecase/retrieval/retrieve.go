// Package retrieval scores indexed links against a user query and returns a
// ranked, size-bounded subset. Retrieve is a pure function: identical inputs
// always produce identical, identically-ordered output.
package retrieval

import (
	"sort"
	"strings"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// DefaultMaxResults bounds the ranked subset when the caller does not.
const DefaultMaxResults = 30

// Scoring weights. A full-phrase match dominates, individual term hits add
// up, and a hit inside the link title counts extra.
const (
	phraseScore     = 10
	termScore       = 2
	titleBonusScore = 3
)

// MeaningfulTerms normalizes query to lowercase, splits on whitespace, and
// drops short terms and stop words. An empty result means the query is too
// vague to retrieve against.
func MeaningfulTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) <= 2 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

// Retrieve ranks every link in the index against query and returns at most
// maxResults of them, best first. Ties on score fall back to matched-term
// count, then to encounter order.
func Retrieve(index []domain.IndexedPost, query string, maxResults int) []domain.ScoredLink {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	queryLower := strings.ToLower(query)
	terms := MeaningfulTerms(query)
	if len(terms) == 0 {
		return nil
	}

	// At least half of the meaningful terms must match.
	matchThreshold := (len(terms) + 1) / 2
	if matchThreshold < 1 {
		matchThreshold = 1
	}

	var scored []domain.ScoredLink
	for _, post := range index {
		for _, link := range post.Links {
			titleLower := strings.ToLower(link.Title)
			haystack := titleLower + " " + strings.ToLower(link.Description)

			score := 0
			matched := 0

			if strings.Contains(haystack, queryLower) {
				score += phraseScore
			}

			for _, term := range terms {
				if !strings.Contains(haystack, term) {
					continue
				}
				matched++
				score += termScore
				if strings.Contains(titleLower, term) {
					score += titleBonusScore
				}
			}

			if matched >= matchThreshold && score > 0 {
				scored = append(scored, domain.ScoredLink{
					LinkRecord:   link,
					PostTitle:    post.Title,
					PostDate:     post.Date,
					PostURL:      post.PostURL,
					Score:        score,
					MatchedTerms: matched,
				})
			}
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].MatchedTerms > scored[j].MatchedTerms
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

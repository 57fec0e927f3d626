// Package extract parses rendered post bodies into normalized link records.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// descSeparatorRe matches the separator that introduces a description after
// an anchor: hyphen, en/em dash, or colon, with optional whitespace.
var descSeparatorRe = regexp.MustCompile(`(?s)^\s*[-–—:]\s*(.+)$`)

// Extractor walks post HTML and collects external links. It satisfies
// domain.LinkExtractor so the goquery walk can later be swapped for another
// parser without touching retrieval or prompt logic.
type Extractor struct {
	siteDomain string
}

// New creates an extractor that treats links containing siteDomain as
// internal and excludes them.
func New(siteDomain string) *Extractor {
	return &Extractor{siteDomain: siteDomain}
}

var _ domain.LinkExtractor = (*Extractor)(nil)

// ExtractLinks runs two passes over the body. The block pass scans list items
// and paragraphs so descriptions trailing an anchor can be captured; the
// fallback pass picks up any remaining anchors elsewhere in the markup.
func (e *Extractor) ExtractLinks(htmlBody string) []domain.LinkRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var links []domain.LinkRecord
	seen := make(map[string]struct{})

	doc.Find("li, p").Each(func(_ int, block *goquery.Selection) {
		block.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			title := DecodeEntities(a.Text())
			if title == "" || !e.isExternal(href) {
				return
			}
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
			links = append(links, domain.LinkRecord{
				URL:         href,
				Title:       title,
				Description: descriptionAfter(a),
			})
		})
	})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		title := DecodeEntities(a.Text())
		if title == "" || !e.isExternal(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, domain.LinkRecord{URL: href, Title: title})
	})

	return links
}

// DecodeText implements domain.LinkExtractor.
func (e *Extractor) DecodeText(s string) string {
	return DecodeEntities(s)
}

// isExternal reports whether url points away from the source site. Anchors,
// mail and script links, and signup pages are never indexed.
func (e *Extractor) isExternal(url string) bool {
	if url == "" ||
		strings.HasPrefix(url, "#") ||
		strings.HasPrefix(url, "mailto:") ||
		strings.HasPrefix(url, "javascript:") {
		return false
	}
	if e.siteDomain != "" && strings.Contains(url, e.siteDomain) {
		return false
	}
	if strings.Contains(url, "wordpress.com/signup") {
		return false
	}
	return true
}

// descriptionAfter collects the text immediately following the anchor inside
// the same block, up to the next tag, and keeps what follows a leading
// separator.
func descriptionAfter(a *goquery.Selection) string {
	node := a.Get(0)
	var sb strings.Builder
	for n := node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			break
		}
		sb.WriteString(n.Data)
	}

	m := descSeparatorRe.FindStringSubmatch(sb.String())
	if m == nil {
		return ""
	}
	return DecodeEntities(m[1])
}

package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

// PromptBuilder turns the retrieved subset into the single system message
// prepended to the conversation.
type PromptBuilder interface {
	Build(links []domain.ScoredLink, totalPosts int) string
}

// DeepLink appends a text-fragment suffix to the post URL so a browser
// auto-scrolls to the link title.
func DeepLink(postURL, title string) string {
	return postURL + "#:~:text=" + strings.ReplaceAll(url.QueryEscape(title), "+", "%20")
}

// ArchivePromptBuilder produces the link-card prompt used by the structured
// citation mode: the model formats entries itself and the relay appends a
// results frame derived from the retrieved subset.
type ArchivePromptBuilder struct {
	archiveName string
	archiveURL  string
}

// NewArchivePromptBuilder creates a builder for the named archive.
func NewArchivePromptBuilder(archiveName, archiveURL string) *ArchivePromptBuilder {
	return &ArchivePromptBuilder{archiveName: archiveName, archiveURL: archiveURL}
}

var _ PromptBuilder = (*ArchivePromptBuilder)(nil)

func (b *ArchivePromptBuilder) Build(links []domain.ScoredLink, totalPosts int) string {
	if len(links) == 0 {
		return b.noMatchPrompt(totalPosts)
	}

	var entries []string
	for _, link := range links {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("LINK: %q", link.Title))
		if link.Description != "" {
			sb.WriteString(" - ")
			sb.WriteString(link.Description)
		}
		sb.WriteString(fmt.Sprintf("\nPOST: [%s](%s)", link.PostTitle, DeepLink(link.PostURL, link.Title)))
		entries = append(entries, sb.String())
	}

	return fmt.Sprintf(`You help users find design resources from the %q archive.

Here are relevant links I found:

%s

FORMAT YOUR RESPONSE LIKE THIS:
**Link Title**
Brief description of the resource
[Post Title](post-url)

Instructions:
- Share 3-5 of the most relevant results
- Show the link title in bold, then description, then the post link
- Copy the post link exactly as shown above
- Be conversational and helpful`, b.archiveName, strings.Join(entries, "\n\n"))
}

func (b *ArchivePromptBuilder) noMatchPrompt(totalPosts int) string {
	return fmt.Sprintf(`You help users find design resources from the %q archive (%d posts).

IMPORTANT: No matches were found for this query in the archive. Tell the user no relevant links were found and suggest they:
1. Try different keywords
2. Browse the archive at %s

DO NOT make up or invent any links. You can ONLY recommend links that are explicitly provided to you.`,
		b.archiveName, totalPosts, b.archiveURL)
}

// NumberedPromptBuilder produces the numbered-context prompt used by the
// trailer citation mode: the model answers briefly and appends a POSTS
// trailer line that the relay strips and resolves into results.
type NumberedPromptBuilder struct {
	archiveName string
	archiveURL  string
}

// NewNumberedPromptBuilder creates a trailer-mode builder for the named
// archive.
func NewNumberedPromptBuilder(archiveName, archiveURL string) *NumberedPromptBuilder {
	return &NumberedPromptBuilder{archiveName: archiveName, archiveURL: archiveURL}
}

var _ PromptBuilder = (*NumberedPromptBuilder)(nil)

func (b *NumberedPromptBuilder) Build(links []domain.ScoredLink, totalPosts int) string {
	if len(links) == 0 {
		return fmt.Sprintf(`You are a helpful search assistant for the %q archive (%d posts).

No content matched this query. Respond politely that nothing was found, suggest trying different keywords or browsing %s, and do NOT invent any links or include a POSTS line.`,
			b.archiveName, totalPosts, b.archiveURL)
	}

	var context []string
	for i, link := range links {
		entry := fmt.Sprintf("[%d] %q", i+1, link.Title)
		if link.Description != "" {
			entry += "\n" + link.Description
		}
		entry += fmt.Sprintf("\n(from %s)", link.PostTitle)
		context = append(context, entry)
	}

	return fmt.Sprintf(`You are a helpful search assistant for the %q archive. Help visitors find relevant content.

AVAILABLE CONTENT:
%s

INSTRUCTIONS:
1. Answer based ONLY on the available content above.
2. Write a brief, friendly response (1-2 sentences).
3. End your response with "POSTS:" followed by the numbers of relevant entries (comma-separated).
4. List up to 5 relevant entries, most relevant first.
5. If nothing matches, just respond politely without the POSTS line.

EXAMPLE:
User: Do you have articles about photography?
Assistant: Yes, I found some great photography resources for you!

POSTS: 3, 7, 12`, b.archiveName, strings.Join(context, "\n\n"))
}

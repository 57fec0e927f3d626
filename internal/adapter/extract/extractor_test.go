package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfx1026/creativelink-ai-search/internal/adapter/extract"
	"github.com/jfx1026/creativelink-ai-search/internal/domain"
)

func TestExtractLinks_BlockWithDescription(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	tests := []struct {
		name     string
		body     string
		wantDesc string
	}{
		{
			"hyphen separator",
			`<ul><li><a href="https://example.org/tool">Cool Tool</a> - A handy tool for designers</li></ul>`,
			"A handy tool for designers",
		},
		{
			"en dash separator",
			`<ul><li><a href="https://example.org/tool">Cool Tool</a> – A handy tool for designers</li></ul>`,
			"A handy tool for designers",
		},
		{
			"colon separator in paragraph",
			`<p><a href="https://example.org/tool">Cool Tool</a>: A handy tool for designers</p>`,
			"A handy tool for designers",
		},
		{
			"no separator means no description",
			`<p><a href="https://example.org/tool">Cool Tool</a> and some unrelated prose</p>`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := e.ExtractLinks(tt.body)
			require.Len(t, links, 1)
			assert.Equal(t, "https://example.org/tool", links[0].URL)
			assert.Equal(t, "Cool Tool", links[0].Title)
			assert.Equal(t, tt.wantDesc, links[0].Description)
		})
	}
}

func TestExtractLinks_FallbackPassOutsideBlocks(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	body := `<div><a href="https://example.org/loose">Loose Anchor</a> - description is not captured here</div>`

	links := e.ExtractLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.org/loose", links[0].URL)
	assert.Equal(t, "Loose Anchor", links[0].Title)
	assert.Empty(t, links[0].Description, "only the block pass captures descriptions")
}

func TestExtractLinks_DeduplicatesByURL(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	body := `<ul>
		<li><a href="https://example.org/a">First Mention</a> - described here</li>
		<li><a href="https://example.org/a">Second Mention</a> - different text, same URL</li>
	</ul>
	<div><a href="https://example.org/a">Third Mention</a></div>`

	links := e.ExtractLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "First Mention", links[0].Title, "first encounter wins")
	assert.Equal(t, "described here", links[0].Description)
}

func TestExtractLinks_ExcludesInternalLinks(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	body := `<ul>
		<li><a href="#section">Anchor</a></li>
		<li><a href="mailto:hi@example.org">Mail</a></li>
		<li><a href="javascript:void(0)">Script</a></li>
		<li><a href="https://johnfreeborn.com/words/week-12">Own Site</a></li>
		<li><a href="https://wordpress.com/signup">Signup</a></li>
		<li><a href="https://example.org/keep">Keep Me</a> - the only external link</li>
	</ul>`

	links := e.ExtractLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.org/keep", links[0].URL)
}

func TestExtractLinks_SkipsEmptyAnchorText(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	body := `<p><a href="https://example.org/img"><img src="x.png"></a></p>
	<p><a href="https://example.org/named">Named</a></p>`

	links := e.ExtractLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "Named", links[0].Title)
}

func TestExtractLinks_DecodesEntitiesInTitleAndDescription(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	body := `<ul><li><a href="https://example.org/t">Type &#038; Grids</a> &#8211; grids &amp; type systems</li></ul>`

	links := e.ExtractLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "Type & Grids", links[0].Title)
	assert.Equal(t, "grids & type systems", links[0].Description)
}

func TestExtractLinks_EmptyAndMalformedInput(t *testing.T) {
	e := extract.New("johnfreeborn.com")

	assert.Empty(t, e.ExtractLinks(""))
	assert.Empty(t, e.ExtractLinks("<li><a href=>broken"))
}

func TestExtractor_ImplementsLinkExtractor(t *testing.T) {
	var _ domain.LinkExtractor = extract.New("example.com")
}

package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, params RequestParams) *FeedRequest {
	t.Helper()
	req, err := params.Build()
	require.NoError(t, err)
	return req
}

// TestExtract_RelativeLinks verifies that relative hrefs resolve against
// the source URL while the RSS output requires absolute links.
func TestExtract_RelativeLinks(t *testing.T) {
	req := mustBuild(t, validParams())

	body := `<!DOCTYPE html>
		<html lang="en-US">
		<body>
			<a class="item" href="item-1">Item 1</a>
			<a class="item" href="item-2">Item 2</a>
		</body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://example.com/feed/item-1", items[0].URL.String())
	assert.Equal(t, "https://example.com/feed/item-2", items[1].URL.String())
	assert.Equal(t, "Item 1", items[0].Title)
}

// TestExtract_AbsoluteLinks verifies absolute hrefs pass through unchanged.
func TestExtract_AbsoluteLinks(t *testing.T) {
	req := mustBuild(t, validParams())

	body := `<body><a class="item" href="https://other.example.org/story">Story</a></body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://other.example.org/story", items[0].URL.String())
}

// TestExtract_DropsItemsWithoutHref verifies that items lacking a
// resolvable link are silently excluded, not errors.
func TestExtract_DropsItemsWithoutHref(t *testing.T) {
	req := mustBuild(t, validParams())

	body := `<body>
		<div class="item">No link here</div>
		<a class="item" href="item-2">Item 2</a>
	</body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com/feed/item-2", items[0].URL.String())
}

// TestExtract_SubSelectors verifies the title/link/date sub-targets resolve
// within each item node.
func TestExtract_SubSelectors(t *testing.T) {
	params := validParams()
	params.TitleSelector = ".link"
	params.LinkSelector = ".link"
	params.DateSelector = ".published"
	req := mustBuild(t, params)

	body := `<body>
		<div class="item">
			<a class="link" href="item-1">The Story</a>
			<p class="published">  Jan 10, 2021  </p>
		</div>
	</body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The Story", items[0].Title)
	assert.Equal(t, "https://example.com/feed/item-1", items[0].URL.String())
	assert.Equal(t, "Jan 10, 2021", items[0].DateText, "date text should be trimmed")
}

// TestExtract_SelfSelectorFallback verifies that a configured sub-selector
// matching nothing falls back to the item node itself.
func TestExtract_SelfSelectorFallback(t *testing.T) {
	params := validParams()
	params.TitleSelector = ".missing"
	params.LinkSelector = ".missing"
	req := mustBuild(t, params)

	body := `<body><a class="item" href="item-1">Fallback Title</a></body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fallback Title", items[0].Title)
	assert.Equal(t, "https://example.com/feed/item-1", items[0].URL.String())
}

// TestExtract_ReversedBeforeCap verifies the cap keeps the most recent
// items under reversed ordering: [A,B,C,D] with max 2 yields [D,C], where
// normal ordering yields [A,B].
func TestExtract_ReversedBeforeCap(t *testing.T) {
	body := `<body>
		<a class="item" href="a">A</a>
		<a class="item" href="b">B</a>
		<a class="item" href="c">C</a>
		<a class="item" href="d">D</a>
	</body>`

	params := validParams()
	params.MaxItems = 2
	req := mustBuild(t, params)

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "B", items[1].Title)

	params.Order = "reversed"
	req = mustBuild(t, params)

	items, err = Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "D", items[0].Title)
	assert.Equal(t, "C", items[1].Title)
}

// TestExtract_NoMatches verifies zero matched nodes yield an empty result,
// not an error.
func TestExtract_NoMatches(t *testing.T) {
	req := mustBuild(t, validParams())

	items, err := Extract(req, `<body><p>nothing to see</p></body>`)
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestExtract_TrimsTitleWhitespace verifies title text is trimmed.
func TestExtract_TrimsTitleWhitespace(t *testing.T) {
	req := mustBuild(t, validParams())

	body := `<body><a class="item" href="item-1">
		Padded Title
	</a></body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Padded Title", items[0].Title)
}

// TestExtract_NoDateSelector verifies date text stays empty when no date
// selector is configured, even if the item has text.
func TestExtract_NoDateSelector(t *testing.T) {
	req := mustBuild(t, validParams())

	body := `<body><a class="item" href="item-1">Jan 10, 2021</a></body>`

	items, err := Extract(req, body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].DateText)
}

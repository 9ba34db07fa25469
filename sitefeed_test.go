package sitefeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefeed/sitefeed/fetch"
	"github.com/sitefeed/sitefeed/scraper"
)

func pageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func testFetcher(t *testing.T) *fetch.Fetcher {
	t.Helper()
	return fetch.NewFetcher(fetch.NewFileCache(t.TempDir(), fetch.DefaultTTL))
}

// TestGenerateFeed_RoundTrip covers the minimal end-to-end scenario: two
// anchors with relative hrefs become absolute item links in page order,
// each with a populated, strictly decreasing timestamp.
func TestGenerateFeed_RoundTrip(t *testing.T) {
	server := pageServer(t, `<!DOCTYPE html>
		<html lang="en-US">
		<body>
			<a class="item" href="item-1">Item 1</a>
			<a class="item" href="item-2">Item 2</a>
		</body>`)

	req, err := scraper.RequestParams{
		Name:         "Round Trip Feed",
		URL:          server.URL + "/feed/",
		ItemSelector: ".item",
		MaxItems:     30,
	}.Build()
	require.NoError(t, err)

	generated, err := GenerateFeed(testFetcher(t), req)
	require.NoError(t, err)

	require.Len(t, generated.Items, 2)
	assert.Equal(t, server.URL+"/feed/item-1", generated.Items[0].URL.String())
	assert.Equal(t, server.URL+"/feed/item-2", generated.Items[1].URL.String())

	for _, item := range generated.Items {
		assert.False(t, item.PubDate.IsZero())
	}
	assert.True(t, generated.Items[0].PubDate.After(generated.Items[1].PubDate),
		"timestamps must strictly decrease in feed order")

	// The rendered document must parse as a real RSS feed.
	parsed, err := gofeed.NewParser().ParseString(generated.RSS())
	require.NoError(t, err)
	assert.Equal(t, "Round Trip Feed", parsed.Title)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, "Item 1", parsed.Items[0].Title)
}

// TestGenerateFeed_ParsesPageDates verifies the date selector path end to
// end: a human-readable date on the page becomes the item's pubDate.
func TestGenerateFeed_ParsesPageDates(t *testing.T) {
	server := pageServer(t, `<body>
		<div class="item">
			<a class="link" href="item-1">The Story</a>
			<p class="published">Jan 10, 2021</p>
		</div>
	</body>`)

	req, err := scraper.RequestParams{
		Name:          "Dated Feed",
		URL:           server.URL + "/",
		ItemSelector:  ".item",
		TitleSelector: ".link",
		LinkSelector:  ".link",
		DateSelector:  ".published",
		MaxItems:      30,
	}.Build()
	require.NoError(t, err)

	generated, err := GenerateFeed(testFetcher(t), req)
	require.NoError(t, err)

	require.Len(t, generated.Items, 1)
	assert.Equal(t, "The Story", generated.Items[0].Title)
	assert.Equal(t, 2021, generated.Items[0].PubDate.Year())
	assert.Equal(t, 10, generated.Items[0].PubDate.Day())
}

// TestGenerateFeed_EmptyPage verifies zero matched items is a successful
// empty feed, not an error.
func TestGenerateFeed_EmptyPage(t *testing.T) {
	server := pageServer(t, `<body><p>no items here</p></body>`)

	req, err := scraper.RequestParams{
		Name:         "Empty Feed",
		URL:          server.URL + "/",
		ItemSelector: ".item",
		MaxItems:     30,
	}.Build()
	require.NoError(t, err)

	generated, err := GenerateFeed(testFetcher(t), req)
	require.NoError(t, err)
	assert.Empty(t, generated.Items)
	assert.True(t, strings.Contains(generated.RSS(), "<title>Empty Feed</title>"))
}

// TestGenerateFeed_FetchFailure verifies an unreachable origin surfaces as
// a terminal error.
func TestGenerateFeed_FetchFailure(t *testing.T) {
	server := pageServer(t, "")
	serverURL := server.URL
	server.Close()

	req, err := scraper.RequestParams{
		Name:         "Unreachable Feed",
		URL:          serverURL + "/",
		ItemSelector: ".item",
		MaxItems:     30,
	}.Build()
	require.NoError(t, err)

	_, err = GenerateFeed(testFetcher(t), req)
	assert.Error(t, err)
}

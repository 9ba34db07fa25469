// Package sitefeed generates an RSS feed from an arbitrary HTML page, given
// a declarative description of where on the page the items live.
package sitefeed

import (
	"time"

	"github.com/sitefeed/sitefeed/feed"
	"github.com/sitefeed/sitefeed/fetch"
	"github.com/sitefeed/sitefeed/scraper"
)

// GenerateFeed runs the pipeline for one request: fetch the page (through
// the fetcher's cache), extract items with the request's selectors, and
// assemble a feed with synthesized, strictly ordered publication dates.
// It fails only when the page cannot be fetched or parsed; a page matching
// zero items yields an empty feed.
func GenerateFeed(fetcher *fetch.Fetcher, req *scraper.FeedRequest) (*feed.Feed, error) {
	body, err := fetcher.Fetch(req.URL)
	if err != nil {
		return nil, err
	}

	items, err := scraper.Extract(req, body)
	if err != nil {
		return nil, err
	}

	return feed.New(req.Name, req.URL, items, req.HasDateSelector(), time.Now()), nil
}

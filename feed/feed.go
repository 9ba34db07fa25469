// Package feed turns extracted page items into an immutable, temporally
// ordered feed and renders it as RSS 2.0.
package feed

import (
	"net/url"
	"time"

	"github.com/sitefeed/sitefeed/scraper"
)

// FeedItem is one final feed entry. PubDate is always populated: items
// without a usable source date receive a synthesized one.
type FeedItem struct {
	Title   string
	URL     *url.URL
	PubDate time.Time
}

// Feed is the finished product: a name, the canonical page URL, and items
// in display order (index 0 is the most recent). It has no identity beyond
// the request that produced it.
type Feed struct {
	Name  string
	URL   *url.URL
	Items []FeedItem
}

// New assembles a Feed from extracted items. parseDates selects the date
// strategy: when true each item's date text is parsed and missing dates are
// inherited from the previous item; when false all date text is ignored and
// timestamps are spread hourly backwards from now. Either way the resulting
// publication dates are strictly decreasing in item order.
func New(name string, pageURL *url.URL, items []scraper.Item, parseDates bool, now time.Time) *Feed {
	dates := synthesizeDates(items, parseDates, now)

	feedItems := make([]FeedItem, len(items))
	for i, item := range items {
		feedItems[i] = FeedItem{
			Title:   item.Title,
			URL:     item.URL,
			PubDate: dates[i],
		}
	}

	return &Feed{
		Name:  name,
		URL:   pageURL,
		Items: feedItems,
	}
}

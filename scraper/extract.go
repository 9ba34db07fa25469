package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/sitefeed/sitefeed/logger"
)

// Item is one candidate feed entry as found on the page: a trimmed title,
// an absolute link, and whatever raw date text the page offered (empty when
// no date selector is configured or nothing matched). Items are transient;
// the feed package consumes them immediately.
type Item struct {
	Title    string
	URL      *url.URL
	DateText string
}

// Extract applies the request's selectors to an HTML body and returns the
// candidate items in feed order: document order for OrderNormal, reversed
// for OrderReversed, then capped at MaxItems. Items whose link cannot be
// resolved to an absolute URL are dropped; a page with no matches yields an
// empty slice.
func Extract(req *FeedRequest, body string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items []Item
	doc.FindMatcher(req.ItemSelector).Each(func(i int, node *goquery.Selection) {
		item, ok := extractItem(req, node)
		if !ok {
			logger.Debugf("[scraper] dropping item %d of %s: no resolvable link", i, req.Name)
			return
		}
		items = append(items, item)
	})

	// Reverse before capping so the cap keeps the most recent MaxItems
	// under the configured ordering, not the first N in document order.
	if req.Order == OrderReversed {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	if len(items) > req.MaxItems {
		items = items[:req.MaxItems]
	}

	return items, nil
}

func extractItem(req *FeedRequest, node *goquery.Selection) (Item, bool) {
	title := strings.TrimSpace(subTarget(node, req.TitleSelector).Text())

	href, ok := subTarget(node, req.LinkSelector).Attr("href")
	if !ok {
		return Item{}, false
	}
	link, ok := resolveLink(req.URL, href)
	if !ok {
		return Item{}, false
	}

	dateText := ""
	if req.DateSelector != nil {
		dateText = strings.TrimSpace(subTarget(node, req.DateSelector).Text())
	}

	return Item{Title: title, URL: link, DateText: dateText}, true
}

// subTarget resolves the node a sub-selector points at within one item. A
// nil selector, or a selector matching nothing, falls back to the item node
// itself.
func subTarget(item *goquery.Selection, sel cascadia.Selector) *goquery.Selection {
	if sel == nil {
		return item
	}
	match := item.FindMatcher(sel).First()
	if match.Length() == 0 {
		return item
	}
	return match
}

// resolveLink turns an href into an absolute URL. An already-absolute href
// passes through unchanged; anything else is joined against the source URL
// as a relative reference.
func resolveLink(base *url.URL, href string) (*url.URL, bool) {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return u, true
	}
	u, err := base.Parse(href)
	if err != nil {
		return nil, false
	}
	return u, true
}

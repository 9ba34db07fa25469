package feed

import (
	"encoding/xml"
	"time"
)

// RSS 2.0 requires RFC 2822 pubDate values, which time.RFC1123Z matches.
const rfc2822 = time.RFC1123Z

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

// rssChannel carries a channel-level guid alongside the usual fields; some
// readers use it to dedupe feeds that move hosts. Description is always
// present and always empty.
type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	GUID        string    `xml:"guid"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// RSS renders the feed as an RSS 2.0 document. The item guid is the item
// link; there is no separate identifier scheme. Items appear in Feed order.
func (f *Feed) RSS() string {
	items := make([]rssItem, len(f.Items))
	for i, item := range f.Items {
		items[i] = rssItem{
			Title:   item.Title,
			Link:    item.URL.String(),
			GUID:    item.URL.String(),
			PubDate: item.PubDate.Format(rfc2822),
		}
	}

	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title: f.Name,
			Link:  f.URL.String(),
			GUID:  f.URL.String(),
			Items: items,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshalling fixed structs with string fields cannot fail.
		panic(err)
	}
	return string(out) + "\n"
}

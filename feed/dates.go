package feed

import (
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/sitefeed/sitefeed/scraper"
)

// noDateStep is the spacing between synthesized timestamps when the source
// page carries no date signal at all. Coarser than the one-second repair
// step so readers see the items spread out rather than adjacent.
const noDateStep = time.Hour

// synthesizeDates produces one publication date per item, strictly
// decreasing in item order. Feed readers sort on pubDate, so the dates must
// reproduce the extraction order even when the page's own dates are
// missing, duplicated, or locally out of sequence.
func synthesizeDates(items []scraper.Item, parseDates bool, now time.Time) []time.Time {
	if !parseDates {
		return spreadFromNow(len(items), now)
	}

	dates := inheritDates(items, now)
	repairOrder(dates)
	return dates
}

// inheritDates parses each item's date text anchored at now; items whose
// text is absent or unparsable inherit the previous item's date. The
// rolling date starts at the first item's real date when it has one,
// otherwise at now.
func inheritDates(items []scraper.Item, now time.Time) []time.Time {
	previous := now
	if len(items) > 0 {
		if d, ok := parseDate(items[0].DateText, now); ok {
			previous = d
		}
	}

	dates := make([]time.Time, len(items))
	for i, item := range items {
		if d, ok := parseDate(item.DateText, now); ok {
			previous = d
		}
		dates[i] = previous
	}
	return dates
}

// repairOrder forces the dates into strictly descending order, minimally:
// a date not strictly below its (already repaired) predecessor becomes the
// predecessor minus one second.
func repairOrder(dates []time.Time) {
	if len(dates) == 0 {
		return
	}
	previous := dates[0]
	for i := 1; i < len(dates); i++ {
		if !dates[i].Before(previous) {
			dates[i] = previous.Add(-time.Second)
		}
		previous = dates[i]
	}
}

// spreadFromNow assigns now to the first item and steps each subsequent
// item back by a fixed hour.
func spreadFromNow(n int, now time.Time) []time.Time {
	dates := make([]time.Time, n)
	previous := now
	for i := range dates {
		if i > 0 {
			previous = previous.Add(-noDateStep)
		}
		dates[i] = previous
	}
	return dates
}

// parseDate reads free-form human date text ("Jan 10, 2021", "yesterday"),
// anchored at now. Failure is not an error; the caller synthesizes a date.
func parseDate(text string, now time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
		Languages:   []string{"en"},
	}
	parsed, err := dateparser.Parse(cfg, text)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.Time, true
}

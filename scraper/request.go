// Package scraper extracts candidate feed items from an HTML page using a
// declarative selector configuration.
package scraper

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/andybalholm/cascadia"
)

// MaxItemsCeiling is the hard upper bound on items in a generated feed,
// regardless of what a caller requests.
const MaxItemsCeiling = 30

// Validation errors for building a FeedRequest.
var (
	ErrMissingName         = errors.New("name is required")
	ErrMissingItemSelector = errors.New("item_selector is required")
	ErrInvalidURL          = errors.New("url must be a valid absolute URL")
	ErrInvalidOrder        = errors.New("order must be 'normal' or 'reversed'")
)

// SelectorError reports a selector string that failed to compile, carrying
// the name of the offending request field.
type SelectorError struct {
	Field string
	Err   error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *SelectorError) Unwrap() error { return e.Err }

// Order determines which end of the page is treated as "most recent".
type Order int

const (
	// OrderNormal treats the top-most matched item as the most recent.
	OrderNormal Order = iota
	// OrderReversed treats the bottom-most matched item as the most recent.
	OrderReversed
)

// ParseOrder converts the wire value of the order parameter. The empty
// string defaults to OrderNormal.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "normal":
		return OrderNormal, nil
	case "reversed":
		return OrderReversed, nil
	default:
		return OrderNormal, fmt.Errorf("%w (got %q)", ErrInvalidOrder, s)
	}
}

func (o Order) String() string {
	if o == OrderReversed {
		return "reversed"
	}
	return "normal"
}

// RequestParams holds the raw request fields as received from a front end
// (CLI flags or HTTP query parameters), before validation.
type RequestParams struct {
	Name          string
	URL           string
	ItemSelector  string
	TitleSelector string
	LinkSelector  string
	DateSelector  string
	Order         string
	MaxItems      int
}

// FeedRequest is a validated, immutable description of one feed to
// generate: where to fetch, which nodes are items, and where within each
// item the title, link and publication date live.
type FeedRequest struct {
	Name string
	URL  *url.URL

	// ItemSelector matches the repeating node that represents one entry.
	ItemSelector cascadia.Selector

	// TitleSelector, LinkSelector and DateSelector each search within an
	// item node. A nil selector means the item node itself is the target.
	TitleSelector cascadia.Selector
	LinkSelector  cascadia.Selector
	DateSelector  cascadia.Selector

	Order    Order
	MaxItems int
}

// Build validates the raw parameters and produces an immutable FeedRequest.
// MaxItems is silently clamped to [0, MaxItemsCeiling]; every other problem
// is an error.
func (p RequestParams) Build() (*FeedRequest, error) {
	if p.Name == "" {
		return nil, ErrMissingName
	}
	if p.ItemSelector == "" {
		return nil, ErrMissingItemSelector
	}

	u, err := url.Parse(p.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w (got %q)", ErrInvalidURL, p.URL)
	}

	itemSel, err := compileSelector("item_selector", p.ItemSelector)
	if err != nil {
		return nil, err
	}
	titleSel, err := compileOptional("title_selector", p.TitleSelector)
	if err != nil {
		return nil, err
	}
	linkSel, err := compileOptional("link_selector", p.LinkSelector)
	if err != nil {
		return nil, err
	}
	dateSel, err := compileOptional("pub_date_selector", p.DateSelector)
	if err != nil {
		return nil, err
	}

	order, err := ParseOrder(p.Order)
	if err != nil {
		return nil, err
	}

	maxItems := p.MaxItems
	if maxItems > MaxItemsCeiling {
		maxItems = MaxItemsCeiling
	}
	if maxItems < 0 {
		maxItems = 0
	}

	return &FeedRequest{
		Name:          p.Name,
		URL:           u,
		ItemSelector:  itemSel,
		TitleSelector: titleSel,
		LinkSelector:  linkSel,
		DateSelector:  dateSel,
		Order:         order,
		MaxItems:      maxItems,
	}, nil
}

func compileSelector(field, text string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(text)
	if err != nil {
		return nil, &SelectorError{Field: field, Err: err}
	}
	return sel, nil
}

func compileOptional(field, text string) (cascadia.Selector, error) {
	if text == "" {
		return nil, nil
	}
	return compileSelector(field, text)
}

// HasDateSelector reports whether the request configured a publication date
// location. It selects the date-synthesis strategy downstream.
func (r *FeedRequest) HasDateSelector() bool {
	return r.DateSelector != nil
}

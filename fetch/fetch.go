// Package fetch retrieves page bodies through a time-bounded local cache,
// shielding origin sites from repeated requests.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sitefeed/sitefeed/logger"
)

// Some origins refuse requests from default library clients, so we identify
// as a desktop browser.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

const fetchTimeout = 10 * time.Second

// Fetcher fetches page bodies, serving from the cache while an entry is
// fresh and overwriting it after each successful origin fetch.
type Fetcher struct {
	client *http.Client
	cache  Cache
}

// NewFetcher builds a fetcher over the given cache. A nil cache gets the
// default file cache in the system temp directory.
func NewFetcher(cache Cache) *Fetcher {
	if cache == nil {
		cache = NewFileCache("", DefaultTTL)
	}
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
		cache:  cache,
	}
}

// Fetch returns the body for pageURL. A fresh cache entry short-circuits
// the network; otherwise the origin is fetched and the cache overwritten.
// Cache problems are never fatal, an origin failure always is — there is no
// fallback to stale content.
func (f *Fetcher) Fetch(pageURL *url.URL) (string, error) {
	key := Key(pageURL.String())

	if body, ok := f.cache.Get(key); ok {
		logger.Debugf("[fetch] cache hit for %s", pageURL)
		return body, nil
	}

	body, err := f.fetchOrigin(pageURL)
	if err != nil {
		return "", err
	}

	if err := f.cache.Put(key, body); err != nil {
		logger.Warnf("[fetch] failed to cache %s: %v", pageURL, err)
	}

	return body, nil
}

func (f *Fetcher) fetchOrigin(pageURL *url.URL) (string, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: HTTP error: %d %s", pageURL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", pageURL, err)
	}

	return string(body), nil
}

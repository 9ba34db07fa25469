package fetch

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a cached page body stays fresh.
const DefaultTTL = 30 * time.Minute

// Cache is the narrow store the fetcher needs: look up a body by key, and
// overwrite it after a refresh. Implementations decide staleness; Get
// returns false for anything it considers unusable.
type Cache interface {
	Get(key string) (string, bool)
	Put(key string, body string) error
}

// Key derives the cache key for a source URL.
func Key(rawURL string) string {
	h := fnv.New64a()
	h.Write([]byte(rawURL))
	return fmt.Sprintf("sitefeed-%x", h.Sum64())
}

// FileCache stores one artifact per key under a directory. There is no
// metadata record: staleness derives from the artifact's own modification
// time, so an overwrite is also a freshness reset. Concurrent writers for
// the same key race benignly; the body is a pure function of the URL.
type FileCache struct {
	Dir string
	TTL time.Duration
}

// NewFileCache builds a cache under dir (os.TempDir() when empty) with the
// given TTL (DefaultTTL when zero).
func NewFileCache(dir string, ttl time.Duration) *FileCache {
	if dir == "" {
		dir = os.TempDir()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileCache{Dir: dir, TTL: ttl}
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.Dir, key)
}

// Get returns the cached body when the artifact exists, is readable, and
// was written within the TTL. Any failure is a miss, never an error.
func (c *FileCache) Get(key string) (string, bool) {
	path := c.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) >= c.TTL {
		return "", false
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(body), true
}

// Put overwrites the artifact for key with body.
func (c *FileCache) Put(key string, body string) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path(key), []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write cache artifact: %w", err)
	}
	return nil
}

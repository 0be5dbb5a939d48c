package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PageCache stores fetched documents keyed by URL: a fast in-memory layer
// backed by an optional disk layer. A rerun after a mid-run failure can then
// revalidate already-seen posts without refetching them.
type PageCache struct {
	mem *gocache.Cache
	dir string
	ttl time.Duration
}

// NewPageCache creates a cache with the given TTL. dir may be empty for a
// memory-only cache.
func NewPageCache(dir string, ttl time.Duration) *PageCache {
	return &PageCache{
		mem: gocache.New(ttl, 2*ttl),
		dir: dir,
		ttl: ttl,
	}
}

type diskEntry struct {
	Document  Document  `json:"document"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the cached document for a URL, if present and fresh.
func (c *PageCache) Get(rawURL string) (*Document, bool) {
	if val, found := c.mem.Get(rawURL); found {
		doc := val.(Document)
		return &doc, true
	}

	if c.dir == "" {
		return nil, false
	}

	raw, err := os.ReadFile(c.path(rawURL))
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(c.path(rawURL))
		return nil, false
	}

	c.mem.Set(rawURL, entry.Document, c.ttl)
	return &entry.Document, true
}

// Set stores a document under its URL.
func (c *PageCache) Set(rawURL string, doc *Document) {
	c.mem.Set(rawURL, *doc, c.ttl)

	if c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}

	entry := diskEntry{Document: *doc, ExpiresAt: time.Now().Add(c.ttl)}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path(rawURL), raw, 0644)
}

func (c *PageCache) path(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

// CachingFetcher wraps a Fetcher with a PageCache.
type CachingFetcher struct {
	Inner Fetcher
	Cache *PageCache
}

// Fetch returns the cached document when available, otherwise delegates and
// caches the result.
func (f *CachingFetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if doc, ok := f.Cache.Get(rawURL); ok {
		return doc, nil
	}

	doc, err := f.Inner.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	f.Cache.Set(rawURL, doc)
	return doc, nil
}

// Package cache wraps the storage layer's response cache with hashing,
// TTL handling, and hit/miss accounting.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/nexus-stack/nexus/internal/storage"
)

// Cache is a TTL cache for AI responses keyed by provider and normalized
// query text.
type Cache struct {
	store      *storage.Store
	ttl        time.Duration
	maxEntries int

	mu     sync.Mutex
	hits   int64
	misses int64
}

// Stats reports cache effectiveness since process start plus the current
// entry count from storage.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

// New returns a cache with the given TTL over the store. maxEntries bounds
// the stored entry count; zero or negative disables the bound.
func New(store *storage.Store, ttl time.Duration, maxEntries int) *Cache {
	return &Cache{store: store, ttl: ttl, maxEntries: maxEntries}
}

// Key derives the cache key for a provider/query pair. Queries are
// lowercased and whitespace-trimmed so trivially different phrasings of the
// same question share an entry.
func Key(provider, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(provider + ":" + normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached response for the query, or "" and false on a miss.
func (c *Cache) Get(provider, query string) (string, bool) {
	entry, err := c.store.GetCache(Key(provider, query))
	if err != nil || entry == nil {
		c.count(false)
		return "", false
	}
	c.count(true)
	return entry.Response, true
}

// Put stores a response for the query with the cache's TTL. When the entry
// count exceeds the configured maximum, expired entries are swept first to
// make room.
func (c *Cache) Put(provider, query, response string) error {
	if c.maxEntries > 0 {
		if n, err := c.store.CacheCount(); err == nil && n >= int64(c.maxEntries) {
			if _, err := c.store.CleanupExpiredCache(); err != nil {
				return err
			}
		}
	}
	expires := time.Now().Add(c.ttl)
	return c.store.SaveCache(Key(provider, query), query, response, provider, expires)
}

// Cleanup removes expired entries, returning how many were deleted.
func (c *Cache) Cleanup() (int64, error) {
	return c.store.CleanupExpiredCache()
}

// Stats returns hit/miss counters and the stored entry count.
func (c *Cache) Stats() (Stats, error) {
	entries, err := c.store.CacheCount()
	if err != nil {
		return Stats{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: entries}, nil
}

func (c *Cache) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

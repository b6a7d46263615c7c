package stac

import (
	"sync"
	"time"
)

// SearchCache is a time-boxed cache of item-search results, keyed by the
// canonical search parameters. It exists so repeated tool calls against the
// same query (a common agent pattern: search, then estimate, then refine) do
// not re-hit the catalog within the TTL window.
type SearchCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	items   []Item
	expires time.Time
}

// NewSearchCache builds a cache with the given TTL. A non-positive TTL
// disables caching: Get always misses and Put is a no-op.
func NewSearchCache(ttl time.Duration) *SearchCache {
	return &SearchCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached items for the given search, if still fresh.
func (c *SearchCache) Get(params SearchParams) ([]Item, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	key := params.CacheKey()
	if key == "" {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.items, true
}

// Put stores a search result. Expired entries are swept opportunistically so
// the map does not grow without bound.
func (c *SearchCache) Put(params SearchParams, items []Item) {
	if c == nil || c.ttl <= 0 {
		return
	}
	key := params.CacheKey()
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{items: items, expires: now.Add(c.ttl)}
}

// Len reports the number of live entries, for tests and debugging.
func (c *SearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

package geocode

import (
	"sync"
	"sync/atomic"
)

// Cache maps a fully-formed query URL to its outcome, including "no precise
// match" (a nil *Result). Entries never expire and are never replaced; the
// cache lives as long as the process.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Result
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// Get returns the cached outcome for key. The bool reports whether the key
// was present; the *Result may be nil for a cached miss.
func (c *Cache) Get(key string) (*Result, bool) {
	c.mu.RLock()
	res, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		return res.clone(), true
	}
	c.misses.Add(1)
	return nil, false
}

// Put stores an outcome. The first stored outcome for a key wins.
func (c *Cache) Put(key string, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = res.clone()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStats reports cache usage.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Entries: c.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (r *Result) clone() *Result {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

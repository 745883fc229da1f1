package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local expiring cache. Values larger than
// maxItemBytes are not kept.
type MemoryCache struct {
	cache        *gocache.Cache
	maxItemBytes int64
}

// NewMemoryCache creates a new memory cache; maxItemBytes 0 means no size limit
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, maxItemBytes int64) *MemoryCache {
	return &MemoryCache{
		cache:        gocache.New(defaultTTL, cleanupInterval),
		maxItemBytes: maxItemBytes,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	b, ok := val.([]byte)
	return b, ok
}

// Set stores a value; a zero TTL uses the cache default. An oversized value
// is dropped and evicts any older entry under key.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if !c.Fits(value) {
		c.cache.Delete(key)
		return nil
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Fits reports whether value is small enough to be held in memory
func (c *MemoryCache) Fits(value []byte) bool {
	return c.maxItemBytes <= 0 || int64(len(value)) <= c.maxItemBytes
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len returns the number of cached items, including expired ones not yet cleaned up
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

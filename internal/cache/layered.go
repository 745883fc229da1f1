package cache

import (
	"errors"
	"time"

	"github.com/ppiankov/scirap/internal/model"
)

// LayeredCache fronts the disk cache with a size-capped memory cache.
// Every document goes to disk; only those that fit are also held in memory.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache creates a memory+disk cache from the cache configuration
func NewLayeredCache(cfg model.CacheConfig) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL), cfg.MemoryMaxBytes),
		disk:   NewDiskCache(cfg.Dir, cfg.DiskTTL),
	}
}

// Get checks memory, then disk; disk hits that fit are promoted to memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	val, found := c.disk.Get(key)
	if !found {
		return nil, false
	}
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes value to disk and, when it fits, to memory
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.disk.Set(key, value, ttl); err != nil {
		return err
	}
	return c.memory.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}

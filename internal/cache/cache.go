// Package cache stores raw fetched documents between runs. Evaluation
// results are never cached; they are recomputed from the bytes every time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/scirap/internal/model"
)

const keyPrefix = "scirap:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a document URL
func Key(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg. A disabled cache never stores anything.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Nop{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL), cfg.MemoryMaxBytes)
	}
	return NewLayeredCache(cfg)
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > 10*time.Minute {
		return 10 * time.Minute
	}
	return ttl
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }

package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/scirap/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("https://example.com/paper.pdf")
	b := Key("https://example.com/paper.pdf")
	c := Key("https://example.com/other.pdf")

	if a != b {
		t.Error("expected stable keys")
	}
	if a == c {
		t.Error("expected distinct keys for distinct URLs")
	}
	if !strings.HasPrefix(a, "scirap:v1:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute, 0)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("expected hit with v, got %q %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 item, got %d", c.Len())
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := Key("https://example.com")
	if err := c.Set(key, []byte("body"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if v, ok := c.Get(key); !ok || string(v) != "body" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get(key); ok {
		t.Error("expected entry to expire")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("expected expired entry to be removed")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("x")
	if err := os.WriteFile(c.path(key), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss for corrupt entry")
	}
}

func TestDiskCache_DeleteMissing(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	if err := c.Delete(Key("missing")); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := Key("https://example.com/a")

	cfg := model.CacheConfig{Enabled: true, Dir: dir, MemoryTTL: time.Minute, DiskTTL: time.Hour}

	first := NewLayeredCache(cfg)
	if err := first.Set(key, []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}

	// New process: empty memory, populated disk
	second := NewLayeredCache(cfg)
	if v, ok := second.Get(key); !ok || string(v) != "payload" {
		t.Fatalf("expected disk hit, got %q %v", v, ok)
	}
	if _, ok := second.memory.Get(key); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := second.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir)); !os.IsNotExist(err) {
		t.Error("expected cache dir to be removed")
	}
}

func TestMemoryCache_MaxItemBytes(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute, 4)

	if err := c.Set("small", []byte("abcd"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("large", []byte("abcde"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("small"); !ok {
		t.Error("expected value at the limit to be kept")
	}
	if _, ok := c.Get("large"); ok {
		t.Error("expected oversized value to be dropped")
	}

	// An oversized update evicts the stale smaller value
	_ = c.Set("small", []byte("abcdef"), 0)
	if _, ok := c.Get("small"); ok {
		t.Error("expected stale value to be evicted")
	}
}

func TestLayeredCache_LargeValuesOnDiskOnly(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(model.CacheConfig{Enabled: true, Dir: dir, MemoryTTL: time.Minute, DiskTTL: time.Hour, MemoryMaxBytes: 8})

	key := Key("https://example.com/big.pdf")
	big := []byte(strings.Repeat("%PDF", 10))
	if err := c.Set(key, big, 0); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.memory.Get(key); ok {
		t.Error("large document must not be held in memory")
	}
	if v, ok := c.Get(key); !ok || string(v) != string(big) {
		t.Error("expected disk hit for large document")
	}
	if _, ok := c.memory.Get(key); ok {
		t.Error("large disk hit must not be promoted")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(model.CacheConfig{Enabled: false}).(Nop); !ok {
		t.Error("expected Nop cache when disabled")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("expected memory cache without a dir")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour}).(*LayeredCache); !ok {
		t.Error("expected layered cache with a dir")
	}

	n := Nop{}
	_ = n.Set("k", []byte("v"), 0)
	if _, ok := n.Get("k"); ok {
		t.Error("Nop cache must never hit")
	}
}

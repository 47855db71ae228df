package cache

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

const cleanupInterval = 5 * time.Minute

// MemoryCache is a process-local LookupCache. It stores and hands out copies,
// so callers may modify what they get.
type MemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	lookup    *conversion.LookupResult
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache. Close stops its cleanup loop.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]cacheEntry),
		done:  make(chan struct{}),
	}

	go c.cleanup(cleanupInterval)

	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (*conversion.LookupResult, error) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok || !time.Now().Before(entry.expiresAt) {
		return nil, nil
	}
	return cloneLookup(entry.lookup), nil
}

// Set stores lookup for ttl. A nil lookup removes the key.
func (c *MemoryCache) Set(
	_ context.Context,
	key string,
	lookup *conversion.LookupResult,
	ttl time.Duration,
) error {
	if lookup == nil {
		return c.Delete(context.Background(), key)
	}
	entry := cacheEntry{lookup: cloneLookup(lookup), expiresAt: time.Now().Add(ttl)}

	c.mu.Lock()
	c.cache[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.purgeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) purgeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		if !now.Before(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

func cloneLookup(l *conversion.LookupResult) *conversion.LookupResult {
	out := *l
	out.Rates = maps.Clone(l.Rates)
	return &out
}

var _ cache.LookupCache = (*MemoryCache)(nil)

package texture

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// Resolver resolves a media src to a decoded texture.
type Resolver interface {
	Resolve(ctx context.Context, src string) (*image.NRGBA, error)
}

// LoadError reports one media item that could not be fetched or decoded.
// It is never fatal to the wall: the cell renders a placeholder instead.
type LoadError struct {
	Src string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("texture: load %s: %v", e.Src, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Cache is a concurrency-safe texture cache keyed by src. Each src is fetched
// and decoded at most once, including failures.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]*cacheEntry
	fetcher Fetcher
	maxSize int
	loads   atomic.Int64
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a texture cache that fetches through f and limits the
// longer texture side to maxSize pixels.
func NewCache(f Fetcher, maxSize int) *Cache {
	return &Cache{
		items:   make(map[string]*cacheEntry),
		fetcher: f,
		maxSize: maxSize,
	}
}

// Resolve loads and caches a texture. Failures are cached as *LoadError.
// A cancelled ctx is returned as-is and not cached.
func (c *Cache) Resolve(ctx context.Context, src string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[src]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: fetch + decode outside the lock
	img, err := c.load(ctx, src)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[src]; exists {
		return entry.img, entry.err
	}
	c.items[src] = &cacheEntry{img: img, err: err}
	return img, err
}

func (c *Cache) load(ctx context.Context, src string) (*image.NRGBA, error) {
	c.loads.Add(1)
	raw, err := c.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}
	img, err := Decode(src, raw, c.maxSize)
	if err != nil {
		return nil, &LoadError{Src: src, Err: err}
	}
	return img, nil
}

// Loads returns how many fetch+decode attempts the cache has made.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

// Len returns the number of cached entries, failures included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Purge drops every cached texture.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.items = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

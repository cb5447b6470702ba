package client

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes list reads by key for a staleness window. Concurrent
// misses on one key share a single fetch. Errors are never cached.
type Cache struct {
	group   singleflight.Group
	now     func() time.Time
	entries map[string]cacheEntry
	mu      sync.Mutex
	ttl     time.Duration
	gen     uint64
}

type cacheEntry struct {
	stored time.Time
	value  any
}

// NewCache creates a cache. A ttl of zero keeps nothing but still
// deduplicates concurrent fetches.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) lookup(key string) (any, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, c.gen, false
	}
	if c.now().Sub(e.stored) >= c.ttl {
		delete(c.entries, key)
		return nil, c.gen, false
	}
	return e.value, c.gen, true
}

// store keeps v unless an invalidation happened after the fetch started.
func (c *Cache) store(key string, v any, gen uint64) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries[key] = cacheEntry{stored: c.now(), value: v}
}

// Invalidate drops every entry whose key starts with prefix. Fetches
// already in flight are neither stored nor joined by later callers.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetch returns the cached value for key or calls fetch. The caller's
// context bounds the wait; a shared fetch cancelled by another caller is
// retried with ctx.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	for attempt := 0; attempt < 2; attempt++ {
		v, gen, ok := c.lookup(key)
		if ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}

		flightKey := key + "#" + strconv.FormatUint(gen, 10)
		ch := c.group.DoChan(flightKey, func() (any, error) {
			v, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			c.store(key, v, gen)
			return v, nil
		})

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				if res.Shared && ctx.Err() == nil && errors.Is(res.Err, context.Canceled) {
					continue
				}
				return zero, res.Err
			}
			typed, _ := res.Val.(T)
			return typed, nil
		}
	}
	return zero, context.Canceled
}

package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Key identifies one cached fetch. Call sites use the typed constants
// declared next to their usecase instead of raw string literals.
type Key string

// keyState holds the cached value and the per-key lock that serializes
// the check-then-fetch sequence, so concurrent refresh triggers never
// issue duplicate upstream calls for the same key.
type keyState[T any] struct {
	mu        sync.Mutex
	has       bool
	value     T
	fetchedAt time.Time
}

// RateLimitedCache is an in-process, time-boxed memoization of fetch
// results with a stale-on-error fallback: while an entry is fresh the
// fetcher is never invoked, and when a refresh fails the previous value
// is served instead of the error. Short-term staleness is preferred
// over an empty price display.
//
// TTL is measured from the last successful fetch, not from last access.
type RateLimitedCache[T any] struct {
	mu     sync.Mutex
	states map[Key]*keyState[T]
}

// NewRateLimitedCache creates an empty cache.
func NewRateLimitedCache[T any]() *RateLimitedCache[T] {
	return &RateLimitedCache[T]{states: make(map[Key]*keyState[T])}
}

// state returns the keyState for key, creating it on first use.
func (c *RateLimitedCache[T]) state(key Key) *keyState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	ks, ok := c.states[key]
	if !ok {
		ks = &keyState[T]{}
		c.states[key] = ks
	}
	return ks
}

// Get returns the cached value for key when it is younger than ttl.
// Otherwise fetch is invoked: on success the new value is stored and
// returned; on failure a stale value is returned when one exists, and
// the error propagates only when the cache holds nothing at all.
func (c *RateLimitedCache[T]) Get(ctx context.Context, key Key, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	ks := c.state(key)

	// The per-key lock is held across the fetch on purpose: a second
	// caller for the same key waits and then reads the fresh entry.
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.has && time.Since(ks.fetchedAt) < ttl {
		return ks.value, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		if ks.has {
			slog.Warn("fetch failed, serving stale cached value",
				"key", key, "age", time.Since(ks.fetchedAt), "error", err)
			return ks.value, nil
		}
		var zero T
		return zero, err
	}

	ks.value = v
	ks.fetchedAt = time.Now()
	ks.has = true
	return v, nil
}

package resolve

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry is a fully built cached value. Entries are never mutated; a refresh
// swaps in a new one.
type entry[V any] struct {
	value   V
	expires time.Time
}

// ttlCache is a read-through cache with per-key TTL expiry.
//
// Concurrent misses for a key share one fetch. The fetch runs on a context
// detached from the requester, bounded by fetchTimeout, so a requester that
// gives up does not cancel the fetch for everyone else. Only successful
// fetches are stored. When a refresh fails and an expired value exists, the
// expired value is served.
type ttlCache[V any] struct {
	name         string
	ttl          time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	gen     uint64
	entries map[string]*entry[V]
}

func newTTLCache[V any](name string, ttl, fetchTimeout time.Duration, logger *slog.Logger) *ttlCache[V] {
	return &ttlCache[V]{
		name:         name,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          time.Now,
		entries:      make(map[string]*entry[V]),
	}
}

// peek returns the cached value for key if it has not expired.
func (c *ttlCache[V]) peek(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// previous returns the cached value for key, expired or not.
func (c *ttlCache[V]) previous(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// get returns the cached value for key, fetching it on a miss or expiry.
func (c *ttlCache[V]) get(ctx context.Context, key string, fetch func(ctx context.Context) (V, error)) (V, error) {
	var zero V

	if v, ok := c.peek(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// Fetches started before an invalidation must not be joined after it.
	flightKey := strconv.FormatUint(gen, 10) + "/" + key
	ch := c.group.DoChan(flightKey, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, c.fetchTimeout)
			defer cancel()
		}

		v, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(V), nil
		}
		if stale, ok := c.previous(key); ok {
			c.logger.Warn("refresh failed; serving stale entry", "cache", c.name, "key", key, "err", res.Err)
			return stale, nil
		}
		return zero, res.Err
	}
}

// store swaps in a freshly built value unless caching is disabled or the
// cache was invalidated since the fetch started.
func (c *ttlCache[V]) store(key string, gen uint64, v V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.entries[key] = &entry[V]{value: v, expires: c.now().Add(c.ttl)}
}

// invalidate expires every entry. Expired entries are still served when the
// next refresh fails.
func (c *ttlCache[V]) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for key, e := range c.entries {
		c.entries[key] = &entry[V]{value: e.value}
	}
}

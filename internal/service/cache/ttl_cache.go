package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// TTLCache is an in-process BytesCache. Expired entries are dropped lazily
// on read and by Sweep.
type TTLCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	max int
	now func() time.Time
}

// NewTTLCache creates a cache holding at most maxEntries (0 = unbounded).
func NewTTLCache(maxEntries int) *TTLCache {
	return &TTLCache{m: make(map[string]entry), max: maxEntries, now: time.Now}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	now := c.now()
	if e.expired(now) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// re-check: the entry may have been replaced since RUnlock
		cur, ok := c.m[key]
		if !ok {
			return nil, false, nil
		}
		if cur.expired(now) {
			delete(c.m, key)
			return nil, false, nil
		}
		return cur.v, true, nil
	}
	return e.v, true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; !exists && c.max > 0 && len(c.m) >= c.max {
		c.sweepLocked()
		if len(c.m) >= c.max {
			// still full: drop an arbitrary entry
			for k := range c.m {
				delete(c.m, k)
				break
			}
		}
	}
	c.m[key] = entry{v: value, exp: exp}
	return nil
}

// Sweep removes expired entries.
func (c *TTLCache) Sweep() {
	c.mu.Lock()
	c.sweepLocked()
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *TTLCache) sweepLocked() {
	now := c.now()
	for k, e := range c.m {
		if e.expired(now) {
			delete(c.m, k)
		}
	}
}

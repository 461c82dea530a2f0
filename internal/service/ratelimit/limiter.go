package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// DefaultMaxKeys bounds the number of tracked clients.
const DefaultMaxKeys = 10000

// Option configures Limiter.
type Option func(*Limiter)

// WithMaxKeys caps the number of buckets. Non-positive values keep the default.
func WithMaxKeys(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.maxKeys = n
		}
	}
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*bucket
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	maxKeys int
	now     func() time.Time
}

// New creates a limiter allowing rps requests per second with burst per key.
func New(rps float64, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		m:       make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		maxKeys: DefaultMaxKeys,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether one request for key may proceed now. A new key on a
// full limiter first drops idle buckets, then the least recently seen one.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	b, ok := l.m[key]
	if !ok {
		if len(l.m) >= l.maxKeys {
			l.evictLocked(now)
		}
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.m[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

// RetryAfter is the time until one token refills.
func (l *Limiter) RetryAfter() time.Duration {
	if l.rps <= 0 {
		return time.Second
	}
	d := time.Duration(float64(time.Second) / float64(l.rps))
	if d < time.Second {
		return time.Second
	}
	return d
}

// Cleanup drops buckets idle longer than the idle TTL.
func (l *Limiter) Cleanup() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropIdleLocked(now)
}

func (l *Limiter) dropIdleLocked(now time.Time) {
	cutoff := now.Add(-l.idleTTL)
	for k, b := range l.m {
		if b.lastSeen.Before(cutoff) {
			delete(l.m, k)
		}
	}
}

func (l *Limiter) evictLocked(now time.Time) {
	l.dropIdleLocked(now)
	for len(l.m) >= l.maxKeys {
		var oldest string
		var seen time.Time
		first := true
		for k, b := range l.m {
			if first || b.lastSeen.Before(seen) {
				oldest, seen, first = k, b.lastSeen, false
			}
		}
		delete(l.m, oldest)
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

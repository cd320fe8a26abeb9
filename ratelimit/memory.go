package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory. It is the
// fallback when no Redis is configured and only holds for a single instance.
// A bucket holds limit tokens and refills one token every window/limit.
type MemoryLimiter struct {
	mu           sync.Mutex
	visitors     map[string]*visitor
	every        rate.Limit
	burst        int
	idleTTL      time.Duration
	lastCleanup  time.Time
	cleanupEvery time.Duration
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &MemoryLimiter{
		visitors:     make(map[string]*visitor),
		every:        rate.Every(window / time.Duration(limit)),
		burst:        limit,
		idleTTL:      window,
		cleanupEvery: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, now time.Time) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// evictIdle drops buckets that have not been touched for a full window; a
// fresh bucket for such a key would be full anyway.
func (l *MemoryLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastCleanup) < l.cleanupEvery {
		return
	}
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, k)
		}
	}
	l.lastCleanup = now
}

func (l *MemoryLimiter) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

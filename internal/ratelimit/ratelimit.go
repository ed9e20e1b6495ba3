// Package ratelimit provides a per-key token bucket limiter, used to
// throttle login attempts and speech synthesis per client.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter maintains an independent token bucket per key. Idle
// buckets are evicted periodically so the map cannot grow without bound.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a limiter allowing r events per second with the given burst
// per key.
func New(r rate.Limit, burst int) *KeyedRateLimiter {
	kl := &KeyedRateLimiter{
		limiters: make(map[string]*entry),
		rate:     r,
		burst:    burst,
	}
	go kl.cleanup()
	return kl
}

// Allow reports whether an event for the given key may proceed now.
func (kl *KeyedRateLimiter) Allow(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	e, ok := kl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.rate, kl.burst)}
		kl.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (kl *KeyedRateLimiter) cleanup() {
	for range time.Tick(10 * time.Minute) {
		kl.mu.Lock()
		for key, e := range kl.limiters {
			if time.Since(e.lastSeen) > 30*time.Minute {
				delete(kl.limiters, key)
			}
		}
		kl.mu.Unlock()
	}
}

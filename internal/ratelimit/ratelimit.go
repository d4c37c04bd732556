// Package ratelimit provides a keyed token-bucket limiter used to throttle login attempts.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an untouched key is kept before it is pruned.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent bucket.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a keyed limiter that refills rps tokens per second up to burst,
// and starts a background pruner for idle keys.
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := newLimiter(rps, burst, DefaultIdleTTL, time.Now)
	go krl.cleanup(krl.idleTTL)
	return krl
}

func newLimiter(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     now,
		done:    make(chan struct{}),
	}
}

// Allow reports whether an attempt for key may proceed, consuming a token if so.
// It never blocks.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	now := krl.now()
	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Reset forgets key so its next attempt starts with a full bucket.
func (krl *KeyedRateLimiter) Reset(key string) {
	krl.mu.Lock()
	delete(krl.entries, key)
	krl.mu.Unlock()
}

// Len returns the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

// Stop shuts down the pruner. Safe to call more than once.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// prune drops keys idle for longer than the TTL.
func (krl *KeyedRateLimiter) prune() {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	cutoff := krl.now().Add(-krl.idleTTL)
	for key, e := range krl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(krl.entries, key)
		}
	}
}

func (krl *KeyedRateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			krl.prune()
		case <-krl.done:
			return
		}
	}
}

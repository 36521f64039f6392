package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a per-host token bucket, used to keep scrape traffic
// polite: the ladder already caps how often each provider fetches, but
// several providers share the same upstream host.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Check consumes a token for host or returns an error suitable for
// wrapping as a provider fetch failure.
func (l *Limiter) Check(host string, capacity, refillPerSec float64) error {
	if l.Allow(host, capacity, refillPerSec) {
		return nil
	}
	return fmt.Errorf("rate limit exceeded for %s", host)
}

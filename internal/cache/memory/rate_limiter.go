// Package memory provides in-process implementations of the cache-layer
// contracts for single-instance deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyoungcy/roarwatch/internal/domain"
)

const sweepInterval = time.Minute

// RateLimiter implements domain.RateLimiter with a per-key sliding window
// held in memory.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter creates an empty RateLimiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows:   make(map[string][]time.Time),
		lastSweep: time.Now(),
	}
}

// Allow checks whether a request for the given key is permitted under the
// sliding window rate limit. It returns true if the request is allowed (and
// counted), or false if the limit has been reached.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > sweepInterval {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	ts := rl.windows[key]
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	ts = ts[i:]

	if len(ts) >= limit {
		rl.windows[key] = ts
		return false, nil
	}
	rl.windows[key] = append(ts, now)
	return true, nil
}

// sweep drops keys whose entire window has expired so per-client entries do
// not accumulate forever. The caller must hold rl.mu.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	for k, ts := range rl.windows {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(rl.windows, k)
		}
	}
}

// Compile-time interface check.
var _ domain.RateLimiter = (*RateLimiter)(nil)

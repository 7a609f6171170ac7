package blog

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter enforces a minimum spacing between external generation calls.
// It is a single global throttle shared by all callers, not per-case: the
// mutex covers the whole read-last/sleep/write-last sequence so two concurrent
// callers cannot under-space their calls.
type RateLimiter struct {
	minInterval time.Duration
	mu          sync.Mutex
	lastCall    time.Time
}

// NewRateLimiter returns a limiter allowing at most perMinute calls per
// minute. A non-positive rate is a configuration error.
func NewRateLimiter(perMinute int) (*RateLimiter, error) {
	if perMinute < 1 {
		return nil, fmt.Errorf("rate limit must be at least 1 call per minute, got %d", perMinute)
	}
	return &RateLimiter{
		minInterval: time.Minute / time.Duration(perMinute),
	}, nil
}

// Acquire blocks until enough time has passed since the previous call. The
// wait is bounded by the configured interval.
func (r *RateLimiter) Acquire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lastCall.IsZero() {
		if elapsed := time.Since(r.lastCall); elapsed < r.minInterval {
			time.Sleep(r.minInterval - elapsed)
		}
	}
	r.lastCall = time.Now()
}

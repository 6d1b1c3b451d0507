package tmdb

import (
	"sync"
	"time"
)

// rateLimiter implements a simple sliding window rate limiter. TMDB allows
// roughly 40 requests per 10 seconds per key; staying below that avoids
// burning the retry budget on avoidable 429 responses.
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// wait blocks until a request is allowed within the window, then records it.
func (r *rateLimiter) wait() {
	r.mu.Lock()

	now := time.Now()
	r.prune(now)

	if len(r.requests) < r.maxRequests {
		r.requests = append(r.requests, now)
		r.mu.Unlock()
		return
	}

	// Sleep until the oldest request falls out of the window, with a small
	// buffer so the recheck below succeeds.
	waitTime := r.window - now.Sub(r.requests[0]) + 10*time.Millisecond
	r.mu.Unlock()

	time.Sleep(waitTime)

	r.mu.Lock()
	now = time.Now()
	r.prune(now)
	r.requests = append(r.requests, now)
	r.mu.Unlock()
}

// prune drops requests outside the window. Caller holds the lock.
func (r *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid
}

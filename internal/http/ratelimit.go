package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Defaults for the per-client limiter. Only mutating requests pass
// through it, so the limit can be tight without hurting dashboards.
const (
	rateLimitPerWindow = 60
	rateLimitWindow    = time.Minute
	staleClientAfter   = 10 * time.Minute
)

// rateLimiter tracks request counts per client IP over a fixed window.
type rateLimiter struct {
	mu           sync.Mutex
	buckets      map[string]*requestBucket
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type requestBucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		buckets:     make(map[string]*requestBucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow records a request for the client and reports whether it stays
// within the window limit. Limit hits are counted on metrics.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[clientIP]
	if !ok || now.Sub(bucket.windowStart) > rateLimitWindow {
		rl.buckets[clientIP] = &requestBucket{windowStart: now, count: 1}
		return true
	}

	bucket.count++
	if bucket.count > rateLimitPerWindow {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// cleanupLoop drops buckets that have been idle long enough that their
// window has long expired.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleClientAfter)
	for ip, bucket := range rl.buckets {
		if bucket.windowStart.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

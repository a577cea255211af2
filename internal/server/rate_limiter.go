package server

import (
	"sync"
	"time"
)

// RateLimiter implements per-client rate limiting using a token bucket
// per client key
type RateLimiter struct {
	buckets    map[string]*tokenBucket
	bucketsMux sync.RWMutex
	limit      int
	period     time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// tokenBucket represents a token bucket for one client
type tokenBucket struct {
	tokens     int
	lastRefill time.Time
	mutex      sync.Mutex
}

// NewRateLimiter creates a new rate limiter allowing limit requests per
// period for each client key
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		limit:   limit,
		period:  period,
		stop:    make(chan struct{}),
	}
}

// Allow checks if a request is allowed for the given client key
func (rl *RateLimiter) Allow(clientKey string) bool {
	bucket := rl.getBucket(clientKey)

	bucket.mutex.Lock()
	defer bucket.mutex.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(bucket.lastRefill)

	if elapsed >= rl.period {
		bucket.tokens = rl.limit
		bucket.lastRefill = now
	} else {
		tokensToAdd := int(elapsed.Nanoseconds() * int64(rl.limit) / rl.period.Nanoseconds())
		bucket.tokens = min(bucket.tokens+tokensToAdd, rl.limit)
		if tokensToAdd > 0 {
			bucket.lastRefill = now
		}
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// getBucket gets or creates a token bucket for a client key
func (rl *RateLimiter) getBucket(clientKey string) *tokenBucket {
	rl.bucketsMux.RLock()
	bucket, exists := rl.buckets[clientKey]
	rl.bucketsMux.RUnlock()

	if exists {
		return bucket
	}

	rl.bucketsMux.Lock()
	defer rl.bucketsMux.Unlock()

	// Double-check after acquiring write lock
	if bucket, exists := rl.buckets[clientKey]; exists {
		return bucket
	}

	bucket = &tokenBucket{
		tokens:     rl.limit,
		lastRefill: time.Now(),
	}
	rl.buckets[clientKey] = bucket

	return bucket
}

// cleanup removes buckets idle for longer than a day
func (rl *RateLimiter) cleanup() {
	rl.bucketsMux.Lock()
	defer rl.bucketsMux.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)

	for clientKey, bucket := range rl.buckets {
		bucket.mutex.Lock()
		if bucket.lastRefill.Before(cutoff) {
			delete(rl.buckets, clientKey)
		}
		bucket.mutex.Unlock()
	}
}

// StartCleanup starts periodic cleanup of idle buckets. The goroutine
// runs until Stop is called.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stop:
				return
			}
		}
	}()
}

// Stop terminates the cleanup goroutine. Idempotent; the limiter itself
// keeps serving Allow calls after Stop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Package middleware - Rate Limiting middleware.
//
// Guards against abuse by capping the number of requests per key.
// Uses a fixed-window counter with in-memory state.
//
// For production, Redis is recommended for distributed rate limiting.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting.
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window
	Window time.Duration
	// KeyFunc determines the limiting key.
	// Defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// OnLimitReached is called when the limit is hit.
	OnLimitReached func(*gin.Context)
}

// DefaultRateLimitConfig returns the default configuration.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  100,         // 100 requests
		Window: time.Minute, // per minute
		KeyFunc: func(c *gin.Context) string { // by IP
			return c.ClientIP()
		},
		OnLimitReached: nil,
	}
}

// rateLimiter holds rate limiter state.
type rateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	config  *RateLimitConfig
}

// bucket is the token bucket for a single key.
type bucket struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a new rate limiter.
func newRateLimiter(config *RateLimitConfig) *rateLimiter {
	rl := &rateLimiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}

	// Start the cleanup goroutine
	go rl.cleanup()

	return rl
}

// allow reports whether the request is permitted.
func (rl *rateLimiter) allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]

	if !exists {
		// Create a new bucket
		rl.buckets[key] = &bucket{
			tokens:    rl.config.Limit - 1, // -1 for the current request
			lastReset: now,
		}
		return true, rl.config.Limit - 1, rl.config.Window
	}

	// Check whether the bucket needs to reset
	if now.Sub(b.lastReset) >= rl.config.Window {
		b.tokens = rl.config.Limit - 1
		b.lastReset = now
		return true, b.tokens, rl.config.Window
	}

	// Check remaining tokens
	if b.tokens <= 0 {
		retryAfter := rl.config.Window - now.Sub(b.lastReset)
		return false, 0, retryAfter
	}

	b.tokens--
	retryAfter := rl.config.Window - now.Sub(b.lastReset)
	return true, b.tokens, retryAfter
}

// cleanup evicts stale bucket entries.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.Window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			if now.Sub(b.lastReset) > rl.config.Window*2 {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit middleware caps the number of requests.
//
// Algorithm: Fixed Window Counter
// - Each IP/key has a request limit per time window
// - Hitting the limit returns 429 Too Many Requests
// - Adds X-RateLimit-* headers for the client
//
// Headers:
// - X-RateLimit-Limit: maximum requests
// - X-RateLimit-Remaining: requests left
// - X-RateLimit-Reset: reset time (Unix timestamp)
// - Retry-After: seconds until reset (on 429)
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	limiter := newRateLimiter(config)

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		allowed, remaining, retryAfter := limiter.allow(key)

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", itoa(remaining))
		c.Header("X-RateLimit-Reset", itoa(int(time.Now().Add(retryAfter).Unix())))

		if !allowed {
			// Add the Retry-After header
			retrySeconds := int(retryAfter.Seconds())
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", itoa(retrySeconds))

			// Invoke the callback, if any
			if config.OnLimitReached != nil {
				config.OnLimitReached(c)
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":        "TOO_MANY_REQUESTS",
					"message":     "Rate limit exceeded, please try again later",
					"retry_after": retrySeconds,
				},
				"request_id": GetRequestID(c),
				"timestamp":  time.Now().UTC(),
			})
			return
		}

		c.Next()
	}
}

// itoa is a simple int -> string converter.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	neg := i < 0
	if neg {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// ============================================
// Endpoint-specific rate limiters
// ============================================

// SensitiveEndpointRateLimit applies a stricter limit for sensitive endpoints.
func SensitiveEndpointRateLimit() gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  10,          // 10 requests
		Window: time.Minute, // per minute
		KeyFunc: func(c *gin.Context) string {
			// Combine IP + endpoint
			return c.ClientIP() + ":" + c.Request.URL.Path
		},
	})
}

// TransactionRateLimit limits financial operations.
func TransactionRateLimit() gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  30,          // 30 transactions
		Window: time.Minute, // per minute
		KeyFunc: func(c *gin.Context) string {
			// By user id when authenticated, otherwise by IP
			userID := GetAuthUserID(c)
			if userID.String() != "00000000-0000-0000-0000-000000000000" {
				return "user:" + userID.String()
			}
			return "ip:" + c.ClientIP()
		},
	})
}

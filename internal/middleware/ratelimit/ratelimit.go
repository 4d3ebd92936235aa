// Package ratelimit enforces per-client request rate limits.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/edunote/edunote/internal/server/router"
)

// RateLimiter defines the interface for rate limiting implementations.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	// Allow reports whether a request for the given key is within limits.
	Allow(key string) bool
}

// TokenBucketLimiter implements the token bucket algorithm with an
// independent bucket per key.
type TokenBucketLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a token bucket limiter allowing an average
// of requestsPerSecond with spikes up to burst.
func NewTokenBucketLimiter(requestsPerSecond int, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Allow reports whether a request for key is within its bucket's limits.
func (l *TokenBucketLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(l.rate, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, limiter)
	return actual.(*rate.Limiter)
}

// Config defines rate limiting middleware behavior.
type Config struct {
	// KeyFunc extracts the rate limiting key from the request, typically
	// the client IP.
	KeyFunc func(router.Context) string
}

// RateLimit creates middleware that rejects over-limit requests with 429
// and a Retry-After header.
func RateLimit(limiter RateLimiter, cfg Config) router.MiddlewareFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c router.Context) string {
			return ExtractIPFromRequest(c.Request())
		}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !limiter.Allow(keyFunc(c)) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"message": "rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}

// ExtractIPFromRequest extracts the client IP, preferring the proxy headers
// X-Forwarded-For and X-Real-IP over RemoteAddr.
func ExtractIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}

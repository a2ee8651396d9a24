package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seqmux/seqmux/pkg/common"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Unique identifier for this rate limit bucket.
	// Routes sharing a BucketName share the same rate limit.
	BucketName string

	// Maximum number of requests allowed in the time window
	Limit int

	// Time window for the rate limit (e.g., 1 minute, 1 hour)
	Window time.Duration

	// Strategy for identifying clients:
	// - "ip": use the client IP address (default)
	// - "custom": use the KeyExtractor
	Strategy string

	// Custom key extractor function (used when Strategy is "custom")
	KeyExtractor func(c *common.Context) (string, error)

	// PaceRPS, when positive, additionally paces admitted requests in this
	// bucket through a leaky bucket at the given requests per second,
	// smoothing bursts inside a window.
	PaceRPS int

	// Handler invoked when the rate limit is exceeded.
	// If nil, a default 429 Too Many Requests response is sent.
	ExceededHandler common.HandlerFunc
}

// RateLimiter defines the interface for rate limiting algorithms.
// Allow reports whether a request under key is admitted, along with the
// remaining budget and the time until the window resets.
type RateLimiter interface {
	Allow(key string, limit int, window time.Duration) (bool, int, time.Duration)
}

// WindowRateLimiter implements RateLimiter with per-key atomic window
// counters. Increments are atomic per key, so concurrent requests from the
// same client never undercount.
type WindowRateLimiter struct {
	windows sync.Map // map[string]*windowCounter
}

// windowCounter tracks one client's request count in one window. The start is
// fixed at creation; rolling the window replaces the whole value, never
// resets the count of a live one, so no increment is ever discarded.
type windowCounter struct {
	start int64 // window start in unix nanoseconds
	count atomic.Int64
}

// NewWindowRateLimiter creates a new rate limiter.
func NewWindowRateLimiter() *WindowRateLimiter {
	return &WindowRateLimiter{}
}

// Allow checks if a request under key is admitted for the given limit and window.
func (u *WindowRateLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Duration) {
	if window <= 0 {
		window = time.Second
	}

	for {
		now := time.Now().UnixNano()
		entry, ok := u.windows.Load(key)
		if !ok {
			entry, _ = u.windows.LoadOrStore(key, &windowCounter{start: now})
		}
		w := entry.(*windowCounter)

		if now-w.start >= window.Nanoseconds() {
			// Expired: swap in a fresh window. The loser of the swap race
			// retries and counts against the winner's window.
			u.windows.CompareAndSwap(key, w, &windowCounter{start: now})
			continue
		}

		reset := window - time.Duration(now-w.start)
		n := w.count.Add(1)
		if n > int64(limit) {
			return false, 0, reset
		}
		return true, limit - int(n), reset
	}
}

// RateLimit enforces the configured limit per client key. The response
// carries X-RateLimit-Remaining and X-RateLimit-Reset headers; rejected
// requests get a 429 (or the configured ExceededHandler's response).
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) Middleware {
	var pacer ratelimit.Limiter
	if config.PaceRPS > 0 {
		pacer = ratelimit.New(config.PaceRPS)
	}

	return func(c *common.Context, next common.Next) (any, error) {
		var key string
		switch config.Strategy {
		case "custom":
			extracted, err := config.KeyExtractor(c)
			if err != nil {
				return nil, err
			}
			key = extracted
		default:
			key = GetClientIP(c)
		}

		allowed, remaining, reset := limiter.Allow(config.BucketName+":"+key, config.Limit, config.Window)

		c.SetHeader("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.SetHeader("X-RateLimit-Reset", strconv.FormatInt(int64(reset/time.Second), 10))

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("bucket", config.BucketName),
				zap.String("key", key),
				zap.String("method", c.Method),
				zap.String("path", c.Path),
			)
			if config.ExceededHandler != nil {
				return config.ExceededHandler(c)
			}
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"error": map[string]string{"message": "rate limit exceeded"},
			})
		}

		if pacer != nil {
			pacer.Take()
		}

		return next()
	}
}

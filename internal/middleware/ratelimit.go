package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"movie-finder/internal/metrics"
)

// RateLimiter limits requests per client IP. With a Redis client it keeps a fixed
// window counter per IP so the limit holds across instances; without one it falls
// back to an in-process token bucket per IP.
type RateLimiter struct {
	rdb     *redis.Client
	maxReqs int
	window  time.Duration
	mem     *memoryLimiter
}

// NewRateLimiter creates a rate limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, maxReqs, windowSec int) *RateLimiter {
	window := time.Duration(windowSec) * time.Second
	rl := &RateLimiter{
		rdb:     rdb,
		maxReqs: maxReqs,
		window:  window,
	}
	if rdb == nil {
		rl.mem = newMemoryLimiter(maxReqs, window)
	}
	return rl
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ip := c.IP()
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.maxReqs))

		if rl.rdb == nil {
			if !rl.mem.allow(ip, time.Now()) {
				metrics.ObserveRateLimited("memory")
				return tooManyRequests(c, int(rl.window.Seconds()))
			}
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", ip)
		ctx := c.Context()

		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			// fail open
			slog.Warn("rate limiter unavailable", "error", err)
			return c.Next()
		}

		// A new window, or a key that lost its expiry, starts the clock here.
		// Plain EXPIRE keeps this working on Redis servers older than 7.
		window := ttl.Val()
		if window < 0 {
			if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
				slog.Warn("rate limiter expire failed", "error", err)
			}
			window = rl.window
		}

		count := incr.Val()
		reset := int(window.Seconds())
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(rl.maxReqs)-count), 10))
		c.Set("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > int64(rl.maxReqs) {
			metrics.ObserveRateLimited("redis")
			return tooManyRequests(c, reset)
		}
		return c.Next()
	}
}

func tooManyRequests(c fiber.Ctx, retryAfter int) error {
	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "rate limit exceeded",
		"retry_after": retryAfter,
	})
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryLimiter hands each IP a token bucket refilling maxReqs tokens per window.
type memoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newMemoryLimiter(maxReqs int, window time.Duration) *memoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(maxReqs) / window.Seconds()),
		burst:   maxReqs,
		idle:    3 * window,
	}
}

func (m *memoryLimiter) allow(ip string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > m.idle {
		for k, cl := range m.clients {
			if now.Sub(cl.lastSeen) > m.idle {
				delete(m.clients, k)
			}
		}
		m.lastSweep = now
	}

	cl, ok := m.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

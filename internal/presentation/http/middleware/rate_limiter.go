package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per authenticated user, falling back to
// the client IP for anonymous requests.
type RateLimiter struct {
	limiters    map[string]*rateLimiterEntry
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	cleanupTick time.Duration
	entryTTL    time.Duration
	done        chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	Requests        int           // requests allowed per Window
	Window          time.Duration // refill window
	CleanupInterval time.Duration // how often stale entries are dropped
	EntryTTL        time.Duration // how long unused entries are kept
}

// DefaultRateLimiterConfig returns 100 requests per minute per caller
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Requests:        100,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
		EntryTTL:        10 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop. Call Stop
// to end the loop.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	def := DefaultRateLimiterConfig()
	if cfg.Requests <= 0 {
		cfg.Requests = def.Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = def.EntryTTL
	}

	rl := &RateLimiter{
		limiters:    make(map[string]*rateLimiterEntry),
		rate:        rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:       cfg.Requests,
		cleanupTick: cfg.CleanupInterval,
		entryTTL:    cfg.EntryTTL,
		done:        make(chan struct{}),
		now:         time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = rl.now()
		return entry.limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &rateLimiterEntry{limiter: limiter, lastSeen: rl.now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

// cleanup removes entries that haven't been used recently
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.entryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Middleware returns a Gin middleware enforcing the limit. Mount it after
// AuthMiddleware so requests are keyed by user.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := c.Get("user_id"); ok {
			if id, ok := userID.(uuid.UUID); ok {
				key = "user:" + id.String()
			}
		}

		limiter := rl.getLimiter(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", fmt.Sprintf("%.0f", (1/float64(rl.rate))+0.5))
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

// Size returns the number of tracked callers
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for backend keys
	KeyPrefix string
}

// Decision is the outcome of a single rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimiter is a fixed-window limiter shared between instances through Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new Redis backed rate limiter
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// Allow counts the request against the current window
func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= rl.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// defaultMemoryKeys bounds how many callers the in-memory limiter tracks
const defaultMemoryKeys = 10000

// MemoryRateLimiter is a per-process token bucket limiter. Each key gets a
// bucket of Limit tokens refilled evenly over Window; the least recently
// seen keys are evicted once the cache is full.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	config   RateLimitConfig
	every    rate.Limit
}

// NewMemoryRateLimiter creates an in-memory limiter tracking up to maxKeys callers
func NewMemoryRateLimiter(config RateLimitConfig, maxKeys int) (*MemoryRateLimiter, error) {
	if maxKeys <= 0 {
		maxKeys = defaultMemoryKeys
	}
	if config.Limit <= 0 || config.Window <= 0 {
		return nil, fmt.Errorf("rate limit needs a positive limit and window")
	}
	cache, err := lru.New[string, *rate.Limiter](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create limiter cache: %w", err)
	}
	return &MemoryRateLimiter{
		limiters: cache,
		config:   config,
		every:    rate.Every(config.Window / time.Duration(config.Limit)),
	}, nil
}

// Allow takes one token from the bucket for key
func (ml *MemoryRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	ml.mu.Lock()
	limiter, ok := ml.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(ml.every, ml.config.Limit)
		ml.limiters.Add(key, limiter)
	}
	ml.mu.Unlock()

	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)

	remaining := int(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	// time until the bucket is full again
	missing := float64(ml.config.Limit) - tokens
	reset := now
	if missing > 0 {
		reset = now.Add(time.Duration(missing * float64(ml.config.Window) / float64(ml.config.Limit)))
	}

	return Decision{Allowed: allowed, Remaining: remaining, Reset: reset}, nil
}

// RateLimit returns a Gin middleware that enforces limiter per client IP.
// Backend errors let the request through.
func RateLimit(limiter Limiter, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(time.Until(decision.Reset).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: fmt.Sprintf("rate limit of %d requests per %v exceeded", config.Limit, config.Window),
			})
			return
		}

		c.Next()
	}
}

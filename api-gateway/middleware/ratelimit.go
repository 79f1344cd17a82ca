package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tair/foodgram/pkg/logger"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter decides whether identifier may make another request
type Limiter interface {
	Allow(ctx context.Context, identifier string) (Decision, error)
}

// RedisLimiter is a sliding-window limiter shared by all gateway replicas
type RedisLimiter struct {
	redis       *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedisLimiter creates a sliding-window limiter
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, maxRequests: maxRequests, window: window}
}

// Allow records the request and counts the requests in the current window
func (rl *RedisLimiter) Allow(ctx context.Context, identifier string) (Decision, error) {
	key := "ratelimit:" + identifier
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, rl.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(countCmd.Val())
	return Decision{
		Allowed:   count < rl.maxRequests,
		Remaining: max(rl.maxRequests-count-1, 0),
		Reset:     now.Add(rl.window),
	}, nil
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per identifier.
// Buckets idle for a whole window are full again and get swept.
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	limit     rate.Limit
	burst     int
	window    time.Duration
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalLimiter allows maxRequests per window with an equal burst
func NewLocalLimiter(maxRequests int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets:   make(map[string]*localBucket),
		limit:     rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:     maxRequests,
		window:    window,
		interval:  window / time.Duration(maxRequests),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow takes one token from identifier's bucket
func (l *LocalLimiter) Allow(_ context.Context, identifier string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}
	bucket, ok := l.buckets[identifier]
	if !ok {
		bucket = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[identifier] = bucket
	}
	bucket.lastSeen = now
	l.mu.Unlock()

	allowed := bucket.limiter.AllowN(now, 1)
	remaining := int(bucket.limiter.TokensAt(now))
	return Decision{
		Allowed:   allowed,
		Remaining: max(remaining, 0),
		Reset:     now.Add(l.interval),
	}, nil
}

// sweep drops idle buckets. Caller holds mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for id, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.buckets, id)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware limits per user when authenticated, per IP otherwise.
// When primary fails the fallback decides, so a Redis outage never disables limiting.
func RateLimitMiddleware(primary, fallback Limiter, maxRequests int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := "ip:" + c.IP()
		if userID := c.Locals(LocalUserID); userID != nil {
			identifier = fmt.Sprintf("user:%v", userID)
		}

		decision, err := primary.Allow(c.UserContext(), identifier)
		if err != nil {
			logger.Warn(c.UserContext()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter unavailable, using local fallback")
			decision, _ = fallback.Allow(c.UserContext(), identifier)
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			logger.Warn(c.UserContext()).
				Str("identifier", identifier).
				Int("limit", maxRequests).
				Msg("Rate limit exceeded")
			retryAfter := time.Until(decision.Reset).Round(time.Second)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
			})
		}
		return c.Next()
	}
}

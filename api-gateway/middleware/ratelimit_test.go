package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func TestLocalLimiterBurst(t *testing.T) {
	l := NewLocalLimiter(2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "ip:1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, _ := l.Allow(ctx, "ip:1")
	assert.False(t, d.Allowed)

	d, _ = l.Allow(ctx, "ip:2")
	assert.True(t, d.Allowed, "buckets are per identifier")
}

func TestLocalLimiterSweepsIdleBuckets(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocalLimiter(1, time.Minute)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	for _, ip := range []string{"ip:1", "ip:2", "ip:3"} {
		d, err := l.Allow(ctx, ip)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	assert.Len(t, l.buckets, 3)

	clock = clock.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "ip:3")
	assert.Len(t, l.buckets, 3, "no sweep before a window has passed")

	clock = clock.Add(45 * time.Second)
	d, _ := l.Allow(ctx, "ip:4")
	assert.True(t, d.Allowed)
	assert.Len(t, l.buckets, 2, "ip:1 and ip:2 were idle for a whole window")
	assert.Contains(t, l.buckets, "ip:3")
	assert.Contains(t, l.buckets, "ip:4")
}

func TestRateLimitFallsBackWhenPrimaryFails(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimitMiddleware(brokenLimiter{}, NewLocalLimiter(1, time.Hour), 1))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

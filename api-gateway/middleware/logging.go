package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/foodgram/pkg/logger"
)

// StructuredLoggingMiddleware logs each proxied request once it completes
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		event := logger.Info(c.UserContext())
		if err != nil || status >= fiber.StatusInternalServerError {
			event = logger.Error(c.UserContext()).Err(err)
		} else if status >= fiber.StatusBadRequest {
			event = logger.Warn(c.UserContext())
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Int("status", status).
			Int64("duration_ms", duration.Milliseconds()).
			Int("response_size", len(c.Response().Body())).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("Gateway request completed")
		return err
	}
}

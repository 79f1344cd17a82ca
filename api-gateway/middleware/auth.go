package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/logger"
)

// Locals keys set by the auth middleware
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// bearer extracts the token; ok is false when the header is absent
func bearer(c *fiber.Ctx) (token string, ok bool, malformed bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false, true
	}
	return parts[1], true, false
}

// AuthMiddleware pre-validates JWTs. A present token must be valid and not revoked;
// isPublic decides whether a request may go through without one.
func AuthMiddleware(denylist auth.Denylist, isPublic func(c *fiber.Ctx) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok, malformed := bearer(c)
		if malformed {
			return unauthorized(c, "Invalid authorization header format")
		}
		if !ok {
			if isPublic(c) {
				return c.Next()
			}
			return unauthorized(c, "Authentication credentials were not provided")
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			return unauthorized(c, "Invalid token")
		}
		revoked, err := denylist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			logger.Warn(c.UserContext()).Err(err).Msg("Token denylist unavailable")
		} else if revoked {
			return unauthorized(c, "Token has been revoked")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

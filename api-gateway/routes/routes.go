package routes

import (
	"context"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/foodgram/api-gateway/health"
	"github.com/tair/foodgram/api-gateway/middleware"
	"github.com/tair/foodgram/api-gateway/proxy"
	"github.com/tair/foodgram/pkg/auth"
)

// PublicRoute is a method and path pattern reachable without a token
type PublicRoute struct {
	Method      string
	Pattern     string
	Description string
	re          *regexp.Regexp
}

func public(method, pattern, description string) PublicRoute {
	return PublicRoute{Method: method, Pattern: pattern, Description: description, re: regexp.MustCompile("^" + pattern + "/?$")}
}

// PublicRoutes lists the anonymous surface; everything else under /api needs a token
var PublicRoutes = []PublicRoute{
	public(fiber.MethodPost, "/api/users", "Register"),
	public(fiber.MethodPost, "/api/auth/token/login", "Obtain a token"),
	public(fiber.MethodGet, "/api/users", "List users"),
	public(fiber.MethodGet, `/api/users/\d+`, "User profile"),
	public(fiber.MethodGet, "/api/recipes", "List recipes"),
	public(fiber.MethodGet, `/api/recipes/\d+`, "Recipe detail"),
	public(fiber.MethodGet, "/api/tags", "List tags"),
	public(fiber.MethodGet, `/api/tags/\d+`, "Tag detail"),
	public(fiber.MethodGet, "/api/ingredients", "Search ingredients"),
	public(fiber.MethodGet, `/api/ingredients/\d+`, "Ingredient detail"),
}

// IsPublic reports whether the request matches a public route
func IsPublic(c *fiber.Ctx) bool {
	if c.Method() == fiber.MethodOptions {
		return true
	}
	for _, r := range PublicRoutes {
		if r.Method == c.Method() && r.re.MatchString(c.Path()) {
			return true
		}
	}
	return false
}

// Options are the collaborators the routes need
type Options struct {
	Proxy      *proxy.ReverseProxy
	Health     *health.Checker
	Denylist   auth.Denylist
	RateLimit  fiber.Handler
	ProbeLimit time.Duration
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, opts Options) {
	if opts.ProbeLimit <= 0 {
		opts.ProbeLimit = 3 * time.Second
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         health.StatusHealthy,
			"gateway":        "api-gateway",
			"uptime_seconds": opts.Health.Uptime().Seconds(),
		})
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), opts.ProbeLimit)
		defer cancel()

		status := opts.Health.CheckAll(ctx)
		code := fiber.StatusOK
		if status.Status == health.StatusUnhealthy {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":       "Foodgram API Gateway",
			"version":       "1.0.0",
			"public_routes": PublicRoutes,
		})
	})

	handlers := []fiber.Handler{middleware.AuthMiddleware(opts.Denylist, IsPublic)}
	if opts.RateLimit != nil {
		handlers = append(handlers, opts.RateLimit)
	}
	handlers = append(handlers, opts.Proxy.Handler())
	app.All("/api/*", handlers...)
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/foodgram/api-gateway/config"
	"github.com/tair/foodgram/api-gateway/health"
	"github.com/tair/foodgram/api-gateway/loadbalancer"
	"github.com/tair/foodgram/api-gateway/middleware"
	"github.com/tair/foodgram/api-gateway/proxy"
	"github.com/tair/foodgram/api-gateway/routes"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/tracing"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Strs("instances", cfg.Instances).
		Msg("Starting API Gateway")

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.JaegerEndpoint,
		SampleRatio:    cfg.TraceSampleRatio,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	auth.Configure(cfg.JWTSecret, 0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		denylist auth.Denylist = auth.NopDenylist{}
		primary  middleware.Limiter
	)
	fallback := middleware.NewLocalLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	primary = fallback
	if redisClient := connectRedis(ctx, cfg); redisClient != nil {
		defer redisClient.Close()
		denylist = auth.NewRedisDenylist(redisClient)
		primary = middleware.NewRedisLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow)
	}

	checker, err := health.NewChecker(cfg.HealthAddrs, cfg.HealthService)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create health checker")
	}
	defer checker.Close()

	app := fiber.New(fiber.Config{
		AppName:      "Foodgram API Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout + 5*time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	setupMiddleware(app, cfg)
	routes.SetupRoutes(app, routes.Options{
		Proxy:     proxy.NewReverseProxy(loadbalancer.NewRoundRobin(cfg.Instances), cfg.Timeout),
		Health:    checker,
		Denylist:  denylist,
		RateLimit: middleware.RateLimitMiddleware(primary, fallback, cfg.RateLimit),
	})

	go func() {
		logger.Logger.Info().Str("port", cfg.Port).Msg("API Gateway listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down API Gateway...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// setupMiddleware configures global middleware
func setupMiddleware(app *fiber.App, cfg *config.GatewayConfig) {
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware(cfg.ServiceName))
	app.Use(middleware.StructuredLoggingMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: cfg.AllowedOrigins != "*",
		ExposeHeaders:    "Content-Disposition, X-Request-Id, X-Trace-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
}

// connectRedis returns nil when Redis is absent; the gateway then limits in process
func connectRedis(ctx context.Context, cfg *config.GatewayConfig) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Logger.Warn().Msg("REDIS_ADDR not set - using in-process rate limiting")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - using in-process rate limiting")
		client.Close()
		return nil
	}
	logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis for rate limiting")
	return client
}

// customErrorHandler renders errors in the service's envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"google.golang.org/grpc/health"

	_ "github.com/tair/foodgram/docs"
	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe"
	"github.com/tair/foodgram/internal/recipe/cache"
	recipehttp "github.com/tair/foodgram/internal/recipe/delivery/http"
	reciperepo "github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/recipe/usecase/command"
	"github.com/tair/foodgram/internal/shoppinglist"
	"github.com/tair/foodgram/internal/user"
	userhttp "github.com/tair/foodgram/internal/user/delivery/http"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/grpcx"
	"github.com/tair/foodgram/pkg/httpx"
	"github.com/tair/foodgram/pkg/logger"
	"github.com/tair/foodgram/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("foodgram", true)
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting foodgram service")

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

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := userrepo.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run user migrations")
	}
	if err := reciperepo.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run recipe migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := connectRedis(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	auth.Configure(cfg.JWTSecret, cfg.JWTTTL)
	var denylist auth.Denylist = auth.NopDenylist{}
	if redisClient != nil {
		denylist = auth.NewRedisDenylist(redisClient)
	}
	authn := httpx.NewAuthenticator(denylist).
		WithAccounts(user.NewAccounts(user.ProvideUserRepository(db)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	shoppingCache := cache.New(redisClient, cfg.ShoppingListCacheTTL)
	events, shutdownEvents := startEvents(ctx, cfg, shoppingCache, reg)
	defer shutdownEvents()

	policy, err := shoppinglist.ParseMergePolicy(cfg.ShoppingListMerge)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid shopping list merge policy")
	}

	userHandler, err := user.InitializeHTTPHandler(db, authn, denylist, reg, userhttp.Options{DefaultPageLimit: cfg.DefaultPageLimit})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	recipeHandler, err := recipe.InitializeHTTPHandler(
		db, shoppingCache, events, authn, reg,
		command.Limits{MinCookingTime: cfg.MinCookingTime, MinAmount: cfg.MinAmount},
		policy,
		recipehttp.Options{DefaultPageLimit: cfg.DefaultPageLimit},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize recipe handler")
	}

	middlewareConfig := httpx.DefaultMiddlewareConfig(cfg.ServiceName)
	router := mux.NewRouter()
	httpx.RegisterMiddlewares(router, middlewareConfig)
	userHandler.RegisterRoutes(router)
	recipeHandler.RegisterRoutes(router)
	httpx.RegisterHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpx.CORS(middlewareConfig, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	healthServer := health.NewServer()
	grpcServer := grpcx.NewServer(healthServer)
	go grpcx.WatchDatabase(ctx, healthServer, cfg.ServiceName, sqlDB, 15*time.Second)
	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logger.Logger.Fatal().Err(err).Str("port", cfg.GRPCPort).Msg("Failed to listen")
		}
		logger.Logger.Info().Str("port", cfg.GRPCPort).Msg("gRPC health server started")
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()
}

// connectRedis returns nil when Redis is not configured or unreachable; caching and token revocation are then disabled
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set - shopping list cache and token revocation disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - shopping list cache and token revocation disabled")
		client.Close()
		return nil
	}
	logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis")
	return client
}

// startEvents wires recipe events to Kafka when brokers are configured, otherwise to an in-process bus
func startEvents(ctx context.Context, cfg *config.Config, shoppingCache cache.ShoppingListCache, reg prometheus.Registerer) (kafka.EventPublisher, func()) {
	invalidate := cache.InvalidateOnEvent(shoppingCache)
	activity := kafka.NewActivityCounter(reg)

	if len(cfg.KafkaBrokers) == 0 {
		bus := kafka.NewLocalBus()
		bus.RegisterHandler(activity, kafka.EventTypes...)
		logger.Logger.Info().Msg("KAFKA_BROKERS not set - using in-process event bus")
		return bus, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("Failed to create Kafka publisher")
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicRecipeEvents})
	if err != nil {
		logger.Logger.Fatal().Err(err).Strs("brokers", cfg.KafkaBrokers).Msg("Failed to create Kafka consumer")
	}
	consumer.RegisterHandler(invalidate, kafka.EventTypes...)
	consumer.RegisterHandler(activity, kafka.EventTypes...)
	consumer.Start(ctx)

	return publisher, func() {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}

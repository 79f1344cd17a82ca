package grpcx

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/tair/foodgram/pkg/logger"
)

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	event := logger.Debug(ctx)
	if err != nil {
		event = logger.Warn(ctx).Err(err).Str("code", status.Code(err).String())
	}
	event.
		Str("method", info.FullMethod).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("gRPC request completed")
	return resp, err
}

// NewServer builds a traced gRPC server exposing grpc.health.v1 and reflection
func NewServer(healthServer *health.Server) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	return server
}

// WatchDatabase flips the serving status of service according to db pings until ctx ends
func WatchDatabase(ctx context.Context, healthServer *health.Server, service string, db *sql.DB, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		st := healthpb.HealthCheckResponse_SERVING
		if err := db.PingContext(pingCtx); err != nil {
			st = healthpb.HealthCheckResponse_NOT_SERVING
			logger.Warn(ctx).Err(err).Str("service", service).Msg("Database ping failed")
		}
		healthServer.SetServingStatus(service, st)
		healthServer.SetServingStatus("", st)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			healthServer.Shutdown()
			return
		case <-ticker.C:
			check()
		}
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GatewayConfig holds the gateway configuration
type GatewayConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Port        string

	// Instances are the foodgram HTTP base URLs, balanced round robin
	Instances []string
	// HealthAddrs are the matching gRPC health endpoints (host:port)
	HealthAddrs   []string
	HealthService string
	Timeout       time.Duration

	RedisAddr     string
	RedisPassword string

	RateLimit       int
	RateLimitWindow time.Duration

	JWTSecret        string
	JaegerEndpoint   string
	TraceSampleRatio float64
	AllowedOrigins   string
}

// LoadConfig loads the gateway configuration from the environment
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		ServiceName:      getEnv("OTEL_SERVICE_NAME", "api-gateway"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnv("GATEWAY_PORT", "8000"),
		Instances:        splitList(getEnv("FOODGRAM_URLS", "http://localhost:8080")),
		HealthAddrs:      splitList(getEnv("FOODGRAM_GRPC_ADDRS", "localhost:9090")),
		HealthService:    getEnv("FOODGRAM_HEALTH_SERVICE", "foodgram"),
		Timeout:          getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RateLimit:        getInt("RATE_LIMIT", 100),
		RateLimitWindow:  getDuration("RATE_LIMIT_WINDOW", time.Minute),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JaegerEndpoint:   getEnv("JAEGER_ENDPOINT", ""),
		TraceSampleRatio: getFloat("TRACE_SAMPLE_RATIO", 1),
		AllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// IsDevelopment reports whether the gateway runs in development mode
func (c *GatewayConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimRight(part, "/"))
		}
	}
	return out
}

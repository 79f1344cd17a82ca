package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/foodgram/pkg/database"
)

// MaxSmallInt is the upper bound for amounts and cooking times
const MaxSmallInt = 32767

// Config is the service configuration, read from the environment
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string

	HTTPPort string
	GRPCPort string

	Database database.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaGroupID string

	JaegerEndpoint   string
	TraceSampleRatio float64

	JWTSecret string
	JWTTTL    time.Duration

	MinCookingTime       int
	MinAmount            int
	ShoppingListMerge    string
	ShoppingListCacheTTL time.Duration
	DefaultPageLimit     int
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "foodgram"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		GRPCPort:    getEnv("GRPC_PORT", "9090"),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "foodgram"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "foodgram"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),

		ShoppingListMerge: getEnv("SHOPPING_LIST_MERGE", "name_unit"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.MinCookingTime, err = getInt("MIN_COOKING_TIME", 1); err != nil {
		return nil, err
	}
	if cfg.MinAmount, err = getInt("MIN_AMOUNT", 1); err != nil {
		return nil, err
	}
	if cfg.DefaultPageLimit, err = getInt("PAGE_SIZE", 6); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShoppingListCacheTTL, err = getDuration("SHOPPING_LIST_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TraceSampleRatio, err = getFloat("TRACE_SAMPLE_RATIO", 1); err != nil {
		return nil, err
	}
	cfg.Database.LogSQL = getEnv("DB_LOG_SQL", "false") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinCookingTime < 1 || c.MinCookingTime > MaxSmallInt {
		return fmt.Errorf("MIN_COOKING_TIME must be between 1 and %d", MaxSmallInt)
	}
	if c.MinAmount < 1 || c.MinAmount > MaxSmallInt {
		return fmt.Errorf("MIN_AMOUNT must be between 1 and %d", MaxSmallInt)
	}
	if c.DefaultPageLimit < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	if c.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

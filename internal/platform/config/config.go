package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisURL    string
	JWTSecret   string

	// ReviewBatchSize caps how many proposals one queue build hands a
	// reviewer; ReviewRebuildInterval is the idle period after which fresh
	// proposals trigger a rebuild. Zero means the module default.
	ReviewBatchSize       int
	ReviewRebuildInterval time.Duration

	// ThresholdTTL bounds how long a bulk preview stays confirmable.
	ThresholdTTL time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "reviewdesk"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		ReviewBatchSize:       envInt("REVIEW_BATCH_SIZE", 0),
		ReviewRebuildInterval: envDuration("REVIEW_REBUILD_INTERVAL", 0),
		ThresholdTTL:          envDuration("THRESHOLD_TTL", 0),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

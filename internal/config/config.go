package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the Faultdeck server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Issues   IssuesConfig
	Features FeaturesConfig
}

type ServerConfig struct {
	Port int
	Env  string
	// RateLimitPerMin is the per-API-key request budget per minute.
	RateLimitPerMin int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// IssuesConfig tunes the issues engine.
type IssuesConfig struct {
	// RetentionDays excludes groups whose last_seen is older than this from
	// query-based selections. 0 disables the retention cutoff.
	RetentionDays int
	// PageSize caps the number of groups a listing returns.
	PageSize int
}

// FeaturesConfig holds feature flags checked by the engine.
type FeaturesConfig struct {
	// DiscardGroups gates the discard mutation (tombstone + hard delete).
	DiscardGroups bool
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            envInt("FAULTDECK_PORT", 8080),
			Env:             envString("FAULTDECK_ENV", "development"),
			RateLimitPerMin: envInt("FAULTDECK_RATE_LIMIT_PER_MIN", 60),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Issues: IssuesConfig{
			RetentionDays: envInt("FAULTDECK_RETENTION_DAYS", 90),
			PageSize:      envInt("FAULTDECK_PAGE_SIZE", 100),
		},
		Features: FeaturesConfig{
			DiscardGroups: envBool("FAULTDECK_DISCARD_GROUPS", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Server.RateLimitPerMin < 1 {
		return fmt.Errorf("FAULTDECK_RATE_LIMIT_PER_MIN must be >= 1, got %d", c.Server.RateLimitPerMin)
	}

	if c.Issues.RetentionDays < 0 {
		return fmt.Errorf("FAULTDECK_RETENTION_DAYS must be >= 0, got %d", c.Issues.RetentionDays)
	}
	if c.Issues.PageSize < 1 {
		return fmt.Errorf("FAULTDECK_PAGE_SIZE must be >= 1, got %d", c.Issues.PageSize)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

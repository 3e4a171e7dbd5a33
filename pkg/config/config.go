// Package config loads Cadence configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Snapshot cache database. SQLite and Postgres URLs are both accepted;
	// the scheme picks the driver.
	DatabaseURL string

	// Analysis cache
	RedisURL      string
	RedisCacheTTL time.Duration

	// CalDAV source
	CalDAVEndpoint string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVToken    string

	// Workday defaults for the analyzers
	WorkdayStartHour int
	WorkdayEndHour   int
	MinBlockMinutes  int
	BufferMinutes    int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", "file:cadence.db"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisCacheTTL: getDurationEnv("REDIS_CACHE_TTL", 15*time.Minute),

		CalDAVEndpoint: getEnv("CALDAV_ENDPOINT", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),
		CalDAVToken:    getEnv("CALDAV_TOKEN", ""),

		WorkdayStartHour: getIntEnv("CADENCE_WORKDAY_START", 8),
		WorkdayEndHour:   getIntEnv("CADENCE_WORKDAY_END", 18),
		MinBlockMinutes:  getIntEnv("CADENCE_MIN_BLOCK_MINUTES", 15),
		BufferMinutes:    getIntEnv("CADENCE_BUFFER_MINUTES", 15),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

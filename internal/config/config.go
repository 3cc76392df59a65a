package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port string

	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderRPM     int

	DatabaseURL string
	RedisURL    string

	PurgeSecret string

	CacheTTL           time.Duration
	RateLimitPerMinute int

	IngestLeagues  []string
	IngestInterval time.Duration

	CORSOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", ":8090"),
		ProviderBaseURL: getEnv("ODDS_API_BASE_URL", ""),
		ProviderAPIKey:  getEnv("ODDS_API_KEY", ""),
		ProviderRPM:     getEnvInt("ODDS_API_RPM", 60),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		PurgeSecret:     getEnv("PURGE_SECRET", ""),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 120)) * time.Second,

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		IngestLeagues:  getEnvStringSlice("INGEST_LEAGUES", []string{"NFL", "NBA"}),
		IngestInterval: time.Duration(getEnvInt("INGEST_INTERVAL_MINUTES", 30)) * time.Minute,

		CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"*"}),
	}
}

// Validate fails fast on missing required credentials rather than letting the
// service degrade silently
func (c *Config) Validate() error {
	if c.ProviderAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

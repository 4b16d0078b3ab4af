package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devSecret = "dev-secret-change-me"

// Config holds the application configuration. It is resolved once at startup
// and passed by value into the constructors that need it.
type Config struct {
	ServerPort   int
	DatabasePath string
	AppEnv       string
	LogLevel     string

	JWTSecret []byte

	AllowedOrigins []string

	GitHubAPIURL       string
	GitHubClientID     string
	GitHubClientSecret string

	EventRetention     time.Duration
	EventPruneSchedule string
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from an optional .env file and environment variables,
// applying defaults where a variable is unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables")
	}

	port, err := strconv.Atoi(getEnv("PORT", "5000"))
	if err != nil {
		return nil, err
	}

	retention, err := time.ParseDuration(getEnv("EVENT_RETENTION", "720h"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./devconnector.db"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          []byte(getEnv("JWT_SECRET", "")),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		GitHubAPIURL:       strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		EventRetention:     retention,
		EventPruneSchedule: getEnv("EVENT_PRUNE_SCHEDULE", "@hourly"),
	}

	if len(cfg.JWTSecret) == 0 {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = []byte(devSecret)
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

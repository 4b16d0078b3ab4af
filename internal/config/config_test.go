package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, []byte(devSecret), cfg.JWTSecret)
	assert.Equal(t, 720*time.Hour, cfg.EventRetention)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("GITHUB_API_URL", "http://gh.local/")
	t.Setenv("EVENT_RETENTION", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://gh.local", cfg.GitHubAPIURL)
	assert.Equal(t, 24*time.Hour, cfg.EventRetention)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fieldsales-teams", cfg.App.Name)
	assert.Equal(t, "http://127.0.0.1:8081", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout())
	assert.Equal(t, 3, cfg.Upstream.ReadRetryAttempts)
	assert.Equal(t, "30-M", cfg.RateLimit.Rate)
	assert.Equal(t, 30*24*time.Hour, cfg.Redis.TTL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://crm.example.com/api/")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "4")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.Upstream.Timeout())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	_, err := Load()
	assert.Error(t, err)
}

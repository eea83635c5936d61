package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("STRIPE_API_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.StripeTimeout)
	assert.Equal(t, "usd", cfg.StripeCurrency)
	assert.Empty(t, cfg.RedisAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	validEnv(t)
	t.Setenv("STRIPE_TIMEOUT", "3s")
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_PRETTY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.StripeTimeout)
	assert.Equal(t, "eur", cfg.StripeCurrency)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_DotEnvFile(t *testing.T) {
	validEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=:9999\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("APP_PORT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.AppPort)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseDriver:      "postgres",
		DatabaseDSN:         "postgres://localhost/shop",
		JWTSecret:           "a",
		JWTRefreshSecret:    "b",
		AccessTokenTTL:      time.Minute,
		RefreshTokenTTL:     time.Hour,
		StripeAPIKey:        "sk",
		StripeWebhookSecret: "whsec",
		StripeTimeout:       time.Second,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"missing webhook secret", func(c *Config) { c.StripeWebhookSecret = "" }, "STRIPE_WEBHOOK_SECRET is required"},
		{"shared secrets", func(c *Config) { c.JWTRefreshSecret = c.JWTSecret }, "must differ"},
		{"bad driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"zero timeout", func(c *Config) { c.StripeTimeout = 0 }, "STRIPE_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

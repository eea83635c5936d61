// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is loaded once at startup and passed to whatever needs it.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string `mapstructure:"DATABASE_DSN"`

	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string        `mapstructure:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL  time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

	// RabbitMQURL empty disables event publishing.
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// RedisAddr empty disables the product cache and webhook dedupe.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	StripeAPIKey        string        `mapstructure:"STRIPE_API_KEY"`
	StripeWebhookSecret string        `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeCurrency      string        `mapstructure:"STRIPE_CURRENCY"`
	StripeTimeout       time.Duration `mapstructure:"STRIPE_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

var defaults = map[string]any{
	"APP_PORT":              ":8080",
	"DATABASE_DRIVER":       "postgres",
	"DATABASE_DSN":          "",
	"JWT_SECRET":            "",
	"JWT_REFRESH_SECRET":    "",
	"ACCESS_TOKEN_TTL":      "15m",
	"REFRESH_TOKEN_TTL":     "168h",
	"RABBITMQ_URL":          "",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"CACHE_TTL":             "5m",
	"STRIPE_API_KEY":        "",
	"STRIPE_WEBHOOK_SECRET": "",
	"STRIPE_CURRENCY":       "usd",
	"STRIPE_TIMEOUT":        "10s",
	"LOG_LEVEL":             "info",
	"LOG_PRETTY":            false,
}

// Load reads an optional .env file, then the environment. Every key has a
// default so AutomaticEnv can see it during Unmarshal.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.StripeCurrency = strings.ToLower(cfg.StripeCurrency)
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver))
	}
	required := []struct{ key, value string }{
		{"DATABASE_DSN", c.DatabaseDSN},
		{"JWT_SECRET", c.JWTSecret},
		{"JWT_REFRESH_SECRET", c.JWTRefreshSecret},
		{"STRIPE_API_KEY", c.StripeAPIKey},
		{"STRIPE_WEBHOOK_SECRET", c.StripeWebhookSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.JWTSecret != "" && c.JWTSecret == c.JWTRefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.StripeTimeout <= 0 {
		errs = append(errs, errors.New("STRIPE_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration values.
type Config struct {
	AppEnv             string
	HTTPPort           string
	DBDriver           string
	DatabaseDSN        string
	SeedCSV            string
	LogFormat          string
	LogLevel           string
	CORSAllowedOrigins []string
	LowStockThreshold  int64
	ExpiryWindowDays   int
	AlertInterval      time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int64
	PharmacyName       string
}

// Load reads configuration from environment variables and an optional .env
// file, applying defaults and validating the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		HTTPPort:           valueOrDefault(k.String("HTTP_PORT"), "8070"),
		DBDriver:           valueOrDefault(k.String("DB_DRIVER"), "sqlite"),
		DatabaseDSN:        valueOrDefault(k.String("DATABASE_DSN"), "pharmacy.db"),
		SeedCSV:            strings.TrimSpace(k.String("SEED_CSV")),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("CORS_ALLOWED_ORIGINS"), "*")),
		PharmacyName:       valueOrDefault(k.String("PHARMACY_NAME"), "Pharmacy"),
	}

	var err error
	if cfg.LowStockThreshold, err = parseInt(k.String("LOW_STOCK_THRESHOLD"), 25); err != nil {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
	}
	days, err := parseInt(k.String("EXPIRY_WINDOW_DAYS"), 30)
	if err != nil {
		return nil, fmt.Errorf("EXPIRY_WINDOW_DAYS: %w", err)
	}
	cfg.ExpiryWindowDays = int(days)
	if cfg.AlertInterval, err = parseDuration(k.String("ALERT_INTERVAL"), time.Hour); err != nil {
		return nil, fmt.Errorf("ALERT_INTERVAL: %w", err)
	}
	if cfg.RateLimitPerSecond, err = parseFloat(k.String("RATE_LIMIT_PER_SECOND"), 3); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_SECOND: %w", err)
	}
	if cfg.RateLimitBurst, err = parseInt(k.String("RATE_LIMIT_BURST"), 1000); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("invalid HTTP_PORT value %q", c.HTTPPort)
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
		return fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver)
	}
	if c.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.ExpiryWindowDays < 0 {
		return errors.New("EXPIRY_WINDOW_DAYS must not be negative")
	}
	if c.AlertInterval <= 0 {
		return errors.New("ALERT_INTERVAL must be positive")
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// HTTPAddr returns the address the HTTP server binds to.
func (c *Config) HTTPAddr() string {
	return ":" + c.HTTPPort
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func parseInt(value string, fallback int64) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func parseFloat(value string, fallback float64) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(strings.TrimSpace(value))
}

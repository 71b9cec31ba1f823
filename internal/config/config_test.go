package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, values map[string]any) (*Config, error) {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(values, "."), nil))
	return fromKoanf(k)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "8070", cfg.HTTPPort)
	require.Equal(t, ":8070", cfg.HTTPAddr())
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "pharmacy.db", cfg.DatabaseDSN)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.EqualValues(t, 25, cfg.LowStockThreshold)
	require.Equal(t, 30, cfg.ExpiryWindowDays)
	require.Equal(t, time.Hour, cfg.AlertInterval)
	require.Equal(t, 3.0, cfg.RateLimitPerSecond)
	require.EqualValues(t, 1000, cfg.RateLimitBurst)
}

func TestOverrides(t *testing.T) {
	cfg, err := load(t, map[string]any{
		"HTTP_PORT":            "9000",
		"DB_DRIVER":            "pgx",
		"DATABASE_DSN":         "postgres://localhost/pharmacy",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, http://localhost:5173",
		"LOW_STOCK_THRESHOLD":  "10",
		"ALERT_INTERVAL":       "15m",
	})
	require.NoError(t, err)
	require.Equal(t, "pgx", cfg.DBDriver)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	require.EqualValues(t, 10, cfg.LowStockThreshold)
	require.Equal(t, 15*time.Minute, cfg.AlertInterval)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]map[string]any{
		"port":      {"HTTP_PORT": "http"},
		"driver":    {"DB_DRIVER": "mysql"},
		"threshold": {"LOW_STOCK_THRESHOLD": "many"},
		"negative":  {"EXPIRY_WINDOW_DAYS": "-1"},
		"interval":  {"ALERT_INTERVAL": "0s"},
		"rate":      {"RATE_LIMIT_PER_SECOND": "0"},
	}
	for name, values := range cases {
		_, err := load(t, values)
		require.Error(t, err, name)
	}
}

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/merchkit/bundle-engine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":            "redis://localhost:6379/0",
		"APP_ENV":              "",
		"PORT":                 "",
		"CORS_ALLOWED_ORIGINS": "",
		"POLICY_TTL":           "",
		"MAX_CART_LINES":       "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.Equal(t, time.Duration(0), cfg.PolicyTTL)
	require.Equal(t, 500, cfg.MaxCartLines)
}

func TestLoadRequiresRedisURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"REDIS_URL": "",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REDIS_URL":            "redis://cache:6379/1",
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"POLICY_TTL":           "24h",
		"MAX_CART_LINES":       "50",
	})
	require.NoError(t, err)
	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 24*time.Hour, cfg.PolicyTTL)
	require.Equal(t, 50, cfg.MaxCartLines)
}

package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg := &AppConfig{}
	require.NoError(t, env.Parse(cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "shoptrack", cfg.Postgres.Name)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Redis.UseMemory)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.HTTP.WebhookSecret)
	assert.Equal(t, 15*time.Second, cfg.Vendor.Timeout)
	assert.Equal(t, "dispatch.id", cfg.Vendor.DispatchIDPath)
	assert.True(t, cfg.Poller.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Poller.Window)
	assert.Equal(t, 24*time.Hour, cfg.Poller.StartupWindow)
	assert.False(t, cfg.Notify.Enabled)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_USE_MEMORY", "true")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("WEBHOOK_SECRET", "hunter2")
	t.Setenv("FIELDFORMS_BASE_URL", "https://forms.example.com/api/")
	t.Setenv("FIELDFORMS_API_KEY", " key-123 ")
	t.Setenv("POLLER_INTERVAL", "90s")
	t.Setenv("NOTIFY_ENABLED", "true")

	cfg := parseConfig(t)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.True(t, cfg.Redis.UseMemory)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "hunter2", cfg.HTTP.WebhookSecret)
	assert.Equal(t, "https://forms.example.com/api", cfg.Vendor.BaseURL)
	assert.Equal(t, "key-123", cfg.Vendor.APIKey)
	assert.True(t, cfg.Vendor.IsConfigured())
	assert.Equal(t, 90*time.Second, cfg.Poller.Interval)
	assert.True(t, cfg.Notify.Enabled)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	dbCfg := DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Name:     "jobs",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=jobs sslmode=require",
		dbCfg.DSN(),
	)
}

func TestDevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg := parseConfig(t)
	assert.True(t, cfg.IsDev)

	t.Setenv("APP_ENV", "production")
	cfg = parseConfig(t)
	assert.False(t, cfg.IsDev)

	t.Setenv("APP_ENV", "production")
	t.Setenv("DEV", "true")
	cfg = parseConfig(t)
	assert.True(t, cfg.IsDev)
}

func TestPollerSanitizeGuardrails(t *testing.T) {
	t.Parallel()

	cfg := PollerConfig{Interval: -time.Second, Window: 0, StartupWindow: time.Minute}
	cfg.Sanitize()

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 2*time.Hour, cfg.Window)
	// The startup sweep must cover at least the steady window.
	assert.Equal(t, cfg.Window, cfg.StartupWindow)
}

func TestNotifySanitizeDisablesWithoutURL(t *testing.T) {
	t.Parallel()

	cfg := NotifyConfig{Enabled: true, AMQPURL: "   ", Exchange: "shoptrack.dispatch"}
	cfg.Sanitize()
	assert.False(t, cfg.Enabled)

	cfg = NotifyConfig{Enabled: true, AMQPURL: "amqp://localhost", Exchange: ""}
	cfg.Sanitize()
	assert.False(t, cfg.Enabled)
}

func TestVendorSanitize(t *testing.T) {
	t.Parallel()

	cfg := VendorConfig{BaseURL: "  https://forms.example.com// ", Timeout: -1}
	cfg.Sanitize()

	assert.Equal(t, "https://forms.example.com", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}

func TestMetricsSanitizeDisablesWithoutAddress(t *testing.T) {
	t.Parallel()

	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()
	assert.False(t, cfg.IsEnabled())
}

func TestLogLevelValidation(t *testing.T) {
	t.Parallel()

	cfg := ObservabilityConfig{LogLevel: " WARN "}
	cfg.Sanitize()
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg = ObservabilityConfig{LogLevel: "verbose"}
	cfg.Sanitize()
	assert.Equal(t, "info", cfg.LogLevel)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Database: DatabaseConfig{
			Driver: DriverPostgres,
			Host:   "localhost",
			User:   "daylog",
			Name:   "daylog",
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	assert.Error(t, Normalize(cfg), "webhook without url/listen/port")

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://example.com", Listen: "0.0.0.0", Port: 8443}
	assert.NoError(t, Normalize(cfg))
}

func TestNormalizeSQLiteDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{Driver: "sqlite3", Path: "daylog.db"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)

	cfg = validConfig()
	cfg.Database = DatabaseConfig{Driver: DriverSQLite}
	assert.Error(t, Normalize(cfg), "sqlite requires a path")
}

func TestNormalizeRejectsUnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "oracle"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, []string{"callback", "message"}, cfg.RateLimit.ExcludeUpdates)

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	assert.Error(t, Normalize(cfg))
}

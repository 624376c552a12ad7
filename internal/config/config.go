package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds activity store connection settings.
// Driver selects the backend: "postgres" (default) or "sqlite".
// Path is only used by the sqlite driver.
type DatabaseConfig struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	Path           string `yaml:"path" envconfig:"DB_PATH"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	MigrationsDir  string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// DriverPostgres selects the Postgres activity store.
	DriverPostgres = "postgres"
	// DriverSQLite selects the embedded SQLite activity store.
	DriverSQLite = "sqlite"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for per-user rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	driver := strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if driver == "" {
		driver = DriverPostgres
	}
	if driver == "sqlite3" { // accept driver-name alias
		driver = DriverSQLite
	}
	switch driver {
	case DriverPostgres:
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required for the postgres driver")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	case DriverSQLite:
		if strings.TrimSpace(cfg.Database.Path) == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid database.driver %q; allowed: postgres, sqlite", cfg.Database.Driver)
	}
	cfg.Database.Driver = driver
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 4
	}
	if cfg.Database.MigrationsDir == "" {
		cfg.Database.MigrationsDir = "migrations"
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

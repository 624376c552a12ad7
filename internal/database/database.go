// Package database opens the activity store connection and applies schema
// migrations. Postgres is the production backend; SQLite serves local
// development and single-node deployments.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"daylog/internal/config"
	"daylog/internal/logger"
	"log/slog"
)

const connectTimeout = 5 * time.Second

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn := driverDSN(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db.connect.failed",
			slog.String("driver", driver),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	maxConns := cfg.MaxConnections
	if cfg.Driver == config.DriverSQLite {
		// go-sqlite3 serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent handlers.
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	logger.DB.Info("db.connected",
		slog.String("driver", driver),
		slog.Int("pool_open", maxConns),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return db, nil
}

// driverDSN maps the configured backend onto a sql driver name and DSN.
func driverDSN(cfg config.DatabaseConfig) (string, string) {
	if cfg.Driver == config.DriverSQLite {
		return "sqlite3", cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
	return "postgres", dsn
}

// waitForDatabase pings the backend until it is ready or the timeout is
// reached. Covers container starts where the bot comes up before Postgres.
func waitForDatabase(cfg config.DatabaseConfig, timeout time.Duration) error {
	driver, dsn := driverDSN(cfg)
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open(driver, dsn)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}

// migrateURL builds the database URL consumed by golang-migrate.
func migrateURL(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return "sqlite3://" + cfg.Path
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

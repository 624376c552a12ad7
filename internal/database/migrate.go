package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"daylog/internal/config"
	"daylog/internal/logger"
	"log/slog"
)

// RunMigrations applies all up migrations from the configured directory.
// Each driver has its own subdirectory since the autoincrement and
// timestamp syntax differ between Postgres and SQLite.
func RunMigrations(cfg config.DatabaseConfig) error {
	if cfg.Driver == config.DriverPostgres {
		if err := waitForDatabase(cfg, 30*time.Second); err != nil {
			logger.MIG.Error("migrate.db_not_ready",
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("database not ready: %w", err)
		}
	}

	dir, err := filepath.Abs(filepath.Join(cfg.MigrationsDir, cfg.Driver))
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	sourceURL := "file://" + dir

	m, err := migrate.New(sourceURL, migrateURL(cfg))
	if err != nil {
		logger.MIG.Error("migrate.init_failed",
			slog.String("path", dir),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.MIG.Error("migrate.failed",
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	logger.MIG.Info("migrate.summary",
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return nil
}

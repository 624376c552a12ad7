package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"daylog/internal/buildinfo"
	"daylog/internal/config"
	"daylog/internal/conversation"
	"daylog/internal/database"
	"daylog/internal/logger"
	"daylog/internal/store"
	"daylog/internal/telegram"
	"log/slog"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("daylog: %v", err)
	}
}

func run() error {
	// Optional .env for local runs; real deployments use the environment.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	startedAt := time.Now()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	activities, err := store.New(cfg.Database.Driver, db)
	if err != nil {
		return err
	}

	bot, err := telegram.NewBot(cfg)
	if err != nil {
		return err
	}

	coordinator := conversation.New(activities, telegram.NewGateway(bot))
	handlers := telegram.NewHandlers(coordinator)
	registry := telegram.DefaultRegistry(handlers)

	logger.L.Info("app.ready",
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = telegram.Run(ctx, bot, cfg, registry, handlers)

	logger.L.Info("app.shutdown")
	return err
}

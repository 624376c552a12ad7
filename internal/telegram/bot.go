// Package telegram adapts Telegram updates onto the conversation core and
// runs the bot lifecycle.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/config"
	"daylog/internal/logger"
	"log/slog"
)

// NewBot builds the telebot instance from config: poller mode, long poll
// timeout and the tuned HTTP client.
func NewBot(cfg *config.Config) (*tele.Bot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: buildPoller(cfg),
		Client: buildHTTPClient(),
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	return bot, nil
}

func buildPoller(cfg *config.Config) tele.Poller {
	if cfg.Telegram.RunMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}

// DefaultRegistry returns the bot's command set.
func DefaultRegistry(h *Handlers) *Registry {
	reg := NewRegistry()
	reg.RegisterCommand("/start", Command{
		Handler:     h.Start,
		Description: "Start logging your day",
	})
	reg.RegisterCommand("/today", Command{
		Handler:     h.Today,
		Description: "Show today's activities",
	})
	return reg
}

// Run registers middleware and routes, publishes the command menu, and
// runs the bot until the context is cancelled.
func Run(ctx context.Context, bot *tele.Bot, cfg *config.Config, reg *Registry, h *Handlers) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bot.Use(recoverMiddleware)
	if cfg.RateLimit.IntervalMS > 0 {
		bot.Use(rateLimitMiddleware(cfg.RateLimit))
	}
	bot.Use(loggerMiddleware)

	for name, cmd := range reg.Commands() {
		bot.Handle(name, cmd.Handler)
	}
	bot.Handle(tele.OnText, h.Text)
	bot.Handle(tele.OnCallback, h.Callback)

	initBotCommands(bot, reg)

	logger.TG.Info("bot.starting",
		slog.String("mode", cfg.Telegram.RunMode),
	)

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-runDone:
		return nil
	}
}

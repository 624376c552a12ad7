package telegram

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/config"
	"daylog/internal/logger"
	"log/slog"
)

const contextKey = "logger_ctx"

// requestContext builds (and caches on the tele.Context) a context.Context
// carrying rid and update metadata for consistent logging downstream.
func requestContext(c tele.Context) context.Context {
	if v := c.Get(contextKey); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}

	upd := c.Update()
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}

	ctx := logger.WithRID(context.Background(), logger.BuildRID(upd.ID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	c.Set(contextKey, ctx)
	return ctx
}

// recoverMiddleware catches panics in handlers and prevents the bot from crashing.
func recoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("tg.panic",
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// loggerMiddleware logs one receipt line per update.
func loggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := requestContext(c)

		attrs := []slog.Attr{slog.Int("update_id", c.Update().ID)}
		switch {
		case c.Callback() != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(callbackPayload(c.Callback()), 64)))
		case c.Message() != nil:
			attrs = append(attrs, slog.String("text", logger.SanitizeLimit(c.Text(), 128)))
		}
		logger.Debug(ctx, "tg", "update.received", attrs...)

		return next(c)
	}
}

// rateLimitMiddleware enforces a minimum interval between updates from the
// same user. Callback presses are normally excluded so a user can answer
// the duration menu right after sending the activity text.
func rateLimitMiddleware(cfg config.RateLimitConfig) tele.MiddlewareFunc {
	interval := time.Duration(cfg.IntervalMS) * time.Millisecond
	exclude := make(map[string]struct{}, len(cfg.ExcludeUpdates))
	for _, kind := range cfg.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}

	var (
		mu       sync.Mutex
		lastSeen = make(map[int64]time.Time)
	)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || interval <= 0 {
				return next(c)
			}

			kind := config.UpdateMessage
			if c.Callback() != nil {
				kind = config.UpdateCallback
			}
			if _, skip := exclude[kind]; skip {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			last, seen := lastSeen[user.ID]
			if seen && now.Sub(last) < interval {
				mu.Unlock()
				logger.TG.Warn("tg.rate_limit",
					slog.Int64("user_id", user.ID),
				)
				return nil
			}
			lastSeen[user.ID] = now
			mu.Unlock()
			return next(c)
		}
	}
}

package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/conversation"
	"daylog/internal/logger"
	"log/slog"
)

// Gateway implements conversation.Gateway on a telebot instance. Sends are
// synchronous: the state machine awaits each outbound message before
// handling the user's next event.
type Gateway struct {
	bot *tele.Bot
}

// NewGateway wraps a bot for outbound sends.
func NewGateway(bot *tele.Bot) *Gateway {
	return &Gateway{bot: bot}
}

// SendText delivers a plain text message to a chat.
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) error {
	return g.send(ctx, chatID, "sendMessage", func() error {
		_, err := g.bot.Send(tele.ChatID(chatID), text)
		return err
	})
}

// SendMenu delivers a text message with an inline button menu.
func (g *Gateway) SendMenu(ctx context.Context, chatID int64, text string, menu conversation.Menu) error {
	return g.send(ctx, chatID, "sendMessage+keyboard", func() error {
		_, err := g.bot.Send(tele.ChatID(chatID), text, menuMarkup(menu))
		return err
	})
}

func (g *Gateway) send(ctx context.Context, chatID int64, endpoint string, run func() error) error {
	start := time.Now()
	if err := run(); err != nil {
		logger.Error(ctx, "tg.sender", "send.failed",
			slog.Int64("chat_id", chatID),
			slog.String("endpoint", endpoint),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("telegram send: %w", err)
	}
	logger.Debug(ctx, "tg.sender", "send.ok",
		slog.Int64("chat_id", chatID),
		slog.String("endpoint", endpoint),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}

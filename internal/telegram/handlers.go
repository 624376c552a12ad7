package telegram

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/conversation"
	"daylog/internal/logger"
	"daylog/internal/store"
	"log/slog"
)

// Handlers glues Telegram updates onto the conversation coordinator.
type Handlers struct {
	coord *conversation.Coordinator
}

// NewHandlers wires the coordinator into update handlers.
func NewHandlers(coord *conversation.Coordinator) *Handlers {
	return &Handlers{coord: coord}
}

// Start handles the /start command through the daily welcome gate.
func (h *Handlers) Start(c tele.Context) error {
	return h.handle(c, "start", func() error {
		chat := c.Chat()
		if chat == nil {
			return nil
		}
		return h.coord.HandleStart(requestContext(c), chat.ID)
	})
}

// Text records any non-command text as an activity.
func (h *Handlers) Text(c tele.Context) error {
	return h.handle(c, "text", func() error {
		sender := c.Sender()
		msg := c.Message()
		chat := c.Chat()
		if sender == nil || msg == nil || chat == nil {
			return nil
		}
		return h.coord.HandleMessage(requestContext(c), conversation.Message{
			ChatID:      chat.ID,
			UserID:      sender.ID,
			DisplayName: sender.FirstName,
			Text:        c.Text(),
			SentAt:      msg.Time(),
		})
	})
}

// Callback routes button presses into the state machine.
func (h *Handlers) Callback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	// Stop the client's spinner regardless of the outcome.
	_ = c.Respond()

	return h.handle(c, "callback", func() error {
		sender := c.Sender()
		chat := c.Chat()
		// A callback on an inaccessible message carries no chat.
		if sender == nil || chat == nil {
			return nil
		}
		return h.coord.HandleButton(requestContext(c), conversation.ButtonPress{
			ChatID:  chat.ID,
			UserID:  sender.ID,
			Payload: callbackPayload(cb),
		})
	})
}

// Today replies with the activities logged since UTC midnight.
func (h *Handlers) Today(c tele.Context) error {
	return h.handle(c, "today", func() error {
		sender := c.Sender()
		if sender == nil {
			return nil
		}
		activities, err := h.coord.Today(requestContext(c), sender.ID)
		if err != nil {
			_ = c.Send("Sorry, I couldn't load today's activities.")
			return err
		}
		return c.Send(formatToday(activities))
	})
}

func formatToday(activities []store.Activity) string {
	if len(activities) == 0 {
		return "You haven't logged anything today yet."
	}
	var b strings.Builder
	b.WriteString("Here's what you've logged today:\n")
	for _, a := range activities {
		fmt.Fprintf(&b, "• %s — %s", a.MessageDate.UTC().Format("15:04"), a.MessageText)
		if a.DurationMinutes != nil {
			fmt.Fprintf(&b, " (%d min)", *a.DurationMinutes)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// handle runs fn and emits one summary line with timing and outcome.
func (h *Handlers) handle(c tele.Context, name string, fn func() error) error {
	start := time.Now()
	ctx := logger.WithHandler(requestContext(c), name)
	c.Set(contextKey, ctx)

	err := fn()

	status := "ok"
	attrs := []slog.Attr{
		slog.String("handler", name),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		status = "fail"
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	attrs = append(attrs, slog.String("status", status))
	logger.Info(ctx, "tg", "handler.handled", attrs...)
	return err
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	var c coder
	if errors.As(err, &c) {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return code
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(t.Name())
	}
	return "UNKNOWN_ERROR"
}

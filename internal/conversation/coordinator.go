// Package conversation implements the per-user dialogue state machine of
// the activity logging bot: record an activity, ask for its duration, loop
// until the user confirms the end of their day.
package conversation

import (
	"context"
	"fmt"
	"time"

	"daylog/internal/logger"
	"daylog/internal/store"
	"log/slog"
)

// StartCommand is intercepted before activity recording.
const StartCommand = "/start"

const defaultStoreTimeout = 5 * time.Second

// Gateway delivers outbound messages to the chat platform.
type Gateway interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMenu(ctx context.Context, chatID int64, text string, menu Menu) error
}

// Coordinator owns all conversation state: the per-user session map and
// the process-wide welcome gate. Transport handlers go through its
// methods and never touch state directly.
type Coordinator struct {
	store    store.ActivityStore
	gateway  Gateway
	sessions *sessions
	welcome  *WelcomeGate
	now      func() time.Time

	// storeTimeout bounds every persistence call so a hung backend
	// cannot leave a user's state machine stuck mid-transition.
	storeTimeout time.Duration
}

// Option adjusts coordinator construction.
type Option func(*Coordinator)

// WithStoreTimeout overrides the persistence call timeout.
func WithStoreTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.storeTimeout = d
		}
	}
}

// WithClock overrides the clock used by the welcome gate and the /today
// day boundary. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
			c.welcome.now = now
		}
	}
}

// New builds a coordinator with an empty session map and an unset
// welcome marker.
func New(st store.ActivityStore, gw Gateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:        st,
		gateway:      gw,
		sessions:     newSessions(),
		welcome:      NewWelcomeGate(),
		now:          time.Now,
		storeTimeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleStart processes the /start command: the welcome banner is sent at
// most once per UTC day across all chats; repeats are silently ignored.
func (c *Coordinator) HandleStart(ctx context.Context, chatID int64) error {
	if !c.welcome.Allow() {
		logger.Debug(ctx, "conversation", "welcome.suppressed",
			slog.Int64("chat_id", chatID),
		)
		return nil
	}
	if err := c.gateway.SendText(ctx, chatID, WelcomeText); err != nil {
		c.welcome.Rearm()
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

// HandleMessage records a text message as a new activity and asks for its
// duration. On a failed insert the user gets an apology instead of the
// menu and the session does not advance, so resending the text retries.
func (c *Coordinator) HandleMessage(ctx context.Context, msg Message) error {
	if msg.Text == StartCommand {
		// Intercepted upstream; a stray arrival here is a no-op.
		return nil
	}

	return c.sessions.withUser(msg.UserID, func(sess *Session) error {
		id, err := c.insertActivity(ctx, msg)
		if err != nil {
			c.apologize(ctx, msg.ChatID, InsertFailedText)
			return &StoreError{Op: "insert", Err: err}
		}

		sess.State = StateAwaitingDuration
		sess.PendingActivityID = id

		if err := c.gateway.SendMenu(ctx, msg.ChatID, RecordedPrompt, DurationMenu()); err != nil {
			return fmt.Errorf("send duration menu: %w", err)
		}
		return nil
	})
}

// HandleButton interprets a button press against the user's current state.
// Unrecognized payloads are ignored; malformed duration payloads are
// rejected with a PayloadError.
func (c *Coordinator) HandleButton(ctx context.Context, press ButtonPress) error {
	event, err := ParsePayload(press.Payload)
	if err != nil {
		logger.Warn(ctx, "conversation", "payload.malformed",
			slog.Int64("user_id", press.UserID),
			slog.String("payload", logger.SanitizeLimit(press.Payload, 64)),
		)
		return err
	}

	switch event.Kind {
	case EventDuration:
		return c.handleDuration(ctx, press, event.Minutes)
	case EventAddAnother:
		return c.handleAddAnother(ctx, press)
	case EventNoMore:
		return c.handleNoMore(ctx, press)
	case EventEndOfDay:
		return c.handleEndOfDay(ctx, press)
	default:
		logger.Debug(ctx, "conversation", "payload.ignored",
			slog.Int64("user_id", press.UserID),
			slog.String("payload", logger.SanitizeLimit(press.Payload, 64)),
		)
		return nil
	}
}

func (c *Coordinator) handleDuration(ctx context.Context, press ButtonPress, minutes int) error {
	return c.sessions.withUser(press.UserID, func(sess *Session) error {
		if sess.State != StateAwaitingDuration || sess.PendingActivityID == 0 {
			// Stale press, e.g. a button on an old message.
			logger.Debug(ctx, "conversation", "duration.stale",
				slog.Int64("user_id", press.UserID),
				slog.String("state", string(sess.State)),
			)
			return nil
		}

		if err := c.updateDuration(ctx, press.UserID, sess.PendingActivityID, minutes); err != nil {
			c.apologize(ctx, press.ChatID, UpdateFailedText)
			return &StoreError{Op: "update_duration", Err: err}
		}

		sess.State = StateIdle
		sess.PendingActivityID = 0

		if err := c.gateway.SendMenu(ctx, press.ChatID, DurationRecordedText(minutes), AddAnotherMenu()); err != nil {
			return fmt.Errorf("send add-another menu: %w", err)
		}
		return nil
	})
}

func (c *Coordinator) handleAddAnother(ctx context.Context, press ButtonPress) error {
	return c.sessions.withUser(press.UserID, func(sess *Session) error {
		sess.State = StateIdle
		sess.PendingActivityID = 0
		if err := c.gateway.SendText(ctx, press.ChatID, NextActivityPrompt); err != nil {
			return fmt.Errorf("send next-activity prompt: %w", err)
		}
		return nil
	})
}

func (c *Coordinator) handleNoMore(ctx context.Context, press ButtonPress) error {
	return c.sessions.withUser(press.UserID, func(sess *Session) error {
		sess.State = StateConfirmingEndOfDay
		sess.PendingActivityID = 0
		if err := c.gateway.SendMenu(ctx, press.ChatID, ConfirmEndPrompt, ConfirmEndMenu()); err != nil {
			return fmt.Errorf("send end-of-day confirm: %w", err)
		}
		return nil
	})
}

func (c *Coordinator) handleEndOfDay(ctx context.Context, press ButtonPress) error {
	return c.sessions.withUser(press.UserID, func(sess *Session) error {
		if sess.State != StateConfirmingEndOfDay {
			logger.Debug(ctx, "conversation", "end_of_day.stale",
				slog.Int64("user_id", press.UserID),
				slog.String("state", string(sess.State)),
			)
			return nil
		}

		sess.State = StateIdle
		sess.PendingActivityID = 0

		if err := c.gateway.SendText(ctx, press.ChatID, ClosingText); err != nil {
			return fmt.Errorf("send closing message: %w", err)
		}
		return nil
	})
}

// Today returns the user's activities logged since UTC midnight.
func (c *Coordinator) Today(ctx context.Context, userID int64) ([]store.Activity, error) {
	sctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	midnight := c.now().UTC().Truncate(24 * time.Hour)
	return c.store.RecentActivities(sctx, userID, midnight)
}

func (c *Coordinator) insertActivity(ctx context.Context, msg Message) (int64, error) {
	sctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	return c.store.InsertActivity(sctx, store.NewActivity{
		UserID:      msg.UserID,
		DisplayName: msg.DisplayName,
		MessageDate: msg.SentAt,
		Text:        msg.Text,
	})
}

func (c *Coordinator) updateDuration(ctx context.Context, userID, activityID int64, minutes int) error {
	sctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()

	return c.store.UpdateActivityDuration(sctx, userID, activityID, minutes)
}

// apologize notifies the user that their input was not stored. A failed
// apology is only logged; the original store error is what propagates.
func (c *Coordinator) apologize(ctx context.Context, chatID int64, text string) {
	if err := c.gateway.SendText(ctx, chatID, text); err != nil {
		logger.Error(ctx, "conversation", "apology.send_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	ridKey     contextKey = "rid"
	metaKey    contextKey = "update_meta"
	handlerKey contextKey = "handler"
)

type updateMeta struct {
	updateID int
	userID   int64
	chatID   int64
}

// Background returns the base context for log calls made outside an update.
func Background() context.Context {
	return context.Background()
}

// WithRID stores a request identifier in the context.
func WithRID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ridKey, rid)
}

// RIDFrom extracts the request identifier from the context, if any.
func RIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(ridKey).(string)
	return rid
}

// WithUpdateMeta stores Telegram update identifiers in the context.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return context.WithValue(ctx, metaKey, updateMeta{updateID: updateID, userID: userID, chatID: chatID})
}

// UpdateIDFrom returns the update ID carried by the context, or 0.
func UpdateIDFrom(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	m, _ := ctx.Value(metaKey).(updateMeta)
	return m.updateID
}

// UserIDFrom returns the user ID carried by the context, or 0.
func UserIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	m, _ := ctx.Value(metaKey).(updateMeta)
	return m.userID
}

// ChatIDFrom returns the chat ID carried by the context, or 0.
func ChatIDFrom(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	m, _ := ctx.Value(metaKey).(updateMeta)
	return m.chatID
}

// WithHandler annotates the context with the handler name for downstream logs.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		return ctx
	}
	return context.WithValue(ctx, handlerKey, handler)
}

// HandlerFrom returns the handler name carried by the context, if any.
func HandlerFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	h, _ := ctx.Value(handlerKey).(string)
	return h
}

// BuildRID derives a request identifier from Telegram update metadata.
// Updates without any usable identifiers get a random one.
func BuildRID(updateID int, chatID, userID int64) string {
	if updateID == 0 && chatID == 0 && userID == 0 {
		return uuid.NewString()[:8]
	}
	return fmt.Sprintf("u%d-c%d-s%d", updateID, chatID, userID)
}

// Sanitize collapses control characters so user text stays on one log line.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	s = Sanitize(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

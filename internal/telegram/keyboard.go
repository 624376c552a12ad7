package telegram

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"daylog/internal/conversation"
)

// menuMarkup converts a conversation menu into an inline keyboard.
// Buttons carry their payload as raw callback data, without telebot's
// "\f<unique>" framing, so the wire format stays compatible with buttons
// sent by the previous incarnation of this bot.
func menuMarkup(menu conversation.Menu) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(menu))
	for _, row := range menu {
		r := make([]tele.InlineButton, 0, len(row))
		for _, btn := range row {
			r = append(r, tele.InlineButton{Text: btn.Label, Data: btn.Payload})
		}
		rows = append(rows, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// callbackPayload extracts the raw payload from a callback. Telebot frames
// its own buttons as "\f<unique>|<payload>"; raw-data buttons arrive as-is.
func callbackPayload(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	raw := cb.Data
	if !strings.HasPrefix(raw, "\f") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "\f")
	if _, payload, ok := strings.Cut(raw, "|"); ok {
		return payload
	}
	return raw
}

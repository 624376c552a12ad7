package telegram

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"

	"daylog/internal/conversation"
	"daylog/internal/store"
)

func TestFormatToday(t *testing.T) {
	assert.Equal(t, "You haven't logged anything today yet.", formatToday(nil))

	sixty := 60
	activities := []store.Activity{
		{
			MessageText: "walked the dog",
			MessageDate: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			MessageText:     "deep work",
			MessageDate:     time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
			DurationMinutes: &sixty,
		},
	}
	got := formatToday(activities)
	want := "Here's what you've logged today:\n" +
		"• 09:30 — walked the dog\n" +
		"• 11:00 — deep work (60 min)"
	assert.Equal(t, want, got)
}

func TestDeriveErrorCode(t *testing.T) {
	storeErr := &conversation.StoreError{Op: "insert", Err: errors.New("down")}
	assert.Equal(t, "STORE_WRITE_FAILURE", deriveErrorCode(storeErr))

	payloadErr := &conversation.PayloadError{Payload: "duration_x", Err: errors.New("bad")}
	assert.Equal(t, "PAYLOAD_PARSE_FAILURE", deriveErrorCode(payloadErr))

	// Plain errors fall back to their type name.
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("plain")))
	assert.Empty(t, deriveErrorCode(nil))
}

func TestRegistryRegistration(t *testing.T) {
	noop := func(tele.Context) error { return nil }

	reg := NewRegistry()
	reg.RegisterCommand("/start", Command{Handler: noop, Description: "start"})
	reg.RegisterCommand("/start", Command{Handler: noop, Description: "duplicate"})
	reg.RegisterCommand("today", Command{Handler: noop, Description: "missing slash"})
	reg.RegisterCommand("/hidden", Command{Handler: noop, Description: "hidden", Hidden: true})

	assert.Len(t, reg.Commands(), 2)

	list := reg.ListCommands()
	assert.Len(t, list, 1)
	assert.Equal(t, "/start", list[0].Text)
	assert.Equal(t, "start", list[0].Description)
}

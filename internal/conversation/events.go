package conversation

import (
	"strconv"
	"strings"
	"time"
)

// Message is an inbound text message from a user.
type Message struct {
	ChatID      int64
	UserID      int64
	DisplayName string
	Text        string
	SentAt      time.Time
}

// ButtonPress is an inbound inline-button click.
type ButtonPress struct {
	ChatID  int64
	UserID  int64
	Payload string
}

// Wire payloads carried by inline buttons. They match the original bot's
// callback data so old messages keep working after a redeploy.
const (
	payloadDurationPrefix = "duration_"

	PayloadAddAnother = "add_another"
	PayloadNoMore     = "no_more"
	PayloadEndOfDay   = "end_of_day"
)

// EventKind classifies a parsed button payload.
type EventKind int

const (
	// EventUnknown marks payloads that match nothing; they are ignored.
	EventUnknown EventKind = iota
	// EventDuration carries a selected duration in minutes.
	EventDuration
	// EventAddAnother asks for the next activity.
	EventAddAnother
	// EventNoMore starts the end-of-day confirmation.
	EventNoMore
	// EventEndOfDay confirms the user is done for today.
	EventEndOfDay
)

// Event is a parsed button press.
type Event struct {
	Kind    EventKind
	Minutes int
}

// ParsePayload maps a raw callback payload onto an Event.
// A "duration_" payload whose suffix is not a non-negative integer is
// rejected with a PayloadError instead of producing a bogus duration.
// Payloads that match nothing parse as EventUnknown without error.
func ParsePayload(payload string) (Event, error) {
	if rest, ok := strings.CutPrefix(payload, payloadDurationPrefix); ok {
		minutes, err := strconv.Atoi(rest)
		if err != nil {
			return Event{}, &PayloadError{Payload: payload, Err: err}
		}
		if minutes < 0 {
			return Event{}, &PayloadError{Payload: payload, Err: errNegativeDuration}
		}
		return Event{Kind: EventDuration, Minutes: minutes}, nil
	}

	switch payload {
	case PayloadAddAnother:
		return Event{Kind: EventAddAnother}, nil
	case PayloadNoMore:
		return Event{Kind: EventNoMore}, nil
	case PayloadEndOfDay:
		return Event{Kind: EventEndOfDay}, nil
	}
	return Event{Kind: EventUnknown}, nil
}

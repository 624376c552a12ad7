package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr bool
	}{
		{name: "duration", payload: "duration_45", want: Event{Kind: EventDuration, Minutes: 45}},
		{name: "duration max", payload: "duration_120", want: Event{Kind: EventDuration, Minutes: 120}},
		{name: "duration zero", payload: "duration_0", want: Event{Kind: EventDuration, Minutes: 0}},
		{name: "add another", payload: "add_another", want: Event{Kind: EventAddAnother}},
		{name: "no more", payload: "no_more", want: Event{Kind: EventNoMore}},
		{name: "end of day", payload: "end_of_day", want: Event{Kind: EventEndOfDay}},
		{name: "unknown", payload: "whatever", want: Event{Kind: EventUnknown}},
		{name: "empty", payload: "", want: Event{Kind: EventUnknown}},
		{name: "duration not a number", payload: "duration_abc", wantErr: true},
		{name: "duration empty suffix", payload: "duration_", wantErr: true},
		{name: "duration negative", payload: "duration_-5", wantErr: true},
		{name: "duration trailing junk", payload: "duration_15x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload(tt.payload)
			if tt.wantErr {
				var payloadErr *PayloadError
				require.ErrorAs(t, err, &payloadErr)
				assert.Equal(t, tt.payload, payloadErr.Payload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationMenuShape(t *testing.T) {
	menu := DurationMenu()
	require.Len(t, menu, 8)
	for i, row := range menu {
		require.Len(t, row, 1)
		minutes := (i + 1) * 15
		// Every menu payload must round-trip through the parser.
		got, err := ParsePayload(row[0].Payload)
		require.NoError(t, err)
		assert.Equal(t, Event{Kind: EventDuration, Minutes: minutes}, got)
	}
	first, last := menu[0][0], menu[7][0]
	assert.Equal(t, Button{Label: "15 minutes", Payload: "duration_15"}, first)
	assert.Equal(t, Button{Label: "120 minutes", Payload: "duration_120"}, last)
}

func TestConfirmMenus(t *testing.T) {
	add := AddAnotherMenu()
	require.Len(t, add, 2)
	assert.Equal(t, Button{Label: "Yes", Payload: PayloadAddAnother}, add[0][0])
	assert.Equal(t, Button{Label: "No", Payload: PayloadNoMore}, add[1][0])

	end := ConfirmEndMenu()
	require.Len(t, end, 2)
	assert.Equal(t, Button{Label: "Yes, I'm done", Payload: PayloadEndOfDay}, end[0][0])
	assert.Equal(t, Button{Label: "No, I have more to add", Payload: PayloadAddAnother}, end[1][0])
}

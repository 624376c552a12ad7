package telegram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"daylog/internal/conversation"
)

func TestMenuMarkupKeepsRawPayloads(t *testing.T) {
	markup := menuMarkup(conversation.DurationMenu())
	require.Len(t, markup.InlineKeyboard, 8)
	for i, row := range markup.InlineKeyboard {
		require.Len(t, row, 1)
		minutes := (i + 1) * 15
		assert.Equal(t, fmt.Sprintf("%d minutes", minutes), row[0].Text)
		assert.Equal(t, fmt.Sprintf("duration_%d", minutes), row[0].Data)
		assert.Empty(t, row[0].Unique, "payload must not get telebot framing")
	}
}

func TestMenuMarkupConfirmRows(t *testing.T) {
	markup := menuMarkup(conversation.ConfirmEndMenu())
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Yes, I'm done", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "end_of_day", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "No, I have more to add", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "add_another", markup.InlineKeyboard[1][0].Data)
}

func TestCallbackPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "raw", data: "duration_45", want: "duration_45"},
		{name: "raw action", data: "no_more", want: "no_more"},
		{name: "telebot framed", data: "\fdur|duration_45", want: "duration_45"},
		{name: "framed no payload", data: "\fadd_another", want: "add_another"},
		{name: "empty", data: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := callbackPayload(&tele.Callback{Data: tt.data})
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Empty(t, callbackPayload(nil))
}

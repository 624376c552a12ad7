package conversation

import "fmt"

// User-facing texts. Kept verbatim from the bot this one replaces.
const (
	WelcomeText        = "Welcome! Tell me about your day."
	RecordedPrompt     = "Thank you, your message has been recorded. How much time?"
	NextActivityPrompt = "What's the next activity you did?"
	ConfirmEndPrompt   = "Are you done for today?"
	ClosingText        = "✨ You're all done for today! ✨\nFeel free to clear the chat or start a new conversation whenever you're ready for more. Have a great day!"

	InsertFailedText = "Sorry, there was an error processing your message."
	UpdateFailedText = "Sorry, there was an error recording the duration."
)

// DurationRecordedText confirms a stored duration and leads into the
// add-another question.
func DurationRecordedText(minutes int) string {
	return fmt.Sprintf("Duration of %d minutes has been recorded. Would you like to add another activity?", minutes)
}

// Button is one inline button: a label and the payload it sends back.
type Button struct {
	Label   string
	Payload string
}

// Menu is an ordered set of button rows.
type Menu [][]Button

const (
	durationOptions = 8
	durationStepMin = 15
)

// DurationMenu returns the fixed duration keyboard: eight one-button rows
// for 15..120 minutes in 15-minute steps. The payloads are part of the
// wire contract and must not change.
func DurationMenu() Menu {
	menu := make(Menu, 0, durationOptions)
	for i := 1; i <= durationOptions; i++ {
		minutes := i * durationStepMin
		menu = append(menu, []Button{{
			Label:   fmt.Sprintf("%d minutes", minutes),
			Payload: fmt.Sprintf("%s%d", payloadDurationPrefix, minutes),
		}})
	}
	return menu
}

// AddAnotherMenu asks whether the user wants to log another activity.
func AddAnotherMenu() Menu {
	return Menu{
		{{Label: "Yes", Payload: PayloadAddAnother}},
		{{Label: "No", Payload: PayloadNoMore}},
	}
}

// ConfirmEndMenu asks the user to confirm the end of their day.
func ConfirmEndMenu() Menu {
	return Menu{
		{{Label: "Yes, I'm done", Payload: PayloadEndOfDay}},
		{{Label: "No, I have more to add", Payload: PayloadAddAnother}},
	}
}

package conversation

import (
	"sync"
	"time"
)

const welcomeDayLayout = "2006-01-02"

// WelcomeGate shows the welcome banner at most once per UTC calendar day,
// process-wide. The marker resets implicitly when the date advances.
type WelcomeGate struct {
	mu        sync.Mutex
	lastShown string
	now       func() time.Time
}

// NewWelcomeGate returns a gate with an unset marker.
func NewWelcomeGate() *WelcomeGate {
	return &WelcomeGate{now: time.Now}
}

// Allow reports whether the banner should be shown now and, if so, marks
// today as done. The decision and the marker update come from the same
// snapshot of "today" under one lock, so a press on the day boundary is
// attributed consistently.
func (g *WelcomeGate) Allow() bool {
	today := g.now().UTC().Format(welcomeDayLayout)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastShown == today {
		return false
	}
	g.lastShown = today
	return true
}

// Rearm clears the day marker. Called when the banner send fails after
// Allow consumed the slot, so the next /start can retry instead of leaving
// the day with zero banners.
func (g *WelcomeGate) Rearm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastShown = ""
}

package conversation

import "sync"

// State identifies the next expected kind of input from a user.
type State string

const (
	// StateIdle indicates no active conversation; a session in this state
	// is represented by the absence of an entry.
	StateIdle State = "idle"
	// StateAwaitingDuration means the user owes a duration for the
	// activity identified by Session.PendingActivityID.
	StateAwaitingDuration State = "awaiting_duration"
	// StateConfirmingEndOfDay means the user was asked whether they are
	// done for today.
	StateConfirmingEndOfDay State = "confirming_end_of_day"
)

// Session stores conversation state for one user.
type Session struct {
	State State
	// PendingActivityID is the record awaiting a duration. Targeting an
	// explicit identifier keeps a rapid second activity from stealing
	// the duration meant for the first one.
	PendingActivityID int64
}

// sessions owns all per-user conversation state. Every event for a user is
// processed under that user's lock, so two rapid presses from the same
// user serialize while distinct users never contend.
type sessions struct {
	mu      sync.Mutex
	locks   map[int64]*sync.Mutex
	entries map[int64]Session
}

func newSessions() *sessions {
	return &sessions{
		locks:   make(map[int64]*sync.Mutex),
		entries: make(map[int64]Session),
	}
}

// userLock returns the lock for a user, creating it on first use.
// Locks are never removed; the map grows with the set of users seen.
func (s *sessions) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// withUser runs fn with exclusive access to the user's session. An absent
// entry is presented as an idle session; an idle session left behind by fn
// is removed again.
func (s *sessions) withUser(userID int64, fn func(*Session) error) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	sess, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		sess = Session{State: StateIdle}
	}

	err := fn(&sess)

	s.mu.Lock()
	if sess.State == StateIdle && sess.PendingActivityID == 0 {
		delete(s.entries, userID)
	} else {
		s.entries[userID] = sess
	}
	s.mu.Unlock()
	return err
}

// snapshot returns the user's current session without locking the user.
// Intended for tests and diagnostics only.
func (s *sessions) snapshot(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.entries[userID]
	return sess, ok
}

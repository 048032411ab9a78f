package store

import "time"

// Practice modes recorded in the history.
const (
	ModeTraining = "training"
	ModeTesting  = "testing"
)

// Session statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAborted   = "aborted"
)

// Session represents one training or testing run over a unit
type Session struct {
	ID        string
	Unit      string
	Mode      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Correct   int // graded answers (testing) or words revealed (training)
	Total     int
	Metadata  map[string]string
}

// Attempt is a single graded answer given during a testing session
type Attempt struct {
	ID        int64
	SessionID string
	Word      string
	Expected  string
	Answer    string
	Correct   bool
	CreatedAt time.Time
}

// WordStat aggregates the graded answers for one word
type WordStat struct {
	Unit    string
	Word    string
	Correct int
	Missed  int
}

// Storage defines the interface for practice history persistence
type Storage interface {
	// Session Management
	CreateSession(session *Session) error
	GetSession(id string) (*Session, error)
	UpdateSession(session *Session) error
	ListSessions(unit string, limit int) ([]*Session, error)

	// Attempt Management
	RecordAttempt(attempt *Attempt) error
	ListAttempts(sessionID string) ([]*Attempt, error)
	MissedWords(unit string, limit int) ([]WordStat, error)

	Close() error
}

package apperrors

import (
	"sync"
	"time"
)

// Report is the most recent non-fatal failure observed by a component.
type Report struct {
	Kind string
	Err  error
	At   time.Time
}

// Slot holds the last non-fatal error. Failures that must not abort a user
// action (persistence, notification, initialization) land here instead of
// being returned.
type Slot struct {
	mu   sync.Mutex
	last Report
	set  bool
}

func (s *Slot) Record(err error, at time.Time) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Report{Kind: Kind(err), Err: err, At: at}
	s.set = true
}

func (s *Slot) Last() (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.set
}

func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Report{}
	s.set = false
}

// Package session holds the editor state a host keeps next to the stateless
// checker: the current buffer, the newest request sequence seen, the unsaved
// flag and a bounded undo history.
package session

import (
	"errors"
	"sync"
	"time"
)

// DefaultHistory is the number of snapshots kept when New is given 0.
const DefaultHistory = 50

var (
	// ErrStale is returned for requests older than the newest one seen.
	ErrStale = errors.New("stale request")
	// ErrNothingToUndo is returned by Undo on an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Snapshot is a previous buffer state.
type Snapshot struct {
	Seq  uint64
	Text string
	At   time.Time
}

// Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	latest  uint64
	text    string
	saved   string
	history []Snapshot
	limit   int
	now     func() time.Time
}

func New(limit int) *Session {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Session{limit: limit, now: time.Now}
}

// accept bumps the newest sequence; requests older than it are stale.
// Equal sequences are accepted so follow-ups to one edit share its number.
func (s *Session) accept(seq uint64) error {
	if seq < s.latest {
		return ErrStale
	}
	s.latest = seq
	return nil
}

// Check reports whether seq is still current without changing the buffer.
func (s *Session) Check(seq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accept(seq)
}

// Update replaces the buffer with text. The previous content goes into the
// history when it differs.
func (s *Session) Update(seq uint64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accept(seq); err != nil {
		return err
	}
	s.push(seq, text)
	return nil
}

func (s *Session) push(seq uint64, text string) {
	if text == s.text {
		return
	}
	s.history = append(s.history, Snapshot{Seq: seq, Text: s.text, At: s.now()})
	if over := len(s.history) - s.limit; over > 0 {
		// старые снимки вытесняются первыми
		s.history = append(s.history[:0], s.history[over:]...)
	}
	s.text = text
}

// Undo restores the most recent snapshot and returns it.
func (s *Session) Undo(seq uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.accept(seq); err != nil {
		return "", err
	}
	n := len(s.history)
	if n == 0 {
		return s.text, ErrNothingToUndo
	}
	last := s.history[n-1]
	s.history = s.history[:n-1]
	s.text = last.Text
	return s.text, nil
}

// Text returns the current buffer.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Latest returns the newest accepted sequence number.
func (s *Session) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Dirty reports unsaved changes since the last MarkSaved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text != s.saved
}

// MarkSaved records the current buffer as persisted by the host.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = s.text
}

// History returns a copy of the snapshots, oldest first.
func (s *Session) History() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Snapshot(nil), s.history...)
}

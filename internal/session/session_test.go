package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestUpdateAndStale(t *testing.T) {
	s := New(0)
	if err := s.Update(2, "<p>"); err != nil {
		t.Fatalf("Update(2): %v", err)
	}
	if err := s.Update(1, "<old>"); !errors.Is(err, ErrStale) {
		t.Fatalf("Update(1): expected ErrStale, got %v", err)
	}
	if got := s.Text(); got != "<p>" {
		t.Fatalf("stale update changed the buffer: %q", got)
	}
	if err := s.Update(2, "<p></p>"); err != nil {
		t.Fatalf("equal sequence must be accepted: %v", err)
	}
	if got := s.Latest(); got != 2 {
		t.Fatalf("Latest: want 2, got %d", got)
	}
	if err := s.Check(1); !errors.Is(err, ErrStale) {
		t.Fatalf("Check(1): expected ErrStale, got %v", err)
	}
}

func TestUndo(t *testing.T) {
	s := New(0)
	for i, text := range []string{"a", "ab", "ab", "abc"} {
		if err := s.Update(uint64(i+1), text); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	// "ab" повторно не попадает в историю
	if got := len(s.History()); got != 3 {
		t.Fatalf("history: want 3 snapshots, got %d", got)
	}
	for _, want := range []string{"ab", "a", ""} {
		got, err := s.Undo(10)
		if err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if got != want {
			t.Fatalf("Undo: want %q, got %q", want, got)
		}
	}
	if _, err := s.Undo(10); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := s.Undo(9); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestHistoryBounded(t *testing.T) {
	s := New(3)
	for i := 1; i <= 10; i++ {
		if err := s.Update(uint64(i), fmt.Sprintf("v%d", i)); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	h := s.History()
	if len(h) != 3 {
		t.Fatalf("history: want 3, got %d", len(h))
	}
	if h[0].Text != "v7" || h[2].Text != "v9" {
		t.Fatalf("unexpected history window: %q .. %q", h[0].Text, h[2].Text)
	}
}

func TestDirty(t *testing.T) {
	s := New(0)
	if s.Dirty() {
		t.Fatalf("new session must be clean")
	}
	_ = s.Update(1, "<p>")
	if !s.Dirty() {
		t.Fatalf("edited session must be dirty")
	}
	s.MarkSaved()
	if s.Dirty() {
		t.Fatalf("saved session must be clean")
	}
	_ = s.Update(2, "<p></p>")
	_, _ = s.Undo(3)
	if s.Dirty() {
		t.Fatalf("undo back to the saved text must be clean")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := New(0)
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			_ = s.Update(seq, fmt.Sprintf("v%d", seq))
		}(uint64(i))
	}
	wg.Wait()
	if got := s.Latest(); got != 50 {
		t.Fatalf("Latest: want 50, got %d", got)
	}
	if got := s.Text(); got != "v50" {
		t.Fatalf("Text: want v50, got %q", got)
	}
}

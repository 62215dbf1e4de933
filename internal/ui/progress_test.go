package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"markcheck/internal/driver"
)

func TestProgressModelStatuses(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("checking pages", []string{"a.html", "b.md"}, events).(*progressModel)

	steps := []driver.Event{
		{File: "a.html", Stage: driver.StageAnalyze, Status: driver.StatusWorking},
		{File: "b.md", Stage: driver.StageRender, Status: driver.StatusWorking},
		{File: "a.html", Stage: driver.StageAnalyze, Status: driver.StatusDone, Cached: true},
		{File: "c.html", Stage: driver.StageLoad, Status: driver.StatusError},
	}
	for _, ev := range steps {
		model.applyEvent(ev)
	}

	want := map[string]string{"a.html": "cached", "b.md": "rendering", "c.html": "error"}
	for path, status := range want {
		idx, ok := model.index[path]
		if !ok {
			t.Fatalf("%s not tracked", path)
		}
		if got := model.items[idx].status; got != status {
			t.Fatalf("%s: want status %q, got %q", path, status, got)
		}
	}

	// a: 1.0, b: 0.3 (render), c: 1.0 (error)
	if got, want := model.percent(), (1.0+0.3+1.0)/3; got != want {
		t.Fatalf("percent: want %v, got %v", want, got)
	}
}

func TestProgressModelDone(t *testing.T) {
	events := make(chan driver.Event)
	model := NewProgressModel("checking pages", []string{"a.html"}, events)

	next, cmd := model.Update(doneMsg{})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	view := next.View()
	if !strings.Contains(view, "done: checking pages") || !strings.Contains(view, "a.html") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"pages/very/long/name.html", 10, "page..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d): want %q, got %q", tc.in, tc.width, tc.want, got)
		}
	}
}

func TestProgressViewHidesFinishedPages(t *testing.T) {
	files := make([]string, 0, 14)
	for i := range 14 {
		files = append(files, fmt.Sprintf("p%02d.html", i))
	}
	model := NewProgressModel("checking pages", files, make(chan driver.Event)).(*progressModel)
	model.applyEvent(driver.Event{File: "p00.html", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	model.applyEvent(driver.Event{File: "p01.html", Stage: driver.StageAnalyze, Status: driver.StatusDone, Cached: true})
	model.applyEvent(driver.Event{File: "p02.html", Stage: driver.StageLoad, Status: driver.StatusError})

	c := model.counts()
	if c.finished != 3 || c.cached != 1 || c.failed != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	view := model.View()
	if strings.Contains(view, "p00.html") || strings.Contains(view, "p01.html") {
		t.Fatalf("finished pages must not be listed:\n%s", view)
	}
	// 11 незавершённых: 10 строк и счётчик
	for _, want := range []string{"3/14 pages, 1 cached", "p02.html", "p03.html", "p12.html", "1 more"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if strings.Contains(view, "p13.html") {
		t.Fatalf("rows beyond the cap must be hidden:\n%s", view)
	}
}

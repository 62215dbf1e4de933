package main

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markcheck/internal/config"
)

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit modes must not depend on the terminal")
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("warn")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("parseLogLevel(warn) = %v, %v", level, err)
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://cms.example.org/"})
	cases := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"https://cms.example.org", true},
		{"https://evil.example.net", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "http://example.com/v1/live", nil)
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if got := check(req); got != tc.want {
			t.Fatalf("origin %q: got %v want %v", tc.origin, got, tc.want)
		}
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	if err := runInit(initCmd, []string{dir}); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	loaded, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Config.Lint.Severity) == 0 {
		t.Fatalf("expected rule severities in the default config")
	}
	if err := runInit(initCmd, []string{dir}); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestLoadInputRendersMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.md")
	if err := os.WriteFile(path, []byte("# Title\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, f, err := loadInput(path, false)
	if err != nil {
		t.Fatalf("loadInput: %v", err)
	}
	if !strings.Contains(string(f.Content), "<h1>Title</h1>") {
		t.Fatalf("expected rendered markup, got %q", f.Content)
	}
}

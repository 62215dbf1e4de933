package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func withoutColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersion_Current(t *testing.T) {
	withVersion(t, "1.2.3", "abc123def456", "2024-01-15T10:30:00Z")
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("Current() = %+v", info)
	}
}

func TestVersion_Banner(t *testing.T) {
	withoutColor(t)
	cases := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "markcheck 0.1.0-dev"},
		{"1.2.3", "abc123", "", "markcheck 1.2.3 (abc123)"},
		{"1.2.3-rc.1+build.123", "abc123", "2024-01-15", "markcheck 1.2.3-rc.1+build.123 (abc123) built 2024-01-15"},
		{"nightly", "", "", "markcheck nightly"},
	}
	for _, tc := range cases {
		withVersion(t, tc.version, tc.commit, tc.date)
		if got := Banner(); got != tc.want {
			t.Errorf("Banner() = %q, want %q", got, tc.want)
		}
	}
}

// BenchmarkBanner benchmarks rendering the version banner
func BenchmarkBanner(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Banner()
	}
}

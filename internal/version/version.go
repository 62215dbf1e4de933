package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the markcheck CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the machine-readable build description (healthz, --format json).
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the build description.
func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// Colored renders Version with each numeric component in its own color.
// Non-semver strings are returned as is.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the one-line `markcheck version` output.
func Banner() string {
	var b strings.Builder
	fmt.Fprintf(&b, "markcheck %s", Colored())
	if GitCommit != "" {
		fmt.Fprintf(&b, " (%s)", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, " built %s", BuildDate)
	}
	return b.String()
}

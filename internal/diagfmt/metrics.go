package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"markcheck/internal/score"
)

// FileMetrics pairs a path with its metrics for multi-file output.
type FileMetrics struct {
	Path    string        `json:"path"`
	Metrics score.Metrics `json:"metrics"`
}

// FormatMetricsPretty prints counters and scores; scores are colored by band
// when useColor is set.
func FormatMetricsPretty(w io.Writer, items []FileMetrics, useColor bool) {
	band := func(v int) string {
		c := color.New(color.FgGreen)
		switch {
		case v < 50:
			c = color.New(color.FgRed)
		case v < 80:
			c = color.New(color.FgYellow)
		}
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprintf("%3d", v)
	}
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		m := it.Metrics
		fmt.Fprintf(w, "%s\n", it.Path)
		fmt.Fprintf(w, "  lines %d  characters %d  words %d  tags %d\n", m.Lines, m.Characters, m.Words, m.TagCount)
		fmt.Fprintf(w, "  readability   %s\n", band(m.Readability))
		fmt.Fprintf(w, "  accessibility %s\n", band(m.Accessibility))
		fmt.Fprintf(w, "  seo           %s\n", band(m.SEO))
	}
}

// FormatMetricsJSON writes items as an indented JSON array.
func FormatMetricsJSON(w io.Writer, items []FileMetrics) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

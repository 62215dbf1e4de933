package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/diagfmt"
)

var scoreCmd = &cobra.Command{
	Use:   "score [flags] [path...]",
	Short: "Print readability, accessibility and SEO metrics per page",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scoreCmd.Flags().Int("jobs", 0, "max parallel workers (0 = [check].jobs or auto)")
	scoreCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	scoreCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
}

func runScore(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := executeCheck(cmd, args, "scoring pages")
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}

	items := make([]diagfmt.FileMetrics, 0, len(run.results))
	failed := false
	for _, r := range run.results {
		if r.Err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "score: %s: %v\n", r.Path, r.Err)
			continue
		}
		items = append(items, diagfmt.FileMetrics{Path: r.Path, Metrics: r.Metrics})
	}

	switch format {
	case "json":
		if err := diagfmt.FormatMetricsJSON(os.Stdout, items); err != nil {
			return err
		}
	default:
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.FormatMetricsPretty(os.Stdout, items, color)
	}

	if failed {
		return fmt.Errorf("score: some pages could not be read")
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"markcheck/internal/driver"
	"markcheck/internal/observ"
)

func printCheckTimings(out io.Writer, results []driver.CheckResult) {
	if out == nil {
		return
	}
	var reports []observ.Report
	for _, r := range results {
		switch {
		case r.Err != nil:
			continue
		case r.Cached:
			fmt.Fprintf(out, "%s cached\n", r.Path)
			continue
		}
		printReport(out, r.Path, r.Timings)
		reports = append(reports, r.Timings)
	}
	if len(reports) > 1 {
		printReport(out, "total", observ.Sum(reports...))
	}
}

func printReport(out io.Writer, label string, report observ.Report) {
	fmt.Fprintf(out, "%s %.1f ms\n", label, report.TotalMS)
	for _, phase := range report.Phases {
		if phase.Note != "" {
			fmt.Fprintf(out, "  %-10s %.2f ms (%s)\n", phase.Name, phase.DurationMS, phase.Note)
			continue
		}
		fmt.Fprintf(out, "  %-10s %.2f ms\n", phase.Name, phase.DurationMS)
	}
}

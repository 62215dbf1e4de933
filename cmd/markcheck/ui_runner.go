package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"markcheck/internal/driver"
	"markcheck/internal/source"
	"markcheck/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs the check in the background while the progress model
// renders its events. files must be the already collected page list.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckPaths(ctx, files, optsCopy)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/diag"
	"markcheck/internal/driver"
	"markcheck/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|directory>",
	Short: "Apply available fixes to a page or a directory of pages",
	Long: `Run the checks, surface available fixes, and apply them according to the
chosen strategy. Pages rendered from markdown are never rewritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all non-conflicting fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	opts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// id уникален только в пределах одного файла
	if info.IsDir() && targetID != "" {
		return fmt.Errorf("fix: id can only be used with a single file")
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fs, results, err := driver.CheckPaths(cmd.Context(), []string{targetPath}, driver.CheckOptions{
		Engine:     loaded.Config.EngineOptions(),
		Jobs:       loaded.Config.Check.Jobs,
		Extensions: loaded.Config.Check.Extensions,
	})
	if err != nil {
		return fmt.Errorf("fix: check failed: %w", err)
	}

	allDiagnostics := make([]diag.Diagnostic, 0)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "fix: %s: %v\n", r.Path, r.Err)
			continue
		}
		allDiagnostics = append(allDiagnostics, r.Diagnostics...)
	}

	res, applyErr := fix.Apply(fs, allDiagnostics, opts)
	return handleApplyResult(res, applyErr)
}

func handleApplyResult(res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}
	var printErr error

	if len(res.Applied) > 0 {
		_, printErr = fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		if printErr != nil {
			return printErr
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			_, printErr = fmt.Fprintf(os.Stdout, "  %s [%s]: %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Rule)
			if printErr != nil {
				return printErr
			}
		}
	}

	if len(res.FileChanges) > 0 {
		_, printErr = fmt.Fprintln(os.Stdout, "Updated files:")
		if printErr != nil {
			return printErr
		}
		for _, change := range res.FileChanges {
			_, printErr = fmt.Fprintf(os.Stdout, "  %s (%d edits)\n", change.Path, change.EditCount)
			if printErr != nil {
				return printErr
			}
		}
	}

	if len(res.Skipped) > 0 {
		_, printErr = fmt.Fprintln(os.Stdout, "Skipped fixes:")
		if printErr != nil {
			return printErr
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				_, printErr = fmt.Fprintf(os.Stdout, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, printErr = fmt.Fprintf(os.Stdout, "  [%s]: %s\n", id, skip.Reason)
			}
			if printErr != nil {
				return printErr
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, printErr = fmt.Fprintln(os.Stdout, "No applicable fixes found.")
			return printErr
		}
		return applyErr
	}

	if len(res.Applied) == 0 {
		_, printErr = fmt.Fprintln(os.Stdout, "No fixes applied.")
		return printErr
	}
	return nil
}

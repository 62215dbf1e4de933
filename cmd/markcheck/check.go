package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/diag"
	"markcheck/internal/diagfmt"
	"markcheck/internal/driver"
	"markcheck/internal/source"
	"markcheck/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Check pages for tag balance, accessibility and SEO problems",
	Long: `Check validates every page under the given files or directories (default:
the current directory). Markdown pages are rendered before checking.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0 = [check].jobs or auto)")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "preview fix edits in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().String("path-mode", "", "path style (auto|absolute|relative|basename); overrides --fullpath")
	checkCmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

// checkRun is what runCheck and scoreCmd share.
type checkRun struct {
	fs      *source.FileSet
	results []driver.CheckResult
}

func executeCheck(cmd *cobra.Command, args []string, title string) (*checkRun, error) {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	jobs := loaded.Config.Check.Jobs
	if cmd.Flags().Lookup("jobs") != nil && cmd.Flags().Changed("jobs") {
		if jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	opts := driver.CheckOptions{
		Engine:     loaded.Config.EngineOptions(),
		Jobs:       jobs,
		Extensions: loaded.Config.Check.Extensions,
	}

	if flag := cmd.Flags().Lookup("cache"); flag != nil {
		enabled, err := cmd.Flags().GetBool("cache")
		if err != nil {
			return nil, err
		}
		if enabled {
			cache, err := driver.OpenDiskCache("markcheck")
			if err != nil {
				return nil, fmt.Errorf("open cache: %w", err)
			}
			opts.Cache = cache
		}
	}

	mode := uiModeOff
	if flag := cmd.Flags().Lookup("ui"); flag != nil {
		if mode, err = readUIMode(flag.Value.String()); err != nil {
			return nil, err
		}
	}

	var (
		fs      *source.FileSet
		results []driver.CheckResult
	)
	if shouldUseTUI(mode) {
		files, err := driver.CollectFiles(cmd.Context(), paths, opts.Extensions)
		if err != nil {
			return nil, err
		}
		fs, results, err = runCheckWithUI(cmd.Context(), title, files, opts)
		if err != nil {
			return nil, err
		}
	} else {
		fs, results, err = driver.CheckPaths(cmd.Context(), paths, opts)
		if err != nil {
			return nil, err
		}
	}
	return &checkRun{fs: fs, results: results}, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathModeFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	switch format {
	case "pretty", "json", "sarif", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if format != "pretty" {
		// прогресс-бар испортил бы машиночитаемый вывод
		_ = cmd.Flags().Set("ui", "off")
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := executeCheck(cmd, args, "checking pages")
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) {
			return fmt.Errorf("check: %w", err)
		}
		return err
	}

	bag := diag.NewBag(0)
	loadFailed := false
	for _, r := range run.results {
		if r.Err != nil {
			loadFailed = true
			fmt.Fprintf(os.Stderr, "check: %s: %v\n", r.Path, r.Err)
			continue
		}
		for _, d := range r.Diagnostics {
			bag.Add(d)
		}
	}
	if noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity == diag.SevError })
	}
	bag.Sort()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if pathModeFlag != "" {
		mode, ok := diagfmt.ParsePathMode(pathModeFlag)
		if !ok {
			return errUnknownValue("path-mode", pathModeFlag)
		}
		pathMode = mode
	}
	showFixes := suggest || preview

	switch format {
	case "pretty":
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, bag, run.fs, diagfmt.PrettyOpts{
			Color:       color,
			Context:     2,
			PathMode:    pathMode,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "short":
		if output := diag.FormatShortDiagnostics(bag.Items(), run.fs); output != "" {
			fmt.Fprintln(os.Stdout, output)
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, run.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(os.Stdout, bag, run.fs, diagfmt.SarifRunMeta{
			ToolName:       "markcheck",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}

	if showTimings {
		printCheckTimings(os.Stderr, run.results)
	}

	if loadFailed {
		return fmt.Errorf("check: some pages could not be read")
	}
	if bag.HasErrors() || (warningsAsErrors && bag.HasWarnings()) {
		return fmt.Errorf("check: problems found")
	}
	return nil
}

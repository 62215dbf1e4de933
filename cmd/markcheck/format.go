package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/driver"
	"markcheck/internal/format"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format HTML page sources",
	Long: `Fmt re-indents markup with [format].indent spaces (or tabs). Markdown
sources are reported as skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted markup to stdout instead of rewriting files")
	fmtCmd.Flags().Int("indent", 0, "spaces per nesting level (0 = [format].indent)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return reportFmtError(fmt.Errorf("fmt: --stdout cannot be used with --check"))
	}
	if writeToStdout && outputFormat != "text" {
		return reportFmtError(fmt.Errorf("fmt: --stdout is only supported with text output"))
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	loaded, err := loadConfig(cmd)
	if err != nil {
		return reportFmtError(err)
	}

	opts := format.Options{IndentWidth: loaded.Config.Format.Indent, UseTabs: loaded.Config.Format.UseTabs}
	if indent > 0 {
		opts.IndentWidth = indent
	}

	formatResults, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:      check,
		Options:    opts,
		Stdout:     writeToStdout,
		Extensions: loaded.Config.Check.Extensions,
	})
	if err != nil {
		return reportFmtError(fmt.Errorf("fmt: %w", err))
	}

	var hasErrors bool
	var hasChanges bool

	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(formatResults, &hasErrors)
			if hasErrors {
				return reportFmtError(fmt.Errorf("fmt: failed to format some files"))
			}
			return nil
		}
		renderFmtText(formatResults, check, quiet, &hasErrors, &hasChanges)
	case "json":
		if err := renderFmtJSON(formatResults, check); err != nil {
			return err
		}
		for _, res := range formatResults {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	default:
		return reportFmtError(fmt.Errorf("fmt: unsupported output format %q", outputFormat))
	}

	if hasErrors {
		return reportFmtError(fmt.Errorf("fmt: failed to format some files"))
	}
	if check && hasChanges {
		return reportFmtError(fmt.Errorf("fmt: formatting changes required"))
	}
	return nil
}

// reportFmtError печатает ошибку сам: fmt глушит вывод cobra
func reportFmtError(err error) error {
	fmt.Fprintln(os.Stderr, err)
	return err
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Skipped {
			continue
		}
		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(results []driver.FormatResult, check, quiet bool, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Skipped {
			if !quiet {
				fmt.Fprintf(os.Stderr, "skipped %s (markdown)\n", res.Path)
			}
			continue
		}

		if check {
			if res.Changed {
				*hasChanges = true
				if !quiet {
					_, printErr := fmt.Fprintln(os.Stdout, res.Path)
					if printErr != nil {
						panic(printErr)
					}
				}
			}
			continue
		}

		if res.Changed && !quiet {
			_, printErr := fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path)
			if printErr != nil {
				panic(printErr)
			}
		}
	}
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Skipped  bool   `json:"skipped,omitempty"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, Skipped: res.Skipped, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"markcheck/internal/diag"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags]",
	Short: "List the rules with their effective severity",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := loaded.Config.EngineOptions()

	rows := make([]ruleRow, 0, len(diag.Rules()))
	for _, info := range diag.Rules() {
		sev := info.Severity
		if override, ok := opts.Severity[info.ID]; ok {
			sev = override
		}
		rows = append(rows, ruleRow{
			ID:       string(info.ID),
			Severity: sev.Label(),
			Enabled:  !slices.Contains(opts.Disabled, info.ID),
			Title:    info.Title,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty":
	default:
		return errUnknownValue("format", format)
	}

	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r.ID))
	}
	for _, r := range rows {
		state := r.Severity
		if !r.Enabled {
			state = "off"
		}
		fmt.Fprintf(os.Stdout, "%s  %-7s  %s\n", runewidth.FillRight(r.ID, width), state, r.Title)
	}
	return nil
}

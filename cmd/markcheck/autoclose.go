package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var autocloseCmd = &cobra.Command{
	Use:   "autoclose [flags] [prefix]",
	Short: "Propose the closing tag for the text before the cursor",
	Long: `Autoclose reads the text before the cursor (the argument, or stdin with
--stdin) and prints the proposed insertion as JSON, or null when nothing
should be inserted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAutoClose,
}

func init() {
	autocloseCmd.Flags().Bool("stdin", false, "read the prefix from stdin")
}

func runAutoClose(cmd *cobra.Command, args []string) error {
	fromStdin, err := cmd.Flags().GetBool("stdin")
	if err != nil {
		return fmt.Errorf("failed to get stdin flag: %w", err)
	}

	var prefix string
	switch {
	case fromStdin && len(args) > 0:
		return fmt.Errorf("autoclose: --stdin cannot be combined with a prefix argument")
	case fromStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("autoclose: read stdin: %w", err)
		}
		prefix = string(data)
	case len(args) == 1:
		prefix = args[0]
	default:
		return fmt.Errorf("autoclose: a prefix argument or --stdin is required")
	}

	eng, _, err := engineFor(cmd)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	proposal, ok := eng.ProposeAutoClose(prefix)
	if !ok {
		return enc.Encode(nil)
	}
	return enc.Encode(proposal)
}

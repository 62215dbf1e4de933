package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"markcheck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default .markcheck.toml",
	Long: `Init writes .markcheck.toml with the default settings and every rule's
severity spelled out. If [dir] is omitted, the current directory is used;
a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := config.WriteDefault(target, force)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Clean(path))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"markcheck/internal/config"
	"markcheck/internal/engine"
)

func errUnknownValue(flag, value string) error {
	return fmt.Errorf("unknown --%s value %q", flag, value)
}

// loadConfig finds the project settings. --config wins over discovery;
// --max-diagnostics overrides the file when given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Loaded, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	var loaded *config.Loaded
	if path != "" {
		loaded, err = config.Load(path)
	} else {
		loaded, err = config.Discover(".")
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if flags.Changed("max-diagnostics") {
		maxDiagnostics, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return nil, err
		}
		if maxDiagnostics < 0 {
			return nil, fmt.Errorf("--max-diagnostics must be >= 0")
		}
		loaded.Config.Check.MaxDiagnostics = maxDiagnostics
	}
	return loaded, nil
}

// engineFor builds an engine from the project settings.
func engineFor(cmd *cobra.Command) (*engine.Engine, *config.Loaded, error) {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(loaded.Config.EngineOptions()), loaded, nil
}

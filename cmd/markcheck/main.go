package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"markcheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "markcheck",
	Short: "Markup checker, scorer and formatter for CMS page sources",
	Long: `markcheck validates tag balance, reports accessibility and SEO problems,
scores pages and formats markup. It also serves the editor widget over HTTP.`,
	SilenceUsage: true,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(autocloseCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(rulesCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per page (0 = unlimited)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")
	rootCmd.PersistentFlags().String("config", "", "path to .markcheck.toml (default: search upward from the working directory)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the stream the output goes to.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	}
	return false, errUnknownValue("color", colorFlag)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/diagfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file|->",
	Short: "Print the token stream of a page",
	Long:  `Tokenize breaks a page into open, close, self-closing, text and comment tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("markdown", false, "treat stdin as markdown")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return fmt.Errorf("failed to get markdown flag: %w", err)
	}

	eng, _, err := engineFor(cmd)
	if err != nil {
		return err
	}
	fs, f, err := loadInput(args[0], asMarkdown)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	tokens := eng.Tokenize(string(f.Content))

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, tokens, fs)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"markcheck/internal/markdown"
	"markcheck/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [flags] <file|->",
	Short: "Print the formatted, sanitized markup a page renders to",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().String("source", "", "buffer language (html|markdown); default from the file extension")
}

func runPreview(cmd *cobra.Command, args []string) error {
	sourceFlag, err := cmd.Flags().GetString("source")
	if err != nil {
		return fmt.Errorf("failed to get source flag: %w", err)
	}

	src := preview.SourceHTML
	if sourceFlag != "" {
		if src, err = preview.ParseSource(sourceFlag); err != nil {
			return err
		}
	} else if markdown.IsMarkdownPath(args[0]) {
		src = preview.SourceMarkdown
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		// #nosec G304 -- path is provided by the caller
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	eng, _, err := engineFor(cmd)
	if err != nil {
		return err
	}
	out, err := preview.Render(eng, string(data), src)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	_, err = io.WriteString(os.Stdout, out)
	return err
}

package driver

import (
	"bytes"
	"context"
	"os"

	"markcheck/internal/format"
	"markcheck/internal/markdown"
	"markcheck/internal/source"
)

// FormatOptions configures markup formatting.
type FormatOptions struct {
	Check      bool
	Options    format.Options
	Stdout     bool
	Extensions []string
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Skipped   bool // markdown-источники не форматируются
	Err       error
	Formatted []byte
}

// FormatPaths formats provided files or directories. When opts.Check is
// true, files are not modified; Changed indicates whether formatting would
// update the file contents. When opts.Stdout is true, formatted content is
// returned in the results without touching files on disk. Markdown sources
// are reported as skipped: their markup only exists after rendering.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := collectFiles(ctx, paths, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := FormatResult{Path: path}
		if markdown.IsMarkdownPath(path) {
			result.Skipped = true
			results = append(results, result)
			continue
		}
		formatted, changed, err := formatSingleFile(path, opts.Options)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		if opts.Check {
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if opts.Stdout {
			result.Formatted = formatted
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if changed {
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
				result.Err = err
			} else {
				result.Changed = true
			}
		}
		results = append(results, result)
	}

	return results, nil
}

func formatSingleFile(path string, opt format.Options) (formatted []byte, changed bool, err error) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, false, err
	}
	sf := fileSet.Get(fileID)

	formatted, err = format.FormatFile(sf, opt)
	if err != nil {
		return nil, false, err
	}
	return formatted, !bytes.Equal(sf.Content, formatted), nil
}

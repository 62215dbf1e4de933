package main

import (
	"fmt"
	"io"
	"os"

	"markcheck/internal/markdown"
	"markcheck/internal/source"
)

// loadInput reads a single page: a file path or "-" for stdin. Markdown pages
// are rendered so the result is always markup.
func loadInput(path string, stdinMarkdown bool) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		if stdinMarkdown {
			if data, err = markdown.Render(data); err != nil {
				return nil, nil, err
			}
		}
		id := fs.AddVirtual("<stdin>", data)
		return fs, fs.Get(id), nil
	}

	if !markdown.IsMarkdownPath(path) {
		id, err := fs.Load(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Get(id), nil
	}

	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	rendered, err := markdown.Render(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	id := fs.Add(path, rendered, source.FileRendered)
	return fs, fs.Get(id), nil
}

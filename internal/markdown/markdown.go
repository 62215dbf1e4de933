// Package markdown turns markdown page sources into markup for checking and
// preview.
package markdown

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// renderer converts page sources written in markdown. Raw markup inside the
// page is passed through so the checker sees what the browser would get.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render converts a markdown page source to markup.
func Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// IsMarkdownPath reports whether path names a markdown page source.
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

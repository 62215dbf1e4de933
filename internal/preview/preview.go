// Package preview produces the sanitized markup shown in the editor's preview
// pane.
package preview

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"markcheck/internal/engine"
	"markcheck/internal/markdown"
)

// Source names the language of an editor buffer.
type Source string

const (
	SourceHTML     Source = "html"
	SourceMarkdown Source = "markdown"
)

// ParseSource accepts html (default when empty), markdown and md.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html", "htm":
		return SourceHTML, nil
	case "markdown", "md":
		return SourceMarkdown, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// policy is shared: bluemonday policies are safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

// Markup returns the markup a buffer stands for: markdown is rendered, html
// is passed through.
func Markup(text string, src Source) (string, error) {
	if src != SourceMarkdown {
		return text, nil
	}
	out, err := markdown.Render([]byte(text))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Render formats the buffer's markup with eng and sanitizes the result.
func Render(eng *engine.Engine, text string, src Source) (string, error) {
	markup, err := Markup(text, src)
	if err != nil {
		return "", err
	}
	return Sanitize(eng.Format(markup)), nil
}

// Sanitize strips scripts, event handlers and other unsafe markup.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}

package token

import (
	"markcheck/internal/source"
)

// Token represents a single markup token with its location.
type Token struct {
	Kind Kind
	Name string // lower-case tag name, only for tag kinds
	Span source.Span
	Text string
	// Opaque marks the raw body of script/style elements.
	Opaque bool
}

// IsOpen reports whether the token opens an element that expects a closer.
func (t Token) IsOpen() bool { return t.Kind == Open }

// IsHeading reports whether the tag is h1..h6 and returns its level.
func (t Token) IsHeading() (int, bool) {
	if !t.Kind.IsTag() || len(t.Name) != 2 || t.Name[0] != 'h' {
		return 0, false
	}
	if lvl := int(t.Name[1] - '0'); lvl >= 1 && lvl <= 6 {
		return lvl, true
	}
	return 0, false
}

// IsWhitespace reports whether a Text token carries only whitespace.
func (t Token) IsWhitespace() bool {
	if t.Kind != Text {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		switch t.Text[i] {
		case ' ', '\t', '\n', '\r', '\f':
		default:
			return false
		}
	}
	return true
}

// Package autoclose proposes a closing tag right after the user types the
// '>' of an opening tag. It looks only at the tag under the cursor and never
// consults the rest of the document.
package autoclose

import (
	"strings"

	"markcheck/internal/lexer"
	"markcheck/internal/source"
	"markcheck/internal/token"
)

// MaxLookBack bounds how far before the cursor the opening '<' may be.
const MaxLookBack = 2048

// Proposal is an edit for the host editor: insert InsertText at CursorOffset
// and leave the cursor at CursorOffset.
type Proposal struct {
	InsertText   string `json:"insert_text"`
	CursorOffset int    `json:"cursor_offset"`
}

// Propose inspects prefix, the text up to and including a just-typed '>'.
func Propose(prefix string) (Proposal, bool) {
	if !strings.HasSuffix(prefix, ">") {
		return Proposal{}, false
	}
	floor := max(0, len(prefix)-MaxLookBack)
	for i := len(prefix) - 2; i >= floor; i-- {
		if prefix[i] != '<' {
			continue
		}
		tok, ok := tagAt(prefix[i:])
		if !ok {
			// '<' внутри значения атрибута: ищем дальше влево
			continue
		}
		if tok.Kind != token.Open {
			return Proposal{}, false
		}
		return Proposal{
			InsertText:   "</" + tok.Name + ">",
			CursorOffset: len(prefix),
		}, true
	}
	return Proposal{}, false
}

// tagAt reports the tag that starts at s[0] and ends exactly at the end of s.
func tagAt(s string) (token.Token, bool) {
	f := source.NewFile("", []byte(s))
	tok, ok := lexer.New(f).Next()
	if !ok || !tok.Kind.IsTag() || tok.Span.End != f.Len() {
		return token.Token{}, false
	}
	return tok, true
}

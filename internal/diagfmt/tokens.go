package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"markcheck/internal/source"
	"markcheck/internal/token"
)

type TokenOutput struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Text   string `json:"text"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Opaque bool   `json:"opaque,omitempty"`
}

// TokensOutput converts tokens into their serialisable form.
func TokensOutput(tokens []token.Token) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{
			Kind:   tok.Kind.String(),
			Name:   tok.Name,
			Text:   tok.Text,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Opaque: tok.Opaque,
		})
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Name != "" {
			fmt.Fprintf(w, " <%s>", tok.Name)
		}
		fmt.Fprintf(w, " %q at %d:%d-%d:%d", tok.Text, startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Opaque {
			fmt.Fprint(w, " (opaque)")
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(TokensOutput(tokens))
}

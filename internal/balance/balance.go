// Package balance checks that opening and closing tags pair up.
//
// The check is deliberately permissive: a closer that matches a frame deeper
// in the stack pops that frame together with everything above it, and the
// popped intermediate frames are not reported. Only closers with no matching
// frame at all, and frames still open at the end of the document, produce
// diagnostics.
package balance

import (
	"fmt"

	"markcheck/internal/diag"
	"markcheck/internal/source"
	"markcheck/internal/token"
)

type frame struct {
	name string
	span source.Span
}

// Check walks tokens and reports unmatched closers and unclosed openers.
// end is the document length; insert-closer fixes are anchored there.
func Check(tokens []token.Token, end source.Span, r diag.Reporter) {
	stack := make([]frame, 0, 16)

	for _, tok := range tokens {
		switch tok.Kind {
		case token.Open:
			if token.IsSelfClosing(tok.Name) {
				continue
			}
			stack = append(stack, frame{name: tok.Name, span: tok.Span})

		case token.Close:
			idx := lastIndex(stack, tok.Name)
			if idx < 0 {
				diag.ReportError(r, diag.RuleUnmatchedClosingTag, tok.Span,
					fmt.Sprintf("closing tag </%s> has no matching opening tag", tok.Name)).
					WithSuggestion(fmt.Sprintf("remove </%s> or add a matching <%s>", tok.Name, tok.Name)).
					Emit()
				continue
			}
			// промежуточные фреймы выбрасываются молча
			stack = stack[:idx]
		}
	}

	// незакрытые: от внутреннего к внешнему, чтобы фиксы вставлялись в правильном порядке
	insertAt := source.Span{File: end.File, Start: end.End, End: end.End}
	for i := len(stack) - 1; i >= 0; i-- {
		f := stack[i]
		closer := "</" + f.name + ">"
		diag.ReportWarning(r, diag.RuleUnclosedTag, f.span,
			fmt.Sprintf("<%s> is never closed", f.name)).
			WithSuggestion("add " + closer).
			WithFix("insert "+closer, diag.FixEdit{Span: insertAt, NewText: closer}).
			Emit()
	}
}

// lastIndex ищет фрейм с именем name сверху вниз.
func lastIndex(stack []frame, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

package diag

import (
	"markcheck/internal/source"
)

// FixEdit replaces Span with NewText. An empty span is an insertion.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a data-only correction attached to a diagnostic.
type Fix struct {
	ID    string
	Title string
	Edits []FixEdit
}

// Diagnostic is a single reported issue. Pos is filled from Primary when the
// bag is resolved against its file.
type Diagnostic struct {
	Severity   Severity
	Rule       Rule
	Message    string
	Suggestion string
	Primary    source.Span
	Pos        source.LineCol
	Fixes      []Fix
}

func New(sev Severity, rule Rule, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

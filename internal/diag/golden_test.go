package diag

import (
	"testing"

	"markcheck/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	page := fs.Add("/workspace/pages/about.html", []byte("<div>\n<p>x</p></p>\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Rule:     RuleUnmatchedClosingTag,
			Message:  "closing tag </p> has no\nmatching opening tag",
			Primary:  source.Span{File: page, Start: 14, End: 18},
		},
		{
			Severity: SevWarning,
			Rule:     RuleUnclosedTag,
			Message:  "<div> is never closed",
			Primary:  source.Span{File: page, Start: 0, End: 5},
		},
	}

	expected := "warning unclosed-tag pages/about.html:1:1 <div> is never closed\n" +
		"error unmatched-closing-tag pages/about.html:2:9 closing tag </p> has no matching opening tag"

	if got := FormatShortDiagnostics(diags, fs); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatResolved(t *testing.T) {
	diags := []Diagnostic{{
		Severity: SevInfo,
		Rule:     RuleInlineStyles,
		Message:  "6 inline styles",
		Pos:      source.LineCol{Line: 1, Col: 1},
	}}
	if got, want := FormatResolved("./buffer.html", diags), "info inline-styles-performance buffer.html:1:1 6 inline styles"; got != want {
		t.Fatalf("FormatResolved = %q, want %q", got, want)
	}
}

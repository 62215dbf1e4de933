package lint_test

import (
	"strings"
	"testing"

	"markcheck/internal/diag"
	"markcheck/internal/lexer"
	"markcheck/internal/lint"
	"markcheck/internal/source"
	"markcheck/internal/survey"
)

func run(input string, opts lint.Options) []diag.Diagnostic {
	f := source.NewFile("t.html", []byte(input))
	bag := diag.NewBag(0)
	lint.Check(f, survey.Collect(lexer.Tokenize(f)), opts, diag.BagReporter{Bag: bag})
	bag.Resolve(f)
	return bag.Items()
}

func byRule(diags []diag.Diagnostic, rule diag.Rule) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

const shell = "<!DOCTYPE html>\n"

func TestDoctypeRequired(t *testing.T) {
	got := byRule(run("<p>x</p>", lint.Options{}), diag.RuleDoctypeRequired)
	if len(got) != 1 {
		t.Fatalf("expected doctype-required, got %d", len(got))
	}
	if got[0].Pos != (source.LineCol{Line: 1, Col: 1}) || got[0].Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %+v", got[0])
	}
	for _, in := range []string{shell + "<p>x</p>", "<html><p>x</p></html>"} {
		if got := byRule(run(in, lint.Options{}), diag.RuleDoctypeRequired); len(got) != 0 {
			t.Fatalf("%q: unexpected doctype-required", in)
		}
	}
}

func TestImgAltRequired(t *testing.T) {
	got := byRule(run(shell+`<p>a</p><img src="a.png"><img src="b.png">`, lint.Options{}), diag.RuleImgAltRequired)
	if len(got) != 1 {
		t.Fatalf("expected exactly one img-alt-required, got %d", len(got))
	}
	if got[0].Pos != (source.LineCol{Line: 2, Col: 9}) {
		t.Fatalf("Pos = %+v, want 2:9", got[0].Pos)
	}
	edit := got[0].Fixes[0].Edits[0]
	if edit.NewText != ` alt=""` || edit.Span.Start != uint32(len(shell)+8+4) {
		t.Fatalf("unexpected fix edit %+v", edit)
	}

	if got := byRule(run(shell+`<img src="a.png"><img src="b.png" alt="b">`, lint.Options{}), diag.RuleImgAltRequired); len(got) != 0 {
		t.Fatalf("alt anywhere should silence the rule")
	}
}

func TestLinkAccessibility(t *testing.T) {
	got := byRule(run(shell+`<a href="#">x</a>`, lint.Options{}), diag.RuleLinkAccessibility)
	if len(got) != 1 || got[0].Pos.Line != 2 || got[0].Pos.Col != 1 {
		t.Fatalf("unexpected %+v", got)
	}
	if got := byRule(run(shell+`<a href="#top">x</a>`, lint.Options{}), diag.RuleLinkAccessibility); len(got) != 0 {
		t.Fatalf("only href exactly # counts")
	}
}

func TestHeadingHierarchy(t *testing.T) {
	got := byRule(run(shell+"<h1>A</h1><h3>B</h3><h6>C</h6>", lint.Options{}), diag.RuleHeadingHierarchy)
	if len(got) != 1 {
		t.Fatalf("expected one heading-hierarchy, got %d", len(got))
	}
	if !strings.Contains(got[0].Message, "h1") || !strings.Contains(got[0].Message, "h3") {
		t.Fatalf("message should name both levels: %q", got[0].Message)
	}
	if got[0].Pos.Col != 11 {
		t.Fatalf("Pos = %+v, want column of the second heading", got[0].Pos)
	}
	if got := byRule(run(shell+"<h1>A</h1><h2>B</h2><h3>C</h3>", lint.Options{}), diag.RuleHeadingHierarchy); len(got) != 0 {
		t.Fatalf("no violation expected")
	}
}

func TestInlineStyles(t *testing.T) {
	six := shell + strings.Repeat(`<span style="color:red">x</span>`, 6)
	got := byRule(run(six, lint.Options{}), diag.RuleInlineStyles)
	if len(got) != 1 || got[0].Severity != diag.SevInfo {
		t.Fatalf("expected one info diagnostic, got %+v", got)
	}
	if !strings.Contains(got[0].Message, "6") {
		t.Fatalf("message should cite the count: %q", got[0].Message)
	}
	five := shell + strings.Repeat(`<span style="color:red">x</span>`, 5)
	if got := byRule(run(five, lint.Options{}), diag.RuleInlineStyles); len(got) != 0 {
		t.Fatalf("five styles are within the default limit")
	}
	if got := byRule(run(six, lint.Options{InlineStyleLimit: 10}), diag.RuleInlineStyles); len(got) != 0 {
		t.Fatalf("custom limit should be honored")
	}
}

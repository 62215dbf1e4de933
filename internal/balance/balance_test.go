package balance_test

import (
	"testing"

	"markcheck/internal/balance"
	"markcheck/internal/diag"
	"markcheck/internal/lexer"
	"markcheck/internal/source"
)

func check(t *testing.T, input string) []diag.Diagnostic {
	t.Helper()
	f := source.NewFile("t.html", []byte(input))
	bag := diag.NewBag(0)
	balance.Check(lexer.Tokenize(f), f.Span(0, f.Len()), diag.BagReporter{Bag: bag})
	bag.Resolve(f)
	return bag.Items()
}

func rules(diags []diag.Diagnostic) []diag.Rule {
	out := make([]diag.Rule, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Rule)
	}
	return out
}

func TestUnclosedDiv(t *testing.T) {
	diags := check(t, "<div><p>x</p>")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", rules(diags))
	}
	d := diags[0]
	if d.Rule != diag.RuleUnclosedTag || d.Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Suggestion != "add </div>" || d.Message != "<div> is never closed" {
		t.Fatalf("diagnostic should name div: %+v", d)
	}
	if d.Pos != (source.LineCol{Line: 1, Col: 1}) {
		t.Fatalf("Pos = %+v, want 1:1", d.Pos)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "</div>" || d.Fixes[0].Edits[0].Span.Start != 13 {
		t.Fatalf("unexpected fix %+v", d.Fixes)
	}
}

func TestUnmatchedCloser(t *testing.T) {
	diags := check(t, "<p>x</p></p>")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", rules(diags))
	}
	d := diags[0]
	if d.Rule != diag.RuleUnmatchedClosingTag || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Primary.Start != 8 || d.Pos.Col != 9 {
		t.Fatalf("should point at the second </p>: %+v", d)
	}
}

func TestSelfClosingExempt(t *testing.T) {
	for _, in := range []string{`<img src="a.png">`, "<br><hr/><input>", "<IMG src=x>", "<br></br>"} {
		diags := check(t, in)
		// "</br>" не имеет пары, это честный unmatched
		if in == "<br></br>" {
			if len(diags) != 1 || diags[0].Rule != diag.RuleUnmatchedClosingTag {
				t.Fatalf("%q: got %v", in, rules(diags))
			}
			continue
		}
		if len(diags) != 0 {
			t.Fatalf("%q: expected no balance diagnostics, got %v", in, rules(diags))
		}
	}
}

func TestPermissiveNestedMismatch(t *testing.T) {
	// </div> закрывает div вместе с незакрытыми span и b без ошибок
	if diags := check(t, "<div><span><b>x</div>"); len(diags) != 0 {
		t.Fatalf("expected intermediate frames to be dropped silently, got %v", rules(diags))
	}
}

func TestCaseInsensitiveMatch(t *testing.T) {
	if diags := check(t, "<DIV>x</div>"); len(diags) != 0 {
		t.Fatalf("got %v", rules(diags))
	}
}

func TestMultipleUnclosedInnermostFirst(t *testing.T) {
	diags := check(t, "<main>\n<section>\n<article>")
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", rules(diags))
	}
	want := []string{"add </article>", "add </section>", "add </main>"}
	for i, d := range diags {
		if d.Suggestion != want[i] {
			t.Fatalf("diagnostic %d suggestion = %q, want %q", i, d.Suggestion, want[i])
		}
	}
}

func TestCommentsAndTextIgnored(t *testing.T) {
	if diags := check(t, "<!-- <div> -->text </ not a tag"); len(diags) != 0 {
		t.Fatalf("got %v", rules(diags))
	}
}

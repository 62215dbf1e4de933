package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"markcheck/internal/diag"
	"markcheck/internal/engine"
	"markcheck/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.html", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Rule:    diag.RuleDoctypeRequired,
		Message: "missing doctype",
		Primary: span,
		Fixes: []diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "insert doctype",
				Edits: []diag.FixEdit{{Span: span, NewText: "<!DOCTYPE html>\n"}},
			},
			{
				ID:    "fix-duplicate",
				Title: "insert doctype again",
				Edits: []diag.FixEdit{{Span: span, NewText: "<!DOCTYPE html>\n"}},
			},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip %+v", skips[0])
	}
}

func rewrite(t *testing.T, text string, opts ApplyOptions) (string, *ApplyResult, error) {
	t.Helper()
	f := source.NewFile("page.html", []byte(text))
	diags := engine.New(engine.Options{}).ValidateFile(f)
	out, res, err := Rewrite(f, diags, opts)
	return string(out), res, err
}

func TestRewriteAllClosesInnermostFirst(t *testing.T) {
	got, res, err := rewrite(t, "<!DOCTYPE html>\n<main><section><article>x", ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := "<!DOCTYPE html>\n<main><section><article>x</article></section></main>"
	if got != want {
		t.Fatalf("want %q\ngot  %q", want, got)
	}
	if len(res.Applied) != 3 {
		t.Fatalf("applied = %d, want 3", len(res.Applied))
	}
	// повторная проверка чистая
	if diags := engine.New(engine.Options{}).Validate(got); len(diags) != 0 {
		t.Fatalf("fixed document still has diagnostics: %+v", diags)
	}
}

func TestRewriteAllMixedFixes(t *testing.T) {
	got, _, err := rewrite(t, `<div><img src="a.png">`, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	want := "<!DOCTYPE html>\n<div><img alt=\"\" src=\"a.png\"></div>"
	if got != want {
		t.Fatalf("want %q\ngot  %q", want, got)
	}
}

func TestRewriteOnce(t *testing.T) {
	got, res, err := rewrite(t, "<p>x", ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	// unclosed-tag и doctype-required стоят на 1:1; balance сообщает первым
	if got != "<p>x</p>" || len(res.Applied) != 1 {
		t.Fatalf("got %q with %d applied", got, len(res.Applied))
	}
}

func TestRewriteByID(t *testing.T) {
	f := source.NewFile("page.html", []byte("<p>x"))
	diags := engine.New(engine.Options{}).ValidateFile(f)
	var id string
	for _, d := range diags {
		if d.Rule == diag.RuleUnclosedTag {
			id = d.Rule.String() + "-0-0-0"
		}
	}
	out, _, err := Rewrite(f, diags, ApplyOptions{Mode: ApplyModeID, TargetID: id})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if string(out) != "<p>x</p>" {
		t.Fatalf("got %q", out)
	}

	_, res, err := Rewrite(f, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}

func TestRewriteNothingToFix(t *testing.T) {
	_, _, err := rewrite(t, "<!DOCTYPE html>\n<p>x</p>", ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplyWritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<!DOCTYPE html>\n<ul><li>a</li>"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	diags := engine.New(engine.Options{}).ValidateFile(fs.Get(id))

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].Path != "page.html" || res.FileChanges[0].EditCount != 1 {
		t.Fatalf("unexpected changes %+v", res.FileChanges)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<!DOCTYPE html>\n<ul><li>a</li></ul>" {
		t.Fatalf("file content = %q", data)
	}
}

func TestApplySkipsVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("buffer.html", []byte("<p>"))
	diags := engine.New(engine.Options{}).ValidateFile(fs.Get(id))
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	for _, s := range res.Skipped {
		if s.Reason != "target file is virtual" {
			t.Fatalf("unexpected skip reason %q", s.Reason)
		}
	}
}

func TestApplySkipsRenderedFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("page.md", []byte("<p>x"), source.FileRendered)
	diags := engine.New(engine.Options{}).ValidateFile(fs.Get(id))
	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) == 0 {
		t.Fatalf("expected skipped fixes")
	}
	for _, s := range res.Skipped {
		if s.Reason != "target file is rendered from markdown" {
			t.Fatalf("unexpected skip reason %q", s.Reason)
		}
	}
}

func TestSpansConflict(t *testing.T) {
	ins := func(at uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: at, End: at}} }
	rep := func(s, e uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: e}} }
	cases := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{ins(3), ins(3), false},
		{ins(3), rep(1, 5), true},
		{ins(5), rep(1, 5), false},
		{ins(1), rep(1, 5), false},
		{rep(1, 4), rep(3, 6), true},
		{rep(1, 3), rep(3, 6), false},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]ApplyMode{"once": ApplyModeOnce, "all": ApplyModeAll, "id": ApplyModeID, "": ApplyModeOnce} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("some"); err == nil {
		t.Fatalf("expected error")
	}
}

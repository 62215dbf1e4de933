package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"markcheck/internal/diag"
	"markcheck/internal/lexer"
	"markcheck/internal/score"
	"markcheck/internal/source"
)

func unclosedBag(fs *source.FileSet, fileID source.FileID) *diag.Bag {
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.RuleUnclosedTag,
		source.Span{File: fileID, Start: 7, End: 12}, "<div> is never closed").
		WithSuggestion("add </div>").
		WithFix("insert </div>", diag.FixEdit{Span: source.Span{File: fileID, Start: 17, End: 17}, NewText: "</div>"})
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/site/pages/index.html", []byte("<main>\n<div>x\n</main>"))
	fs.SetBaseDir("/home/user/site")
	bag := unclosedBag(fs, fileID)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/site/pages/index.html:2:1"},
		{"Relative path", PathModeRelative, "pages/index.html:2:1"},
		{"Basename only", PathModeBasename, "index.html:2:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			for _, want := range []string{"WARNING", "unclosed-tag", "<div> is never closed", "help: add </div>"} {
				if !strings.Contains(output, want) {
					t.Errorf("Expected %q in output:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrettyCaretAndContext(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.html", []byte("<main>\n<div>x\n</main>"))
	bag := unclosedBag(fs, fileID)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	want := "a.html:2:1: WARNING unclosed-tag: <div> is never closed\n" +
		"  1 | <main>\n" +
		"  2 | <div>x\n" +
		"    | ^~~~~\n" +
		"  3 | </main>\n" +
		"  help: add </div>\n"
	if got := buf.String(); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyWideRunesAlignCaret(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("日本<b>x")
	fileID := fs.AddVirtual("w.html", content)
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.RuleUnclosedTag, source.Span{File: fileID, Start: 6, End: 9}, "<b> is never closed"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	// два широких символа занимают четыре колонки
	if !strings.Contains(buf.String(), "  | "+strings.Repeat(" ", 4)+"^~~\n") {
		t.Fatalf("caret not aligned:\n%s", buf.String())
	}
}

func TestPrettyFixesAndPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.html", []byte("<main>\n<div>x\n</main>"))
	bag := unclosedBag(fs, fileID)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowFixes: true, ShowPreview: true})
	output := buf.String()
	for _, want := range []string{
		"fix #1: insert </div>",
		`apply="</div>" at 3:4`,
		"preview:",
		"- </main>",
		"+ </m</div>ain>",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.html", []byte("<main>\n<div>x\n</main>"))
	bag := unclosedBag(fs, fileID)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("unexpected count %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "warning" || d.Rule != "unclosed-tag" || d.Suggestion != "add </div>" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.File != "a.html" || d.Location.StartLine != 2 || d.Location.StartCol != 1 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "</div>" {
		t.Fatalf("unexpected fixes %+v", d.Fixes)
	}
}

func TestSarifOutput(t *testing.T) {
	fs := source.NewFileSetWithBase("/site")
	fileID := fs.AddVirtual("/site/a.html", []byte("<main>\n<div>x\n</main>"))
	bag := unclosedBag(fs, fileID)

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "0.1.0", InvocationArgs: []string{"check", "a.html"}}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "markcheck" || len(run.Tool.Driver.Rules) != len(diag.Rules()) {
		t.Fatalf("unexpected driver %+v", run.Tool.Driver)
	}
	if len(run.Results) != 1 {
		t.Fatalf("results = %d", len(run.Results))
	}
	res := run.Results[0]
	if res.RuleID != "unclosed-tag" || res.Level != "warning" {
		t.Fatalf("unexpected result %+v", res)
	}
	if run.Tool.Driver.Rules[res.RuleIndex].ID != "unclosed-tag" {
		t.Fatalf("ruleIndex points at %q", run.Tool.Driver.Rules[res.RuleIndex].ID)
	}
	loc := res.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "a.html" || loc.Region.StartLine != 2 || loc.Region.ByteLength != 5 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.html", []byte("<p>hi</p>"))
	tokens := lexer.Tokenize(fs.Get(fileID))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
		t.Fatal(err)
	}
	want := "  1: Open         <p> \"<p>\" at 1:1-1:4\n" +
		"  2: Text         \"hi\" at 1:4-1:6\n" +
		"  3: Close        <p> \"</p>\" at 1:6-1:10\n"
	if got := buf.String(); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0].Kind != "Open" || out[0].Name != "p" || out[2].End != 9 {
		t.Fatalf("unexpected tokens %+v", out)
	}
}

func TestFormatMetrics(t *testing.T) {
	items := []FileMetrics{{Path: "a.html", Metrics: score.Metrics{Lines: 1, Characters: 3, Readability: 100, Accessibility: 70, SEO: 0}}}
	var buf bytes.Buffer
	FormatMetricsPretty(&buf, items, false)
	for _, want := range []string{"a.html", "lines 1", "readability   100", "accessibility  70", "seo             0"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in:\n%s", want, buf.String())
		}
	}
}

func TestFixPreviewAppliesAllEdits(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.html", []byte("<main>\n<img src=a.png>\n"))
	fx := diag.Fix{Title: "two edits", Edits: []diag.FixEdit{
		{Span: source.Span{File: fileID, Start: 23, End: 23}, NewText: "</main>"},
		{Span: source.Span{File: fileID, Start: 11, End: 11}, NewText: ` alt=""`},
	}}
	pv, err := buildFixPreview(fs, fx)
	if err != nil {
		t.Fatalf("buildFixPreview: %v", err)
	}
	if len(pv.before) != 1 || pv.before[0] != "<img src=a.png>" {
		t.Fatalf("before = %q", pv.before)
	}
	if len(pv.after) != 2 || pv.after[0] != `<img alt="" src=a.png>` || pv.after[1] != "</main>" {
		t.Fatalf("after = %q", pv.after)
	}

	overlap := diag.Fix{Edits: []diag.FixEdit{
		{Span: source.Span{File: fileID, Start: 1, End: 4}},
		{Span: source.Span{File: fileID, Start: 2, End: 3}},
	}}
	if _, err := buildFixPreview(fs, overlap); err == nil {
		t.Fatalf("expected error for overlapping edits")
	}
}

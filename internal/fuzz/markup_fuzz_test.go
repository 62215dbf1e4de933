package fuzztests

import (
	"testing"

	"markcheck/internal/diag"
	"markcheck/internal/engine"
	"markcheck/internal/lexer"
	"markcheck/internal/markdown"
	"markcheck/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzTokenize(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file := source.NewFile("fuzz.html", clampSeed(input))
		size := uint32(len(file.Content)) // #nosec G115 -- clamped to maxSeedBytes
		var prev uint32
		for i, tok := range lexer.Tokenize(file) {
			if tok.Span.Start > tok.Span.End || tok.Span.End > size {
				t.Fatalf("token %d span %d..%d out of bounds (len %d)", i, tok.Span.Start, tok.Span.End, size)
			}
			if tok.Span.Start < prev {
				t.Fatalf("token %d starts at %d before previous token at %d", i, tok.Span.Start, prev)
			}
			prev = tok.Span.Start
		}
	})
}

func FuzzAnalyze(f *testing.F) {
	addCorpusSeeds(f)
	eng := engine.New(engine.Options{})
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		res := eng.Analyze(string(input))
		for _, d := range res.Diagnostics {
			if d.Rule == diag.RuleInternalError {
				t.Fatalf("analysis panicked: %s", d.Message)
			}
		}
		m := res.Metrics
		if m.Readability < 0 || m.Readability > 100 || m.Accessibility < 0 || m.Accessibility > 100 || m.SEO < 0 || m.SEO > 100 {
			t.Fatalf("score out of range: %+v", m)
		}
		_ = eng.Format(string(input))
		_, _ = eng.ProposeAutoClose(string(input))
	})
}

func FuzzMarkdown(f *testing.F) {
	f.Add([]byte("# Title\n\n![](x.png)\n"))
	f.Add([]byte("<div>\n\n*a*\n"))
	eng := engine.New(engine.Options{})
	f.Fuzz(func(t *testing.T, input []byte) {
		out, err := markdown.Render(clampSeed(input))
		if err != nil {
			return
		}
		for _, d := range eng.Validate(string(out)) {
			if d.Rule == diag.RuleInternalError {
				t.Fatalf("analysis of rendered markdown panicked: %s", d.Message)
			}
		}
	})
}

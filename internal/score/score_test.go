package score_test

import (
	"strings"
	"testing"

	"markcheck/internal/lexer"
	"markcheck/internal/score"
	"markcheck/internal/source"
	"markcheck/internal/survey"
)

func compute(text string) score.Metrics {
	f := source.NewFile("t.html", []byte(text))
	return score.Compute(text, survey.Collect(lexer.Tokenize(f)))
}

func TestCounters(t *testing.T) {
	cases := []struct {
		in    string
		lines int
		chars int
		words int
		tags  int
	}{
		{"", 0, 0, 0, 0},
		{"hello", 1, 5, 1, 0},
		{"a\nb\n", 3, 4, 2, 0},
		{"<p>one two</p><br>", 1, 18, 2, 2},
		{"<p>café</p>", 1, 11, 1, 1},
		{"<script>a b c</script><!-- d e -->", 1, 34, 0, 1},
	}
	for _, tc := range cases {
		m := compute(tc.in)
		if m.Lines != tc.lines || m.Characters != tc.chars || m.Words != tc.words || m.TagCount != tc.tags {
			t.Fatalf("%q: got lines=%d chars=%d words=%d tags=%d, want %d %d %d %d",
				tc.in, m.Lines, m.Characters, m.Words, m.TagCount, tc.lines, tc.chars, tc.words, tc.tags)
		}
	}
}

func TestReadability(t *testing.T) {
	if got := score.Readability(strings.Repeat("x", 50)); got != 100 {
		t.Fatalf("50 chars: got %d, want 100", got)
	}
	if got := score.Readability(strings.Repeat("x", 60)); got != 80 {
		t.Fatalf("60 chars: got %d, want 80", got)
	}
	// две строки по 55 символов, перевод строки не считается
	if got := score.Readability(strings.Repeat("y", 55) + "\n" + strings.Repeat("y", 55)); got != 90 {
		t.Fatalf("two lines of 55: got %d, want 90", got)
	}
	if got := score.Readability(strings.Repeat("z", 500)); got != 0 {
		t.Fatalf("long line: got %d, want 0", got)
	}
}

func TestAccessibility(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`<html lang="en"></html>`, 100},
		{`<p>x</p>`, 90},
		{`<img src="a.png">`, 70},
		{`<img src="a.png"><a href="#">x</a><table></table>`, 45},
		{`<html lang="en"><table><caption>c</caption></table></html>`, 100},
	}
	for _, tc := range cases {
		if got := compute(tc.in).Accessibility; got != tc.want {
			t.Fatalf("%q: accessibility = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSEO(t *testing.T) {
	full := `<meta charset="utf-8"><meta name="description" content="d"><title>t</title><h1>h</h1>`
	cases := []struct {
		in   string
		want int
	}{
		{full, 100},
		{`<meta charset="utf-8"><meta name="description" content="d"><h1>h</h1>`, 75},
		{`<title>t</title>`, 55},
		{`<p>plain text</p>`, 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := compute(tc.in).SEO; got != tc.want {
			t.Fatalf("%q: seo = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"<",
		strings.Repeat("<img><a href=#>", 100),
		strings.Repeat("w", 10000),
		"<table><h1><h6>\x00\xff",
	}
	for _, in := range inputs {
		m := compute(in)
		for name, v := range map[string]int{"readability": m.Readability, "accessibility": m.Accessibility, "seo": m.SEO} {
			if v < 0 || v > 100 {
				t.Fatalf("%q: %s = %d out of range", in, name, v)
			}
		}
	}
}

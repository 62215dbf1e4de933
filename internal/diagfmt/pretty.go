package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"markcheck/internal/diag"
	"markcheck/internal/source"
)

type palette struct {
	sev     map[diag.Severity]*color.Color
	rule    *color.Color
	path    *color.Color
	gutter  *color.Color
	caret   *color.Color
	help    *color.Color
	removed *color.Color
	added   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		rule:    mk(color.Faint),
		path:    mk(color.Bold),
		gutter:  mk(color.FgBlue),
		caret:   mk(color.FgGreen, color.Bold),
		help:    mk(color.FgGreen),
		removed: mk(color.FgRed),
		added:   mk(color.FgGreen),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <rule>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, подсказку и исправления.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	sevColor := pal.sev[d.Severity]
	if sevColor == nil {
		sevColor = pal.rule
	}

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", displayPath(f, fs, opts.PathMode), start.Line, start.Col),
		sevColor.Sprint(d.Severity.String()),
		pal.rule.Sprint(string(d.Rule)),
		d.Message,
	)

	writeContext(w, f, start, end, int(opts.Context), pal)

	if d.Suggestion != "" {
		fmt.Fprintf(w, "  %s %s\n", pal.help.Sprint("help:"), d.Suggestion)
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			writeFix(w, fs, i+1, fx, opts.ShowPreview, pal)
		}
	}
}

func writeContext(w io.Writer, f *source.File, start, end source.LineCol, context int, pal palette) {
	if start.Line == 0 {
		return
	}
	first := uint32(1)
	if int(start.Line) > context {
		first = start.Line - uint32(context) // #nosec G115 -- context is an int8
	}
	last := start.Line + uint32(max(context, 0)) // #nosec G115 -- context is an int8
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if ln > start.Line && int(ln-1) > len(f.LineIdx) {
			break
		}
		line := strings.TrimRight(f.GetLine(ln), "\r")
		fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprintf("%*d |", width, ln), expandTabs(line))
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		if col > len(line) {
			col = len(line)
		}
		pad := runewidth.StringWidth(expandTabs(line[:col]))
		span := 1
		if end.Line == start.Line && end.Col > start.Col {
			stop := min(int(end.Col)-1, len(line))
			span = max(runewidth.StringWidth(expandTabs(line[col:stop])), 1)
		}
		marker := "^" + strings.Repeat("~", span-1)
		fmt.Fprintf(w, "  %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func writeFix(w io.Writer, fs *source.FileSet, n int, fx diag.Fix, preview bool, pal palette) {
	fmt.Fprintf(w, "  fix #%d: %s", n, fx.Title)
	if fx.ID != "" {
		fmt.Fprintf(w, " (id=%s)", fx.ID)
	}
	fmt.Fprintln(w)
	for _, edit := range fx.Edits {
		pos, _ := fs.Resolve(edit.Span)
		fmt.Fprintf(w, "    apply=%q at %d:%d\n", edit.NewText, pos.Line, pos.Col)
	}
	if !preview {
		return
	}
	pv, err := buildFixPreview(fs, fx)
	if err != nil {
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, l := range pv.before {
		fmt.Fprintf(w, "      %s\n", pal.removed.Sprint("- "+l))
	}
	for _, l := range pv.after {
		fmt.Fprintf(w, "      %s\n", pal.added.Sprint("+ "+l))
	}
}

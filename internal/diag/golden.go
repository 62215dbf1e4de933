package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"markcheck/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Rule     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation used by CLI short output and golden tests. Positions are
// resolved through fs; entries are sorted by path and position.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		loc, ok := resolveSpan(fs, diags[i].Primary)
		if !ok {
			continue
		}
		rendered = append(rendered, goldenDiagnostic{
			Severity: diags[i].Severity.Label(),
			Rule:     string(diags[i].Rule),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(diags[i].Message),
		})
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})
	return joinGolden(rendered)
}

// FormatResolved renders diagnostics whose Pos is already resolved, in their
// current order, attributing all of them to path.
func FormatResolved(path string, diags []Diagnostic) string {
	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = append(rendered, goldenDiagnostic{
			Severity: diags[i].Severity.Label(),
			Rule:     string(diags[i].Rule),
			Path:     normalizePath(path),
			Line:     diags[i].Pos.Line,
			Column:   diags[i].Pos.Col,
			Message:  sanitizeMessage(diags[i].Message),
		})
	}
	return joinGolden(rendered)
}

func joinGolden(rendered []goldenDiagnostic) string {
	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Rule, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	defer func() {
		if recover() != nil {
			loc = resolvedSpan{}
			ok = false
		}
	}()

	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

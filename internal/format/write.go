package format

import (
	"strings"

	"markcheck/internal/source"
)

// asciiSpace is the whitespace the formatter is allowed to add or remove.
const asciiSpace = " \t\n\r\f\v"

// Writer accumulates formatted output and provides helpers for copying source
// fragments and emitting canonical whitespace.
type Writer struct {
	sf          *source.File
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(sf *source.File, opt Options) *Writer {
	return &Writer{
		sf:          sf,
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, len(sf.Content)+len(sf.Content)/4),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes a string to the output, handling indentation.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Newline writes a newline if the output doesn't already end with one.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// TrimmedCopySpan copies a span from the source file to the output, trimming
// leading/trailing ASCII whitespace. It reports whether anything was written.
func (w *Writer) TrimmedCopySpan(sp source.Span) bool {
	if w.sf == nil || sp.File != w.sf.ID {
		return false
	}
	trimmed := strings.Trim(sp.Text(w.sf.Content), asciiSpace)
	if trimmed == "" {
		return false
	}
	w.WriteString(trimmed)
	return true
}

// TrimmedRightCopySpan copies a span, trimming only trailing whitespace.
func (w *Writer) TrimmedRightCopySpan(sp source.Span) bool {
	if w.sf == nil || sp.File != w.sf.ID {
		return false
	}
	trimmed := strings.TrimRight(sp.Text(w.sf.Content), asciiSpace)
	if trimmed == "" {
		return false
	}
	w.WriteString(trimmed)
	return true
}

package format

import (
	"errors"
	"fmt"
	"strings"

	"markcheck/internal/lexer"
	"markcheck/internal/source"
	"markcheck/internal/token"
)

// DefaultIndentWidth is the number of spaces per nesting level.
const DefaultIndentWidth = 2

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

var (
	// ErrNotPreserved is returned when formatted output would change the
	// non-whitespace content of the document.
	ErrNotPreserved = errors.New("format: output does not preserve non-whitespace content")
	// ErrUnstable is returned when formatting the output again would change it.
	ErrUnstable = errors.New("format: output is not stable under reformatting")
)

type printer struct {
	tokens []token.Token
	writer *Writer
}

// FormatFile pretty-prints sf. A panic during formatting, output that does not
// keep the non-whitespace sequence of the input, or output that would change
// when formatted again, is returned as an error.
func FormatFile(sf *source.File, opt Options) (out []byte, err error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("format: internal failure: %v", r)
		}
	}()

	opt = opt.withDefaults()
	out = formatOnce(sf, opt)
	if !SameNonSpace(sf.Content, out) {
		return nil, ErrNotPreserved
	}
	// "<b</div>" после переноса строки становится тегом, проверяем повторный проход
	again := formatOnce(source.NewFile(sf.Path, out), opt)
	if string(again) != string(out) {
		return nil, ErrUnstable
	}
	return out, nil
}

func formatOnce(sf *source.File, opt Options) []byte {
	pr := printer{
		tokens: lexer.Tokenize(sf),
		writer: NewWriter(sf, opt),
	}
	pr.printFile()
	return pr.writer.Bytes()
}

// String formats text, returning it unchanged when formatting fails.
func String(text string, opt Options) string {
	out, err := FormatFile(source.NewFile("", []byte(text)), opt)
	if err != nil {
		return text
	}
	return string(out)
}

func (p *printer) printFile() {
	w := p.writer
	for i := range p.tokens {
		tok := &p.tokens[i]
		wrote := false
		switch tok.Kind {
		case token.Text:
			wrote = w.TrimmedCopySpan(tok.Span)
		case token.Comment:
			// незакрытый комментарий тянется до EOF, хвостовые пробелы срезаем
			wrote = w.TrimmedRightCopySpan(tok.Span)
		case token.Close:
			w.IndentPop()
			w.WriteString(tok.Text)
			wrote = true
		case token.Open:
			w.WriteString(tok.Text)
			w.IndentPush()
			wrote = true
		default:
			w.WriteString(tok.Text)
			wrote = true
		}
		if wrote {
			w.Newline()
		}
	}
}

// CheckRoundTrip reports whether sf can be formatted safely: the output keeps
// every non-whitespace byte of the input in order and is stable.
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	if _, err := FormatFile(sf, opt); err != nil {
		return false, "fmt-check: " + err.Error()
	}
	return true, "fmt-check: OK"
}

// SameNonSpace reports whether a and b contain the same bytes once ASCII
// whitespace is removed.
func SameNonSpace(a, b []byte) bool {
	i, j := 0, 0
	for {
		for i < len(a) && strings.IndexByte(asciiSpace, a[i]) >= 0 {
			i++
		}
		for j < len(b) && strings.IndexByte(asciiSpace, b[j]) >= 0 {
			j++
		}
		if i == len(a) || j == len(b) {
			return i == len(a) && j == len(b)
		}
		if a[i] != b[j] {
			return false
		}
		i++
		j++
	}
}

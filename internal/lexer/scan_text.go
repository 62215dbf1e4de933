package lexer

import (
	"bytes"

	"markcheck/internal/token"
)

// scanText накапливает текст до следующего распознаваемого тега.
// Найденный тег кладётся в look, чтобы не сканировать его дважды.
func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	// первый байт всегда текст: либо не '<', либо '<' уже не стал тегом
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '<' {
			lx.cursor.Bump()
			continue
		}
		at := lx.cursor.Mark()
		if tag, ok := lx.scanMarkup(); ok {
			lx.look = &tag
			sp := lx.cursor.SpanFrom(start)
			sp.End = uint32(at)
			return lx.makeToken(token.Text, "", sp)
		}
		lx.cursor.Reset(at)
		lx.cursor.Bump()
	}
	return lx.makeToken(token.Text, "", lx.cursor.SpanFrom(start))
}

// scanRawText читает тело script/style до "</name" (без учёта регистра),
// за которым идёт пробел, '/', '>' или конец файла.
func (lx *Lexer) scanRawText(name string) (token.Token, bool) {
	start := lx.cursor.Mark()
	content := lx.file.Content[:lx.cursor.Limit]
	from := int(lx.cursor.Off)
	end := len(content)
	for {
		idx := bytes.Index(content[from:], []byte("</"))
		if idx < 0 {
			break
		}
		at := from + idx
		nameEnd := at + 2 + len(name)
		if nameEnd <= len(content) && bytes.EqualFold(content[at+2:nameEnd], []byte(name)) {
			if nameEnd == len(content) || isSpaceByte(content[nameEnd]) || content[nameEnd] == '/' || content[nameEnd] == '>' {
				end = at
				break
			}
		}
		from = at + 2
	}
	if end == int(start) {
		return token.Token{}, false
	}
	lx.cursor.Off = uint32(end) // #nosec G115 -- end <= Limit
	tok := lx.makeToken(token.Text, "", lx.cursor.SpanFrom(start))
	tok.Opaque = true
	return tok, true
}

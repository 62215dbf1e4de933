package lexer

import (
	"markcheck/internal/token"
)

// scanMarkup пытается прочитать комментарий или тег с текущего '<'.
// При неудаче курсор возвращается на место и ok=false.
func (lx *Lexer) scanMarkup() (token.Token, bool) {
	start := lx.cursor.Mark()

	switch next := lx.cursor.PeekAt(1); {
	case lx.cursor.HasPrefix("<!--"):
		return lx.scanComment(), true
	case next == '/':
		if tok, ok := lx.scanCloseTag(); ok {
			return tok, true
		}
	case isNameStartByte(next):
		if tok, ok := lx.scanOpenTag(); ok {
			return tok, true
		}
	}

	lx.cursor.Reset(start)
	return token.Token{}, false
}

// scanComment читает <!-- ... -->; незакрытый комментарий тянется до конца файла.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Advance(4)
	if end := lx.cursor.IndexFrom("-->"); end >= 0 {
		lx.cursor.Off = uint32(end) + 3 // #nosec G115 -- end < Limit
	} else {
		lx.cursor.Off = lx.cursor.Limit
	}
	return lx.makeToken(token.Comment, "", lx.cursor.SpanFrom(start))
}

// scanCloseTag: "</" name ws* ">"
func (lx *Lexer) scanCloseTag() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	name, ok := lx.scanName()
	if !ok {
		return token.Token{}, false
	}
	for isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if !lx.cursor.Eat('>') {
		return token.Token{}, false
	}
	return lx.makeToken(token.Close, name, lx.cursor.SpanFrom(start)), true
}

// scanOpenTag: "<" name (ws attrs)? "/"? ">"
// Атрибуты пропускаются до первого '>' вне кавычек.
func (lx *Lexer) scanOpenTag() (token.Token, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '<'
	name, ok := lx.scanName()
	if !ok {
		return token.Token{}, false
	}

	switch b := lx.cursor.Peek(); {
	case b == '>' || b == '/' || isSpaceByte(b):
	default:
		// "<a@b" и подобное не тег
		return token.Token{}, false
	}

	var last byte // последний непробельный байт перед '>'
	for {
		if lx.cursor.EOF() {
			return token.Token{}, false
		}
		b := lx.cursor.Bump()
		switch {
		case b == '>':
			kind := token.Open
			if last == '/' || token.IsSelfClosing(name) {
				kind = token.SelfClosing
			}
			return lx.makeToken(kind, name, lx.cursor.SpanFrom(start)), true
		case isQuote(b):
			if !lx.skipQuoted(b) {
				return token.Token{}, false
			}
			last = b
		case !isSpaceByte(b):
			last = b
		}
	}
}

// skipQuoted съедает всё до закрывающей кавычки q включительно.
func (lx *Lexer) skipQuoted(q byte) bool {
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == q {
			return true
		}
	}
	return false
}

func (lx *Lexer) scanName() (string, bool) {
	if !isNameStartByte(lx.cursor.Peek()) {
		return "", false
	}
	from := lx.cursor.Off
	lx.cursor.Bump()
	for isNameContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lowerASCII(lx.file.Content[from:lx.cursor.Off]), true
}

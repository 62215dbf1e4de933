package lexer

import (
	"markcheck/internal/source"
	"markcheck/internal/token"
)

// Lexer scans a markup document into a flat token stream. It never fails:
// anything that does not form a tag ends up in a Text token.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер: тег, найденный во время сканирования текста
	raw    string       // имя raw-text элемента, тело которого ещё не прочитано
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next возвращает следующий токен. ok=false означает конец документа.
func (lx *Lexer) Next() (tok token.Token, ok bool) {
	// 1) Если есть look, вернуть его и очистить
	if lx.look != nil {
		tok = *lx.look
		lx.look = nil
		lx.afterTag(tok)
		return tok, true
	}

	if lx.cursor.EOF() {
		return token.Token{}, false
	}

	// 2) тело <script>/<style>: непрозрачный текст до закрывающего тега
	if lx.raw != "" {
		name := lx.raw
		lx.raw = ""
		if tok, ok := lx.scanRawText(name); ok {
			return tok, true
		}
	}

	// 3) '<' → пробуем тег, иначе текст
	if lx.cursor.Peek() == '<' {
		if tok, ok := lx.scanMarkup(); ok {
			lx.afterTag(tok)
			return tok, true
		}
	}
	return lx.scanText(), true
}

// Tokenize collects the whole token stream of file.
func Tokenize(file *source.File) []token.Token {
	lx := New(file)
	tokens := make([]token.Token, 0, len(file.Content)/8+1)
	for {
		tok, ok := lx.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (lx *Lexer) afterTag(tok token.Token) {
	if tok.Kind == token.Open && token.IsRawText(tok.Name) {
		lx.raw = tok.Name
	}
}

func (lx *Lexer) makeToken(kind token.Kind, name string, sp source.Span) token.Token {
	return token.Token{
		Kind: kind,
		Name: name,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}

// Package survey collects document-level facts in a single pass over the
// token stream. Both the heuristic rules and the quality scorer read the same
// Facts, so a condition such as "image without alt" has one definition.
package survey

import (
	"strings"

	"golang.org/x/net/html"

	"markcheck/internal/source"
	"markcheck/internal/token"
)

// Heading is a heading tag with its numeric level.
type Heading struct {
	Level int
	Span  source.Span
}

// Facts describes what a document contains. Spans point at the first token
// that triggered a fact; they are meaningful only when the matching counter
// is non-zero.
type Facts struct {
	HasDoctype  bool
	HasHTMLRoot bool

	Images   int
	FirstImg source.Span
	HasAlt   bool

	HashLinks     int
	FirstHashLink source.Span
	HasAriaLabel  bool

	HasLang    bool
	HasTable   bool
	HasCaption bool

	HasTitle           bool
	HasDescriptionMeta bool
	HasH1              bool
	HasCharsetMeta     bool

	Headings     []Heading
	InlineStyles int

	Tags  int // Open + SelfClosing
	Words int
}

// Collect walks tokens once and fills Facts.
func Collect(tokens []token.Token) Facts {
	var f Facts
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case token.Text:
			if tok.Opaque {
				continue
			}
			f.Words += len(strings.Fields(tok.Text))
			if !f.HasDoctype && containsFold(tok.Text, "<!doctype") {
				f.HasDoctype = true
			}
		case token.Open, token.SelfClosing:
			f.Tags++
			f.tag(tok)
		}
	}
	return f
}

func (f *Facts) tag(tok *token.Token) {
	switch tok.Name {
	case "html":
		f.HasHTMLRoot = true
	case "img":
		if f.Images == 0 {
			f.FirstImg = tok.Span
		}
		f.Images++
	case "table":
		f.HasTable = true
	case "caption":
		f.HasCaption = true
	case "title":
		f.HasTitle = true
	}
	if lvl, ok := tok.IsHeading(); ok && tok.Kind == token.Open {
		f.Headings = append(f.Headings, Heading{Level: lvl, Span: tok.Span})
		if lvl == 1 {
			f.HasH1 = true
		}
	}

	var href, metaName string
	hasHref := false
	EachAttr(tok.Text, func(key, val string) {
		switch key {
		case "alt":
			f.HasAlt = true
		case "aria-label":
			f.HasAriaLabel = true
		case "lang":
			f.HasLang = true
		case "style":
			f.InlineStyles++
		case "href":
			href, hasHref = val, true
		case "name":
			metaName = val
		case "charset":
			if tok.Name == "meta" {
				f.HasCharsetMeta = true
			}
		}
	})

	switch tok.Name {
	case "a":
		if hasHref && href == "#" {
			if f.HashLinks == 0 {
				f.FirstHashLink = tok.Span
			}
			f.HashLinks++
		}
	case "meta":
		if strings.EqualFold(strings.TrimSpace(metaName), "description") {
			f.HasDescriptionMeta = true
		}
	}
}

// EachAttr parses the attributes of a single raw start tag and calls fn for
// each of them. Keys are lower-cased; values are unescaped.
func EachAttr(raw string, fn func(key, val string)) {
	z := html.NewTokenizer(strings.NewReader(raw))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
	default:
		return
	}
	_, more := z.TagName()
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		fn(string(key), string(val))
	}
}

// ImgWithoutAlt: an image exists and no alt attribute appears anywhere.
func (f Facts) ImgWithoutAlt() bool { return f.Images > 0 && !f.HasAlt }

// HashLinkWithoutLabel: an href="#" anchor exists and no aria-label appears anywhere.
func (f Facts) HashLinkWithoutLabel() bool { return f.HashLinks > 0 && !f.HasAriaLabel }

// MissingShell: neither a doctype nor an html root tag.
func (f Facts) MissingShell() bool { return !f.HasDoctype && !f.HasHTMLRoot }

func (f Facts) TableWithoutCaption() bool { return f.HasTable && !f.HasCaption }

// HeadingJump returns the first adjacent heading pair whose level rises by
// more than one.
func (f Facts) HeadingJump() (prev, next Heading, ok bool) {
	for i := 1; i < len(f.Headings); i++ {
		if f.Headings[i].Level-f.Headings[i-1].Level > 1 {
			return f.Headings[i-1], f.Headings[i], true
		}
	}
	return Heading{}, Heading{}, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

package token

import "strings"

// selfClosing lists elements that never require a matching closer.
var selfClosing = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// rawText lists elements whose bodies are not markup.
var rawText = map[string]struct{}{
	"script": {},
	"style":  {},
}

// IsSelfClosing reports whether name (any case) belongs to the self-closing set.
func IsSelfClosing(name string) bool {
	_, ok := selfClosing[strings.ToLower(name)]
	return ok
}

// IsRawText reports whether the element body is opaque text.
func IsRawText(name string) bool {
	_, ok := rawText[strings.ToLower(name)]
	return ok
}

// SelfClosingNames returns the self-closing set in no particular order.
func SelfClosingNames() []string {
	out := make([]string, 0, len(selfClosing))
	for name := range selfClosing {
		out = append(out, name)
	}
	return out
}

package token

// Kind represents the category of a markup token.
type Kind uint8

const (
	// Invalid is the zero kind; the lexer never emits it.
	Invalid Kind = iota
	// Open is an opening tag such as <div class="x">.
	Open
	// Close is a closing tag such as </div>.
	Close
	// SelfClosing is an element that never takes a closer: <br/>, <img ...>.
	SelfClosing
	// Text is any run of characters outside of tags.
	Text
	// Comment is <!-- ... -->.
	Comment
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	Open:        "Open",
	Close:       "Close",
	SelfClosing: "SelfClosing",
	Text:        "Text",
	Comment:     "Comment",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsTag reports whether the kind is one of the tag kinds.
func (k Kind) IsTag() bool {
	return k == Open || k == Close || k == SelfClosing
}

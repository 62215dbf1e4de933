package lexer

// ===== Классификаторы =====

func isNameStartByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isNameContinueByte(b byte) bool {
	return isNameStartByte(b) || (b >= '0' && b <= '9') || b == '-' || b == ':'
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}

// lowerASCII lower-cases ASCII letters only; tag names never carry anything else.
func lowerASCII(s []byte) string {
	out := make([]byte, len(s))
	for i, b := range s {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
	}
	return string(out)
}

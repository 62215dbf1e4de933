package source

import (
	"fmt"
)

// Span is a half-open byte range inside a single file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Text returns the bytes covered by the span, clamped to the content bounds.
func (s Span) Text(content []byte) string {
	n := uint32(len(content)) // #nosec G115 -- content length was checked by NewFile/Add
	start, end := min(s.Start, n), min(s.End, n)
	if start >= end {
		return ""
	}
	return string(content[start:end])
}

// Package token defines markup token kinds and the self-closing element set.
// Invariants:
//   - Token.Text is the exact slice of the original document (no copies, original casing).
//   - Token.Span matches Text exactly (Start..End).
//   - Token.Name is the lower-cased tag name for Open/Close/SelfClosing, empty otherwise.
//   - A token stream is ordered by Span.Start, never overlaps, and covers the whole
//     document: concatenating Text of every token reproduces the input.
//   - Bodies of raw-text elements (script, style) are one Text token with Opaque set.
package token

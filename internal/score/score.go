// Package score derives size counters and three coarse 0-100 quality scores
// from a document.
package score

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"markcheck/internal/survey"
)

// Metrics are the counters and scores of one document.
type Metrics struct {
	Lines         int `json:"lines" msgpack:"lines"`
	Characters    int `json:"characters" msgpack:"characters"`
	Words         int `json:"words" msgpack:"words"`
	TagCount      int `json:"tag_count" msgpack:"tag_count"`
	Readability   int `json:"readability" msgpack:"readability"`
	Accessibility int `json:"accessibility" msgpack:"accessibility"`
	SEO           int `json:"seo" msgpack:"seo"`
}

// Line length above which readability starts losing points.
const comfortableLineLength = 50

// Accessibility penalties.
const (
	penaltyImgAlt       = 20
	penaltyHashLink     = 15
	penaltyNoLang       = 10
	penaltyTableCaption = 10
)

// SEO penalties.
const (
	penaltyNoTitle       = 25
	penaltyNoDescription = 20
	penaltyNoH1          = 15
	penaltyNoCharset     = 10
)

// Compute builds Metrics for text using facts collected from its tokens.
func Compute(text string, facts survey.Facts) Metrics {
	normalized := norm.NFC.String(text)
	m := Metrics{
		Lines:      countLines(normalized),
		Characters: utf8.RuneCountInString(normalized),
		Words:      facts.Words,
		TagCount:   facts.Tags,
	}
	m.Readability = Readability(normalized)
	m.Accessibility = Accessibility(facts)
	m.SEO = SEO(facts)
	return m
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

// Readability penalizes an average line length above 50 characters by twice
// the excess.
func Readability(text string) int {
	lines := countLines(text)
	if lines == 0 {
		return 100
	}
	// символы строк без переводов строк
	chars := utf8.RuneCountInString(text) - (lines - 1)
	avg := float64(chars) / float64(lines)
	if avg <= comfortableLineLength {
		return 100
	}
	penalty := int(math.Round(2 * (avg - comfortableLineLength)))
	return clamp(100 - penalty)
}

// Accessibility subtracts fixed penalties for missing accessibility signals.
func Accessibility(f survey.Facts) int {
	s := 100
	if f.ImgWithoutAlt() {
		s -= penaltyImgAlt
	}
	if f.HashLinkWithoutLabel() {
		s -= penaltyHashLink
	}
	if !f.HasLang {
		s -= penaltyNoLang
	}
	if f.TableWithoutCaption() {
		s -= penaltyTableCaption
	}
	return clamp(s)
}

// SEO subtracts fixed penalties for missing metadata. A document with none of
// the four signals scores 0.
func SEO(f survey.Facts) int {
	if !f.HasTitle && !f.HasDescriptionMeta && !f.HasH1 && !f.HasCharsetMeta {
		return 0
	}
	s := 100
	if !f.HasTitle {
		s -= penaltyNoTitle
	}
	if !f.HasDescriptionMeta {
		s -= penaltyNoDescription
	}
	if !f.HasH1 {
		s -= penaltyNoH1
	}
	if !f.HasCharsetMeta {
		s -= penaltyNoCharset
	}
	return clamp(s)
}

func clamp(v int) int {
	return max(0, min(100, v))
}

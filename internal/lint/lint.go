// Package lint runs the document-level heuristic rules. Every rule reports
// at most one diagnostic per document.
package lint

import (
	"fmt"

	"markcheck/internal/diag"
	"markcheck/internal/source"
	"markcheck/internal/survey"
)

// DefaultInlineStyleLimit is the number of style attributes tolerated before
// inline-styles-performance fires.
const DefaultInlineStyleLimit = 5

// Options tune the heuristic rules.
type Options struct {
	// InlineStyleLimit; zero means DefaultInlineStyleLimit.
	InlineStyleLimit int
}

func (o Options) inlineStyleLimit() int {
	if o.InlineStyleLimit <= 0 {
		return DefaultInlineStyleLimit
	}
	return o.InlineStyleLimit
}

type checker struct {
	file  *source.File
	facts survey.Facts
	opts  Options
	r     diag.Reporter
}

type rule func(*checker)

var rules = []rule{
	(*checker).doctype,
	(*checker).imgAlt,
	(*checker).linkLabel,
	(*checker).headingHierarchy,
	(*checker).inlineStyles,
}

// Check evaluates every heuristic rule against facts.
func Check(file *source.File, facts survey.Facts, opts Options, r diag.Reporter) {
	c := &checker{file: file, facts: facts, opts: opts, r: r}
	for _, fn := range rules {
		fn(c)
	}
}

func (c *checker) start() source.Span {
	return c.file.Span(0, 0)
}

func (c *checker) doctype() {
	if !c.facts.MissingShell() {
		return
	}
	diag.ReportWarning(c.r, diag.RuleDoctypeRequired, c.start(),
		"document has no doctype declaration and no <html> root").
		WithSuggestion("add <!DOCTYPE html> at the top of the document").
		WithFix("insert doctype", diag.FixEdit{Span: c.start(), NewText: "<!DOCTYPE html>\n"}).
		Emit()
}

func (c *checker) imgAlt() {
	if !c.facts.ImgWithoutAlt() {
		return
	}
	img := c.facts.FirstImg
	// сразу после "<img"
	at := c.file.Span(img.Start+4, img.Start+4)
	diag.ReportWarning(c.r, diag.RuleImgAltRequired, img,
		"image has no alt attribute").
		WithSuggestion(`describe the image in alt="..." or use alt="" if it is decorative`).
		WithFix("insert empty alt", diag.FixEdit{Span: at, NewText: ` alt=""`}).
		Emit()
}

func (c *checker) linkLabel() {
	if !c.facts.HashLinkWithoutLabel() {
		return
	}
	diag.ReportWarning(c.r, diag.RuleLinkAccessibility, c.facts.FirstHashLink,
		`link with href="#" has no aria-label`).
		WithSuggestion("add aria-label describing what the link does").
		Emit()
}

func (c *checker) headingHierarchy() {
	prev, next, ok := c.facts.HeadingJump()
	if !ok {
		return
	}
	diag.ReportWarning(c.r, diag.RuleHeadingHierarchy, next.Span,
		fmt.Sprintf("heading level jumps from h%d to h%d", prev.Level, next.Level)).
		WithSuggestion(fmt.Sprintf("use h%d here or add the missing levels", prev.Level+1)).
		Emit()
}

func (c *checker) inlineStyles() {
	n := c.facts.InlineStyles
	if n <= c.opts.inlineStyleLimit() {
		return
	}
	diag.ReportInfo(c.r, diag.RuleInlineStyles, c.start(),
		fmt.Sprintf("%d inline style attributes found", n)).
		WithSuggestion("move repeated styles into a stylesheet class").
		Emit()
}

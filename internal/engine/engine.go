// Package engine is the host-facing facade over the markup checker. Every call
// works on an immutable text snapshot, keeps no state between calls and never
// panics: internal failures degrade to an empty or echoed result, or to a
// single internal-error diagnostic.
package engine

import (
	"fmt"

	"markcheck/internal/autoclose"
	"markcheck/internal/balance"
	"markcheck/internal/diag"
	"markcheck/internal/format"
	"markcheck/internal/lexer"
	"markcheck/internal/lint"
	"markcheck/internal/observ"
	"markcheck/internal/score"
	"markcheck/internal/source"
	"markcheck/internal/survey"
	"markcheck/internal/token"
)

// tokenize is swapped in tests to exercise panic recovery.
var tokenize = lexer.Tokenize

// Result bundles everything Analyze produces for one document.
type Result struct {
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
	Metrics     score.Metrics
	Timings     observ.Report
}

// Engine runs the checker with fixed options.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

func snapshot(text string) *source.File {
	return source.NewFile("", []byte(text))
}

// Tokenize returns the token stream of text, or nil on internal failure.
func (e *Engine) Tokenize(text string) (tokens []token.Token) {
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
		}
	}()
	return tokenize(snapshot(text))
}

// Validate runs the balance check and the heuristic rules and returns the
// diagnostics sorted by position.
func (e *Engine) Validate(text string) []diag.Diagnostic {
	return e.ValidateFile(snapshot(text))
}

// ValidateFile is Validate for a file owned by a FileSet.
func (e *Engine) ValidateFile(f *source.File) (diags []diag.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			diags = []diag.Diagnostic{internalError(f, r)}
		}
	}()
	tokens := tokenize(f)
	return e.validate(f, tokens, survey.Collect(tokens))
}

func (e *Engine) validate(f *source.File, tokens []token.Token, facts survey.Facts) []diag.Diagnostic {
	bag := diag.NewBag(e.opts.MaxDiagnostics)
	r := ruleFilter{next: diag.NewDedupReporter(diag.BagReporter{Bag: bag}), opts: e.opts}

	balance.Check(tokens, f.Span(0, f.Len()), r)
	lint.Check(f, facts, e.opts.lint(), r)

	bag.Sort()
	bag.Resolve(f)
	return bag.Items()
}

// Score computes counters and quality scores; zero Metrics on internal failure.
func (e *Engine) Score(text string) (m score.Metrics) {
	defer func() {
		if r := recover(); r != nil {
			m = score.Metrics{}
		}
	}()
	return score.Compute(text, survey.Collect(tokenize(snapshot(text))))
}

// Format pretty-prints text; the input is returned unchanged on any failure.
func (e *Engine) Format(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()
	return format.String(text, e.opts.format())
}

// ProposeAutoClose suggests the closer for the tag just typed at the end of
// prefix.
func (e *Engine) ProposeAutoClose(prefix string) (p autoclose.Proposal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p, ok = autoclose.Proposal{}, false
		}
	}()
	return autoclose.Propose(prefix)
}

// Analyze tokenizes, validates and scores text in one pass.
func (e *Engine) Analyze(text string) Result {
	return e.AnalyzeFile(snapshot(text))
}

// AnalyzeFile is Analyze for a file owned by a FileSet.
func (e *Engine) AnalyzeFile(f *source.File) (res Result) {
	timer := observ.NewTimer()
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Diagnostics: []diag.Diagnostic{internalError(f, r)},
				Timings:     timer.Report(),
			}
		}
	}()

	idx := timer.Begin("tokenize")
	tokens := tokenize(f)
	timer.End(idx, fmt.Sprintf("%d tokens", len(tokens)))

	idx = timer.Begin("survey")
	facts := survey.Collect(tokens)
	timer.End(idx, "")

	idx = timer.Begin("validate")
	diags := e.validate(f, tokens, facts)
	timer.End(idx, fmt.Sprintf("%d diagnostics", len(diags)))

	idx = timer.Begin("score")
	metrics := score.Compute(string(f.Content), facts)
	timer.End(idx, "")

	return Result{
		Tokens:      tokens,
		Diagnostics: diags,
		Metrics:     metrics,
		Timings:     timer.Report(),
	}
}

func internalError(f *source.File, r any) diag.Diagnostic {
	var sp source.Span
	if f != nil {
		sp = f.Span(0, 0)
	}
	d := diag.New(diag.SevError, diag.RuleInternalError, sp, fmt.Sprintf("internal error: %v", r))
	d.Pos = source.LineCol{Line: 1, Col: 1}
	return d
}

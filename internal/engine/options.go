package engine

import (
	"markcheck/internal/diag"
	"markcheck/internal/format"
	"markcheck/internal/lint"
	"markcheck/internal/source"
)

// Options is the per-call configuration a host passes to the engine. The zero
// value runs every rule at its default severity.
type Options struct {
	Disabled         []diag.Rule
	Severity         map[diag.Rule]diag.Severity
	InlineStyleLimit int
	IndentWidth      int
	UseTabs          bool
	// MaxDiagnostics caps the diagnostics kept per document; 0 means unlimited.
	MaxDiagnostics int
}

func (o Options) lint() lint.Options {
	return lint.Options{InlineStyleLimit: o.InlineStyleLimit}
}

func (o Options) format() format.Options {
	return format.Options{IndentWidth: o.IndentWidth, UseTabs: o.UseTabs}
}

func (o Options) disabled(rule diag.Rule) bool {
	for _, r := range o.Disabled {
		if r == rule {
			return true
		}
	}
	return false
}

// ruleFilter drops disabled rules and applies severity overrides before
// forwarding to the next reporter.
type ruleFilter struct {
	next diag.Reporter
	opts Options
}

func (f ruleFilter) Report(rule diag.Rule, sev diag.Severity, primary source.Span, msg, suggestion string, fixes []diag.Fix) {
	if f.opts.disabled(rule) {
		return
	}
	if override, ok := f.opts.Severity[rule]; ok {
		sev = override
	}
	f.next.Report(rule, sev, primary, msg, suggestion, fixes)
}

package diag

import "markcheck/internal/source"

// Reporter: минимальный контракт получения диагностик от проверок.
// Реализации: BagReporter (кладёт в Bag), DedupReporter.
type Reporter interface {
	Report(rule Rule, sev Severity, primary source.Span, msg, suggestion string, fixes []Fix)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, rule Rule, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, rule, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, rule Rule, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, rule, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, rule Rule, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, rule, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, rule Rule, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, rule, primary, msg)
}

// WithSuggestion sets the human-readable remedy.
func (b *ReportBuilder) WithSuggestion(s string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithSuggestion(s)
	return b
}

// WithFix appends a ready-to-use fix.
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithFix(title, edits...)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag.Rule, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Suggestion, b.diag.Fixes)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(rule Rule, sev Severity, primary source.Span, msg, suggestion string, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Rule: rule, Message: msg,
		Suggestion: suggestion, Primary: primary, Fixes: fixes,
	})
}

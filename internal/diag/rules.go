package diag

import "fmt"

// Rule is a stable diagnostic identifier. Hosts filter and localize by these
// strings, so values must never change once released.
type Rule string

const (
	RuleUnmatchedClosingTag Rule = "unmatched-closing-tag"
	RuleUnclosedTag         Rule = "unclosed-tag"
	RuleDoctypeRequired     Rule = "doctype-required"
	RuleImgAltRequired      Rule = "img-alt-required"
	RuleLinkAccessibility   Rule = "link-accessibility"
	RuleHeadingHierarchy    Rule = "heading-hierarchy"
	RuleInlineStyles        Rule = "inline-styles-performance"
	RuleInternalError       Rule = "internal-error"
)

// RuleInfo describes a rule for listings and configuration validation.
type RuleInfo struct {
	ID       Rule
	Severity Severity
	Title    string
}

var ruleTable = []RuleInfo{
	{RuleUnmatchedClosingTag, SevError, "closing tag without a matching opening tag"},
	{RuleUnclosedTag, SevWarning, "opening tag is never closed"},
	{RuleDoctypeRequired, SevWarning, "document has neither a doctype nor an <html> root"},
	{RuleImgAltRequired, SevWarning, "images need alternative text"},
	{RuleLinkAccessibility, SevWarning, "placeholder links need an aria-label"},
	{RuleHeadingHierarchy, SevWarning, "heading levels must not skip"},
	{RuleInlineStyles, SevInfo, "too many inline style attributes"},
	{RuleInternalError, SevError, "the checker failed on this input"},
}

// Rules returns every known rule in a stable order.
func Rules() []RuleInfo {
	out := make([]RuleInfo, len(ruleTable))
	copy(out, ruleTable)
	return out
}

// LookupRule returns the rule info for id.
func LookupRule(id string) (RuleInfo, bool) {
	for _, info := range ruleTable {
		if string(info.ID) == id {
			return info, true
		}
	}
	return RuleInfo{}, false
}

// ParseRule validates id against the closed rule set.
func ParseRule(id string) (Rule, error) {
	info, ok := LookupRule(id)
	if !ok {
		return "", fmt.Errorf("unknown rule %q", id)
	}
	return info.ID, nil
}

func (r Rule) String() string { return string(r) }

// DefaultSeverity returns the severity the rule reports with unless overridden.
func (r Rule) DefaultSeverity() Severity {
	if info, ok := LookupRule(string(r)); ok {
		return info.Severity
	}
	return SevError
}

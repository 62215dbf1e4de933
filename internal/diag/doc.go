// Package diag defines the diagnostic model shared by every markup check.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the balance validator and the heuristic rules.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting layers.
//   - Model fix suggestions as structured edits that the CLI can apply.
//
// # Scope
//
// Package diag does not perform any formatting beyond the single-line golden
// form, IO, or CLI integration. Rendering lives in internal/diagfmt, fix
// application lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Rule – stable string identifier from the closed set in rules.go. Hosts
//     filter and localize by rule, so identifiers never change.
//   - Message – human oriented text; keep it short and actionable.
//   - Suggestion – optional remedy, e.g. "add </div>".
//   - Primary span – byte range of the offending token (or 0:0 for
//     document-level findings); Pos is its resolved 1-based line/column.
//   - Fixes – optional Fix records made of plain text edits.
//
// # Ordering
//
// Producers report in discovery order. Bag.Sort is a stable sort by position,
// so two findings at the same offset keep the order they were discovered in.
package diag

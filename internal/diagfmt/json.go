package diagfmt

import (
	"encoding/json"
	"io"

	"markcheck/internal/diag"
	"markcheck/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID          string        `json:"id,omitempty"`
	Title       string        `json:"title"`
	Edits       []FixEditJSON `json:"edits,omitempty"`
	BeforeLines []string      `json:"before_lines,omitempty"`
	AfterLines  []string      `json:"after_lines,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity   string       `json:"severity"`
	Rule       string       `json:"rule"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
	Location   LocationJSON `json:"location"`
	Fixes      []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:      displayPath(f, fs, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		diagJSON := DiagnosticJSON{
			Severity:   d.Severity.Label(),
			Rule:       string(d.Rule),
			Message:    d.Message,
			Suggestion: d.Suggestion,
			Location:   makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			diagJSON.Fixes = make([]FixJSON, 0, len(d.Fixes))
			for _, fx := range d.Fixes {
				fixJSON := FixJSON{ID: fx.ID, Title: fx.Title}
				for _, edit := range fx.Edits {
					editJSON := FixEditJSON{
						Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
						NewText:  edit.NewText,
					}
					fixJSON.Edits = append(fixJSON.Edits, editJSON)
				}
				if opts.IncludePreviews {
					if preview, err := buildFixPreview(fs, fx); err == nil {
						fixJSON.BeforeLines = preview.before
						fixJSON.AfterLines = preview.after
					}
				}
				diagJSON.Fixes = append(diagJSON.Fixes, fixJSON)
			}
		}
		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

package diagfmt

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"markcheck/internal/diag"
	"markcheck/internal/source"
)

// fixPreview is the block of lines a fix touches, before and after applying
// every edit of the fix.
type fixPreview struct {
	before []string
	after  []string
}

var errPreviewSpan = errors.New("fix edits do not fit one file")

// buildFixPreview applies all edits of fx to a copy of the lines they touch.
// Edits must target one file and must not overlap.
func buildFixPreview(fs *source.FileSet, fx diag.Fix) (fixPreview, error) {
	if fs == nil || len(fx.Edits) == 0 {
		return fixPreview{}, errPreviewSpan
	}
	fileID := fx.Edits[0].Span.File
	if int(fileID) >= fs.Len() {
		return fixPreview{}, errPreviewSpan
	}
	file := fs.Get(fileID)
	size := file.Len()

	edits := slices.Clone(fx.Edits)
	slices.SortFunc(edits, func(a, b diag.FixEdit) int { return cmp.Compare(a.Span.Start, b.Span.Start) })

	lo, hi := edits[0].Span.Start, edits[0].Span.End
	for i, e := range edits {
		if e.Span.File != fileID || e.Span.Start > e.Span.End || e.Span.End > size {
			return fixPreview{}, errPreviewSpan
		}
		if i > 0 && e.Span.Start < edits[i-1].Span.End {
			return fixPreview{}, errPreviewSpan
		}
		hi = max(hi, e.Span.End)
	}

	blockStart := lineStart(file, lo)
	blockEnd := lineEnd(file, hi)
	original := file.Content[blockStart:blockEnd]

	var after strings.Builder
	cursor := blockStart
	for _, e := range edits {
		after.Write(file.Content[cursor:e.Span.Start])
		after.WriteString(e.NewText)
		cursor = e.Span.End
	}
	after.Write(file.Content[cursor:blockEnd])

	return fixPreview{
		before: splitPreviewLines(string(original)),
		after:  splitPreviewLines(after.String()),
	}, nil
}

func splitPreviewLines(content string) []string {
	if content == "" {
		return nil
	}
	// хвостовой перевод строки не даёт лишней пустой строки
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// lineStart returns the offset of the first byte of the line holding off.
func lineStart(f *source.File, off uint32) uint32 {
	line := f.Position(off).Line
	if line <= 1 {
		return 0
	}
	return f.LineIdx[line-2] + 1
}

// lineEnd returns the offset just past the newline ending the line holding
// off, or the end of the file.
func lineEnd(f *source.File, off uint32) uint32 {
	line := f.Position(off).Line
	if int(line-1) < len(f.LineIdx) {
		return f.LineIdx[line-1] + 1
	}
	return f.Len()
}

// Package fix applies the corrections attached to diagnostics: missing
// closers, empty alt attributes and the doctype line.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"markcheck/internal/diag"
	"markcheck/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ParseMode maps the CLI spelling of a mode.
func ParseMode(s string) (ApplyMode, error) {
	switch s {
	case "once", "":
		return ApplyModeOnce, nil
	case "all":
		return ApplyModeAll, nil
	case "id":
		return ApplyModeID, nil
	}
	return 0, fmt.Errorf("unknown fix mode %q (expected once|all|id)", s)
}

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Rule        diag.Rule
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// applies them and writes the changed files back to disk. Virtual files and
// files rendered from markdown are never written.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result, buffers, err := plan(fs, diagnostics, opts, false)
	if err != nil {
		return result, err
	}

	baseDir := fs.BaseDir()
	for _, fileID := range sortedIDs(buffers) {
		file := fs.Get(fileID)
		mode := os.FileMode(0o644)
		if info, statErr := os.Stat(file.Path); statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, buffers[fileID].content, mode); err != nil {
			return result, fmt.Errorf("write %s: %w", file.Path, err)
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: buffers[fileID].edits,
		})
	}
	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	return result, nil
}

// Rewrite applies fixes for a single in-memory document and returns the new
// content. Editor buffers and stdin go through here.
func Rewrite(file *source.File, diagnostics []diag.Diagnostic, opts ApplyOptions) ([]byte, *ApplyResult, error) {
	fs := source.NewFileSet()
	id := fs.Add(file.Path, file.Content, file.Flags)
	// диагностики привязаны к file.ID; переносим их на копию в новом FileSet
	moved := make([]diag.Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		moved[i] = retarget(d, id)
	}
	result, buffers, err := plan(fs, moved, opts, true)
	if err != nil {
		return file.Content, result, err
	}
	buf, ok := buffers[id]
	if !ok {
		return file.Content, result, ErrNoFixes
	}
	result.FileChanges = append(result.FileChanges, FileChange{Path: file.Path, EditCount: buf.edits})
	return buf.content, result, nil
}

func retarget(d diag.Diagnostic, id source.FileID) diag.Diagnostic {
	d.Primary.File = id
	fixes := make([]diag.Fix, len(d.Fixes))
	for i, f := range d.Fixes {
		edits := make([]diag.FixEdit, len(f.Edits))
		for j, e := range f.Edits {
			e.Span.File = id
			edits[j] = e
		}
		f.Edits = edits
		fixes[i] = f
	}
	d.Fixes = fixes
	return d
}

type buffer struct {
	content []byte
	applied []diag.FixEdit // в координатах исходного файла, по возрастанию Start
	edits   int
}

func plan(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions, allowVirtual bool) (*ApplyResult, map[source.FileID]*buffer, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, nil, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, nil, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, nil, ErrNoFixes
	}

	buffers, applied, skipped := applyCandidates(fs, selected, allowVirtual)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	if len(result.Applied) == 0 {
		return result, nil, ErrNoFixes
	}
	return result, buffers, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without an
// ID get one derived from the rule and position; duplicate IDs and fixes
// without edits are skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Rule, d.Primary.File, d.Primary.Start, idx)
			}
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by file, primary span and discovery order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		return candidates, nil
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, allowVirtual bool) (map[source.FileID]*buffer, []AppliedFix, []SkippedFix) {
	buffers := make(map[source.FileID]*buffer)
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)

	for _, cand := range selected {
		staged := make(map[source.FileID]*buffer)
		var skipReason string

		for fileID, edits := range groupEditsByFile(cand.fix.Edits) {
			if int(fileID) >= fs.Len() {
				skipReason = "edit targets an unknown file"
				break
			}
			file := fs.Get(fileID)
			if !allowVirtual && file.Flags&source.FileVirtual != 0 {
				skipReason = "target file is virtual"
				break
			}
			if file.Flags&source.FileRendered != 0 {
				// правки относятся к сгенерированной разметке, а не к исходнику
				skipReason = "target file is rendered from markdown"
				break
			}
			base := buffers[fileID]
			if base == nil {
				base = &buffer{content: file.Content}
			}
			if conflictsWithExisting(base.applied, edits) {
				skipReason = "conflicts with previously applied edits in " + file.FormatPath("auto", fs.BaseDir())
				break
			}
			next, err := applyEdits(base, edits)
			if err != nil {
				skipReason = err.Error()
				break
			}
			staged[fileID] = next
		}

		if skipReason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: skipReason})
			continue
		}

		total := 0
		for fileID, buf := range staged {
			total += buf.edits - editsOf(buffers[fileID])
			buffers[fileID] = buf
		}
		applied = append(applied, AppliedFix{
			ID:          cand.fix.ID,
			Title:       cand.fix.Title,
			Rule:        cand.diag.Rule,
			Message:     cand.diag.Message,
			PrimaryPath: formatFilePath(fs, cand.diag.Primary.File),
			EditCount:   total,
		})
	}
	return buffers, applied, skipped
}

func editsOf(b *buffer) int {
	if b == nil {
		return 0
	}
	return b.edits
}

// applyEdits returns a new buffer with edits applied on top of base. Edit
// spans are in original-file coordinates; previously applied edits shift them.
func applyEdits(base *buffer, edits []diag.FixEdit) (*buffer, error) {
	working := append([]byte(nil), base.content...)
	appliedSoFar := append([]diag.FixEdit(nil), base.applied...)

	// с конца к началу, чтобы более ранние правки не сдвигали поздние
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start > edits[j].Span.Start
	})

	for _, edit := range edits {
		start := int(edit.Span.Start) + cumulativeDelta(appliedSoFar, int(edit.Span.Start))
		end := int(edit.Span.End) + cumulativeDelta(appliedSoFar, int(edit.Span.End))
		if start < 0 || end < start || end > len(working) {
			return nil, errors.New("edit span out of range")
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], edit.NewText...), suffix...)
		appliedSoFar = insertEditSorted(appliedSoFar, edit)
	}
	return &buffer{content: working, applied: appliedSoFar, edits: base.edits + len(edits)}, nil
}

func conflictsWithExisting(existing []diag.FixEdit, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits' spans overlap. Spans are half-open;
// two insertions never conflict, and an insertion conflicts with a non-empty
// span only when it falls strictly inside it.
func spansConflict(a, b diag.FixEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.FixEdit) map[source.FileID][]diag.FixEdit {
	buckets := make(map[source.FileID][]diag.FixEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta returns how far pos has moved because of already applied
// edits. Insertions at exactly pos are not counted, so a later insertion at
// the same offset lands in front of earlier ones: closers appended for outer
// elements first end up after the inner ones.
func cumulativeDelta(edits []diag.FixEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart, eEnd := int(e.Span.Start), int(e.Span.End)
		if eStart > pos {
			break
		}
		if eEnd < pos || (eEnd == pos && eStart < eEnd) {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}

func sortedIDs(buffers map[source.FileID]*buffer) []source.FileID {
	ids := make([]source.FileID, 0, len(buffers))
	for id := range buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if fs == nil || int(fileID) >= fs.Len() {
		return ""
	}
	return fs.Get(fileID).FormatPath("auto", fs.BaseDir())
}

package diag

import (
	"fmt"
	"sort"

	"markcheck/internal/source"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, расширяя лимит при необходимости.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if newTotal := len(b.items) + len(other.items); b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file and start offset. The sort is stable, so
// diagnostics at the same position keep their discovery order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i].Primary, b.items[j].Primary
		if di.File != dj.File {
			return di.File < dj.File
		}
		return di.Start < dj.Start
	})
}

// Resolve fills Pos of every diagnostic from its primary span.
func (b *Bag) Resolve(f *source.File) {
	for i := range b.items {
		b.items[i].Pos = f.Position(b.items[i].Primary.Start)
	}
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}

// Transform applies fn to every diagnostic in place.
func (b *Bag) Transform(fn func(*Diagnostic)) {
	for i := range b.items {
		fn(&b.items[i])
	}
}

// простая дедупликация (по Rule+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Rule, d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}

// Package observ measures the phases of a single analysis and sums them
// across pages.
package observ

import "time"

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer records named phases in the order they were started. It is not safe
// for concurrent use: each analysis owns its own Timer.
type Timer struct {
	phases []phase
}

func NewTimer() *Timer { return &Timer{phases: make([]phase, 0, 4)} }

// Begin starts a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.dur = time.Since(p.start)
	p.note = note
}

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is what a Timer looked like when the analysis finished.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note}
	}
	r.TotalMS = millis(total)
	return r
}

// Sum adds reports phase by phase. Phases keep the order of first
// appearance; notes are dropped since they describe single pages.
func Sum(reports ...Report) Report {
	var out Report
	index := make(map[string]int)
	for _, r := range reports {
		out.TotalMS += r.TotalMS
		for _, p := range r.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
	}
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

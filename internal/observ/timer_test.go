package observ

import "testing"

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	a := timer.Begin("tokenize")
	timer.End(a, "3 tokens")
	b := timer.Begin("validate")
	timer.End(b, "")
	timer.End(42, "ignored")

	r := timer.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "tokenize" || r.Phases[0].Note != "3 tokens" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %v below phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}
	if got := NewTimer().Report(); got.Phases != nil || got.TotalMS != 0 {
		t.Fatalf("empty timer report = %+v", got)
	}
}

func TestSum(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "tokenize", DurationMS: 1, Note: "x"}, {Name: "score", DurationMS: 2}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "score", DurationMS: 3}, {Name: "tokenize", DurationMS: 1}}}
	got := Sum(a, b)
	if got.TotalMS != 7 {
		t.Fatalf("total = %v, want 7", got.TotalMS)
	}
	want := []PhaseReport{{Name: "tokenize", DurationMS: 2}, {Name: "score", DurationMS: 5}}
	if len(got.Phases) != len(want) {
		t.Fatalf("phases = %+v", got.Phases)
	}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Fatalf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
}

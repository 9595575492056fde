package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAccumulatesByName(t *testing.T) {
	tm := NewTimer()
	tm.Add("declare", 2*time.Millisecond)
	tm.Add("declare", 3*time.Millisecond)
	tm.Add("apply", time.Millisecond)

	other := NewTimer()
	other.Add("apply", 4*time.Millisecond)
	other.Add("write", time.Millisecond)
	tm.Merge(other)

	r := tm.Report()
	if len(r.Phases) != 3 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].Name != "declare" || r.Phases[0].DurationMS != 5 || r.Phases[0].Count != 2 {
		t.Fatalf("declare = %+v", r.Phases[0])
	}
	if r.Phases[1].DurationMS != 5 || r.Phases[1].Count != 2 {
		t.Fatalf("apply = %+v", r.Phases[1])
	}
	if r.TotalMS != 11 {
		t.Fatalf("total = %v", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "declare") || !strings.Contains(s, "x2") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("x")
	tm.End(idx, "")
	tm.Add("x", time.Second)
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported %+v", r)
	}
}

package pipeline

import "testing"

func TestRecorderAndEmit(t *testing.T) {
	var r Recorder
	Emit(&r, Event{File: "a.rs.stn", Stage: StageRead, Status: StatusWorking})
	Emit(nil, Event{File: "ignored"})
	Emit(&r, Event{File: "a.rs.stn", Stage: StageWrite, Status: StatusDone})
	evs := r.Events()
	if len(evs) != 2 || !evs[1].Status.Terminal() || evs[0].Status.Terminal() {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

package ui

import (
	"strings"
	"testing"

	"stencil/internal/pipeline"
)

func TestApplyEventTracksStages(t *testing.T) {
	m := NewProgressModel("expanding", []string{"a.rs.stn", "b.rs.stn"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a.rs.stn", Stage: pipeline.StageDeclare, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "declaring" {
		t.Fatalf("status = %q, want declaring", got)
	}
	m.applyEvent(pipeline.Event{File: "b.rs.stn", Stage: pipeline.StageRead, Status: pipeline.StatusCached})
	if !m.items[1].final {
		t.Fatalf("cached file must be final")
	}
	m.applyEvent(pipeline.Event{File: "unknown", Stage: pipeline.StageRead, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
	if m.stageLabel != "writing" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}

	got := m.completion()
	want := (1.0/6.0 + 1.0) / 2.0
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("completion = %v, want %v", got, want)
	}
	if view := m.View(); !strings.Contains(view, "a.rs.stn") || !strings.Contains(view, "cached") {
		t.Fatalf("view missing rows:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("internal/very/long/path.rs.stn", 10); got != "interna..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

package ui

import (
	"strings"
	"testing"

	"polyc/internal/driver"
	"polyc/internal/sched"
)

var kinds = []string{driver.KindParsed, driver.KindTypesBuilt, driver.KindCompiled}

func TestApplyEventStatuses(t *testing.T) {
	m := NewProgressModel("compile", []string{"A.jl", "B.jl"}, kinds, nil).(*progressModel)

	steps := []struct {
		ev   sched.Event
		path string
		want string
	}{
		{sched.Event{Path: "A.jl", Kind: driver.KindParsed, State: sched.StateRunning}, "A.jl", "parsing"},
		{sched.Event{Path: "A.jl", Kind: driver.KindParsed, State: sched.StateSuccess}, "A.jl", "parsing"},
		{sched.Event{Path: "B.jl", Kind: driver.KindTypesBuilt, State: sched.StateFailed}, "B.jl", "error"},
		{sched.Event{Path: "B.jl", Kind: driver.KindCompiled, State: sched.StateUnreachable}, "B.jl", "error"},
		{sched.Event{Path: "C.jl", Kind: driver.KindParsed, State: sched.StateRunning}, "C.jl", "parsing"},
		{sched.Event{Path: "A.jl", Kind: driver.KindCompiled, State: sched.StateSuccess}, "A.jl", "done"},
		{sched.Event{Path: "C.jl", Kind: driver.KindCompiled, State: sched.StateUnreachable}, "C.jl", "skipped"},
	}
	for i, st := range steps {
		m.applyEvent(st.ev)
		if got := m.item(st.path).status; got != st.want {
			t.Fatalf("step %d: %s status = %q, want %q", i, st.path, got, st.want)
		}
	}
	if len(m.items) != 3 {
		t.Fatalf("discovered job not appended: %+v", m.items)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
}

func TestPercentCountsSteps(t *testing.T) {
	m := NewProgressModel("compile", []string{"A.jl", "B.jl"}, kinds, nil).(*progressModel)
	m.applyEvent(sched.Event{Path: "A.jl", Kind: driver.KindTypesBuilt, State: sched.StateSuccess})
	// A: 2 of 3 kinds, B: nothing
	want := (2.0 / 3.0) / 2
	if got := m.percent(); got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("percent = %v, want %v", got, want)
	}
}

func TestViewListsJobs(t *testing.T) {
	m := NewProgressModel("compile", []string{"src/A.jl"}, kinds, nil).(*progressModel)
	m.applyEvent(sched.Event{Path: "src/A.jl", Kind: driver.KindParsed, State: sched.StateRunning})
	view := m.View()
	if !strings.Contains(view, "src/A.jl") || !strings.Contains(view, "parsing") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 2, "ab"},
		{"日本語", 4, "..."},
		{"日本語", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

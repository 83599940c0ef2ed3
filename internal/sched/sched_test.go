package sched

import (
	"context"
	"errors"
	"strings"
	"testing"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/source"
)

// harness registers two kinds: "parse" (no prerequisites) and "check",
// which needs parse of its own job and check of every dependency.
type harness struct {
	s    *Scheduler
	bag  *diag.Bag
	rep  *diag.LimitReporter
	runs []string
	// fail makes the named pass report an error
	fail map[string]bool
	// deps are revealed when the job's parse runs
	deps map[string][]string
	// hook runs inside a pass
	hook func(kind string, j *Job) error
}

func newHarness(limit int) *harness {
	h := &harness{bag: diag.NewBag(0), fail: map[string]bool{}, deps: map[string][]string{}}
	h.rep = diag.NewLimitReporter(diag.BagReporter{Bag: h.bag}, limit)
	h.s = New(Config{Reporter: h.rep, Terminal: "check"})
	run := func(kind string) func(context.Context, *Scheduler, *Job) error {
		return func(_ context.Context, s *Scheduler, j *Job) error {
			h.runs = append(h.runs, kind+":"+j.Path)
			if kind == "parse" {
				for _, d := range h.deps[j.Path] {
					j.AddDep(s.AddJob(d, 0, "jl").ID)
				}
			}
			if h.hook != nil {
				if err := h.hook(kind, j); err != nil {
					return err
				}
			}
			if h.fail[kind+":"+j.Path] {
				s.Reporter().Report(diag.SemaError, diag.SevError, source.Span{}, "boom in "+j.Path, nil, nil)
			}
			return nil
		}
	}
	h.s.RegisterKind(Kind{Name: "parse", Run: run("parse")})
	h.s.RegisterKind(Kind{
		Name: "check",
		Prereqs: func(s *Scheduler, j *Job) []GoalID {
			out := []GoalID{s.GoalFor(j.ID, "parse")}
			for _, d := range j.Deps {
				out = append(out, s.GoalFor(d, "check"))
			}
			return out
		},
		Run: run("check"),
	})
	return h
}

func (h *harness) job(path string) JobID { return h.s.AddJob(path, 0, "jl").ID }

func (h *harness) state(path, kind string) State {
	j, ok := h.s.JobByPath(path)
	if !ok {
		return StateNew
	}
	return h.s.Goal(h.s.GoalFor(j.ID, kind)).State
}

func TestGoalMemoized(t *testing.T) {
	h := newHarness(0)
	a := h.job("A")
	if h.s.AddJob("A", 0, "jl").ID != a {
		t.Fatalf("AddJob created a second job for the same path")
	}
	g1 := h.s.GoalFor(a, "check")
	g2 := h.s.GoalFor(a, "check")
	if g1 != g2 {
		t.Fatalf("GoalFor is not memoized: %d != %d", g1, g2)
	}
	if h.s.GoalFor(a, "parse") == g1 {
		t.Fatalf("different kinds share a goal")
	}
}

func TestRunToCompletionOrdersDependencies(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"B", "C"}
	h.deps["B"] = []string{"C"}
	ok, err := h.s.RunToCompletion(context.Background(), h.job("A"))
	if !ok || err != nil {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	want := "parse:A parse:B parse:C check:C check:B check:A"
	if got := strings.Join(h.runs, " "); got != want {
		t.Fatalf("run order:\n got %s\nwant %s", got, want)
	}
	for _, p := range []string{"A", "B", "C"} {
		j, _ := h.s.JobByPath(p)
		if !j.Reached("parse") || !j.Reached("check") {
			t.Fatalf("%s reached %v", p, j.ReachedKinds())
		}
	}
}

func TestPassRunsOnce(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"C"}
	h.deps["B"] = []string{"C"}
	a, b := h.job("A"), h.job("B")
	ctx := context.Background()
	h.s.RunToCompletion(ctx, a)
	h.s.RunToCompletion(ctx, b)
	h.s.RunToCompletion(ctx, a)
	counts := map[string]int{}
	for _, r := range h.runs {
		counts[r]++
	}
	for r, n := range counts {
		if n != 1 {
			t.Fatalf("%s ran %d times", r, n)
		}
	}
	if st := h.s.Stats(); st.Runs != 6 || st.ByState[StateSuccess] != 6 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestFailureIsolation(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"B"}
	h.fail["check:B"] = true
	ctx := context.Background()
	a, c := h.job("A"), h.job("C")

	ok, err := h.s.RunToCompletion(ctx, a)
	if ok || err != nil {
		t.Fatalf("RunToCompletion(A) = %v, %v; want false, nil", ok, err)
	}
	if st := h.state("B", "check"); st != StateFailed {
		t.Fatalf("check(B) = %s, want failed", st)
	}
	if st := h.state("A", "check"); st != StateUnreachable {
		t.Fatalf("check(A) = %s, want unreachable", st)
	}
	if h.bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want the one from B", h.bag.Len())
	}

	// an unrelated job is unaffected
	if ok, err := h.s.RunToCompletion(ctx, c); !ok || err != nil {
		t.Fatalf("RunToCompletion(C) = %v, %v", ok, err)
	}
}

func TestStatesAreMonotonic(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"B"}
	h.fail["check:B"] = true
	var seen = map[GoalID][]State{}
	h.s.Observe(func(ev Event) { seen[ev.Goal] = append(seen[ev.Goal], ev.State) })
	h.s.RunToCompletion(context.Background(), h.job("A"))

	for id, states := range seen {
		prev := StateNew
		for _, st := range states {
			if prev.Terminal() {
				t.Fatalf("goal %d left terminal state %s for %s", id, prev, st)
			}
			if st == StateRunning && prev != StateNew {
				t.Fatalf("goal %d ran twice", id)
			}
			prev = st
		}
		if !prev.Terminal() {
			t.Fatalf("goal %d ended in %s", id, prev)
		}
	}
}

func TestCycleReportedOnce(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"B"}
	h.deps["B"] = []string{"C"}
	h.deps["C"] = []string{"A"}
	h.deps["D"] = []string{"A"}
	ctx := context.Background()
	ok, err := h.s.RunToCompletion(ctx, h.job("A"))
	if ok || err != nil {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	// a second request must not report the cycle again
	h.s.RunToCompletion(ctx, h.job("D"))

	var cycles int
	for _, d := range h.bag.Items() {
		if d.Code == diag.SchedGoalCycle {
			cycles++
			for _, p := range []string{"check(A)", "check(B)", "check(C)"} {
				if !strings.Contains(d.Message, p) {
					t.Fatalf("cycle message %q does not name %s", d.Message, p)
				}
			}
		}
	}
	if cycles != 1 {
		t.Fatalf("cycle reported %d times", cycles)
	}
	for _, p := range []string{"A", "B", "C", "D"} {
		if st := h.state(p, "check"); st != StateUnreachable {
			t.Fatalf("check(%s) = %s, want unreachable", p, st)
		}
		if st := h.state(p, "parse"); st != StateSuccess {
			t.Fatalf("parse(%s) = %s", p, st)
		}
	}
	for _, g := range h.s.goals[1:] {
		if g.State == StateRunning || g.State == StateNew {
			t.Fatalf("%s left in %s", g, g.State)
		}
	}
	for _, r := range h.runs {
		if strings.HasPrefix(r, "check:") {
			t.Fatalf("a check pass ran on the cycle: %v", h.runs)
		}
	}
}

func TestReentrantCycleDoomsRunningGoal(t *testing.T) {
	h := newHarness(0)
	a := h.job("A")
	h.hook = func(kind string, j *Job) error {
		if kind == "check" {
			// the pass asks for its own goal
			h.s.Reach(context.Background(), h.s.GoalFor(j.ID, "check"))
		}
		return nil
	}
	ok, err := h.s.RunToCompletion(context.Background(), a)
	if ok || err != nil {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	if st := h.state("A", "check"); st != StateUnreachable {
		t.Fatalf("check(A) = %s, want unreachable", st)
	}
	if h.bag.Len() != 1 || h.bag.Items()[0].Code != diag.SchedGoalCycle {
		t.Fatalf("want one cycle diagnostic, got %d", h.bag.Len())
	}
}

func TestGoalIsRunningDuringItsPass(t *testing.T) {
	h := newHarness(0)
	a := h.job("A")
	var inside State
	h.hook = func(kind string, j *Job) error {
		if kind == "check" {
			inside = h.s.Goal(h.s.GoalFor(j.ID, "check")).State
		}
		return nil
	}
	if ok, err := h.s.RunToCompletion(context.Background(), a); !ok || err != nil {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	if inside != StateRunning {
		t.Fatalf("state inside the pass = %s, want running", inside)
	}
	if st := h.state("A", "check"); st != StateSuccess {
		t.Fatalf("check(A) = %s, want success", st)
	}
}

func TestNestedCycleDoomsEveryRunningGoal(t *testing.T) {
	h := newHarness(0)
	a, b := h.job("A"), h.job("B")
	ctx := context.Background()
	// check(A) needs check(B) from inside its pass, and check(B) asks back
	h.hook = func(kind string, j *Job) error {
		if kind != "check" {
			return nil
		}
		switch j.ID {
		case a:
			h.s.Reach(ctx, h.s.GoalFor(b, "check"))
		case b:
			h.s.Reach(ctx, h.s.GoalFor(a, "check"))
		}
		return nil
	}
	if ok, err := h.s.RunToCompletion(ctx, a); ok || err != nil {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	for _, p := range []string{"A", "B"} {
		if st := h.state(p, "check"); st != StateUnreachable {
			t.Fatalf("check(%s) = %s, want unreachable", p, st)
		}
	}
	if h.bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want one cycle", h.bag.Len())
	}
	msg := h.bag.Items()[0].Message
	for _, p := range []string{"check(A)", "check(B)"} {
		if !strings.Contains(msg, p) {
			t.Fatalf("cycle message %q does not name %s", msg, p)
		}
	}
	if len(h.s.trail) != 0 {
		t.Fatalf("trail not unwound: %v", h.s.trail)
	}
}

func TestInternalErrorAborts(t *testing.T) {
	h := newHarness(0)
	h.deps["A"] = []string{"B"}
	h.hook = func(kind string, j *Job) error {
		if kind == "check" && j.Path == "B" {
			return errors.New("broken")
		}
		return nil
	}
	ok, err := h.s.RunToCompletion(context.Background(), h.job("A"))
	var ie *InternalError
	if ok || !errors.As(err, &ie) {
		t.Fatalf("RunToCompletion = %v, %v; want internal error", ok, err)
	}
	if st := h.state("B", "check"); st != StateFailed {
		t.Fatalf("check(B) = %s, want failed", st)
	}
	// aborted: nothing else runs
	before := len(h.runs)
	h.s.RunToCompletion(context.Background(), h.job("E"))
	if len(h.runs) != before {
		t.Fatalf("passes ran after abort: %v", h.runs[before:])
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	h := newHarness(0)
	h.hook = func(kind string, j *Job) error {
		if kind == "check" {
			tree := ast.NewTree(j.File, 1)
			id := tree.New(ast.Node{Kind: ast.KindLit})
			tree.Expect(id, ast.KindClassDecl)
		}
		return nil
	}
	_, err := h.s.RunToCompletion(context.Background(), h.job("A"))
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want *InternalError", err)
	}
	var inv ast.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("invariant panic lost: %v", err)
	}
}

func TestErrorLimitAborts(t *testing.T) {
	h := newHarness(1)
	h.fail["check:B"] = true
	h.deps["A"] = []string{"B"}
	_, err := h.s.RunToCompletion(context.Background(), h.job("A"))
	if !errors.Is(err, ErrErrorLimit) {
		t.Fatalf("err = %v, want ErrErrorLimit", err)
	}
}

func TestContextCancel(t *testing.T) {
	h := newHarness(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := h.s.RunToCompletion(ctx, h.job("A"))
	if ok || !errors.Is(err, context.Canceled) {
		t.Fatalf("RunToCompletion = %v, %v", ok, err)
	}
	if len(h.runs) != 0 {
		t.Fatalf("passes ran after cancel: %v", h.runs)
	}
}

// Package sched drives compilation units through their goals. A goal is
// reached by first reaching its prerequisites, which may belong to other
// jobs; each goal's pass runs at most once.
package sched

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"polyc/internal/diag"
	"polyc/internal/observ"
	"polyc/internal/source"
	"polyc/internal/trace"
)

// Reporter is the diagnostics sink the scheduler counts errors with.
// *diag.LimitReporter satisfies it.
type Reporter interface {
	diag.Reporter
	Errors() int
	Exceeded() bool
}

// Event is sent to observers on every goal state change.
type Event struct {
	Goal  GoalID
	Job   JobID
	Path  string
	Kind  string
	State State
	// Dur is set when a pass finished.
	Dur time.Duration
}

type Observer func(Event)

// Config is what the scheduler needs from the driver.
type Config struct {
	Reporter Reporter
	// Terminal is the kind RunToCompletion reaches.
	Terminal string
	Tracer   trace.Tracer
	Timer    *observ.Timer
}

// Stats summarizes a run.
type Stats struct {
	Jobs    int
	Goals   int
	Runs    int
	ByState map[State]int
}

type goalKey struct {
	job  JobID
	kind string
}

type frame struct {
	goal    GoalID
	prereqs []GoalID
	next    int
}

// Scheduler owns the job registry and the goal cache. It is single-threaded.
type Scheduler struct {
	cfg   Config
	kinds map[string]*Kind
	order []string

	jobs   []*Job // jobs[0] is a placeholder
	byPath map[string]JobID

	goals  []*Goal // goals[0] is a placeholder
	byKey  map[goalKey]GoalID
	active map[GoalID]bool // on some worklist
	// goals whose pass is running; a cycle through one of them dooms it
	running map[GoalID]bool
	doomed  map[GoalID]bool
	// trail is every in-progress goal in request order: worklist frames and
	// running passes, across nested Reach calls
	trail []GoalID

	observers []Observer
	runs      int
	err       error
}

func New(cfg Config) *Scheduler {
	if cfg.Reporter == nil {
		cfg.Reporter = diag.NewLimitReporter(diag.NopReporter, 0)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	return &Scheduler{
		cfg:     cfg,
		kinds:   make(map[string]*Kind),
		jobs:    []*Job{nil},
		byPath:  make(map[string]JobID),
		goals:   []*Goal{nil},
		byKey:   make(map[goalKey]GoalID),
		active:  make(map[GoalID]bool),
		running: make(map[GoalID]bool),
		doomed:  make(map[GoalID]bool),
	}
}

// RegisterKind adds a goal kind. Registering a name twice is a programming error.
func (s *Scheduler) RegisterKind(k Kind) {
	if _, dup := s.kinds[k.Name]; dup {
		panic("sched: goal kind registered twice: " + k.Name)
	}
	kk := k
	s.kinds[k.Name] = &kk
	s.order = append(s.order, k.Name)
}

// Kinds lists the registered kinds in registration order.
func (s *Scheduler) Kinds() []string { return append([]string(nil), s.order...) }

// Observe adds fn to the observers of goal state changes.
func (s *Scheduler) Observe(fn Observer) {
	s.observers = append(s.observers, fn)
}

// AddJob returns the job for path, creating it on first request.
func (s *Scheduler) AddJob(path string, file source.FileID, lang string) *Job {
	if id, ok := s.byPath[path]; ok {
		return s.jobs[id]
	}
	id := JobID(len(s.jobs))
	j := &Job{ID: id, Path: path, File: file, Lang: lang, reached: make(map[string]bool)}
	s.jobs = append(s.jobs, j)
	s.byPath[path] = id
	return j
}

// Job returns the job with id, or nil.
func (s *Scheduler) Job(id JobID) *Job {
	if id == NoJobID || int(id) >= len(s.jobs) {
		return nil
	}
	return s.jobs[id]
}

// JobByPath looks a job up by its source path.
func (s *Scheduler) JobByPath(path string) (*Job, bool) {
	id, ok := s.byPath[path]
	if !ok {
		return nil, false
	}
	return s.jobs[id], true
}

// Jobs returns every job in creation order.
func (s *Scheduler) Jobs() []*Job { return append([]*Job(nil), s.jobs[1:]...) }

// GoalFor returns the goal for (job, kind), creating it on first request.
func (s *Scheduler) GoalFor(job JobID, kind string) GoalID {
	key := goalKey{job, kind}
	if id, ok := s.byKey[key]; ok {
		return id
	}
	if _, ok := s.kinds[kind]; !ok {
		panic(fmt.Sprintf("sched: unknown goal kind %q", kind))
	}
	if s.Job(job) == nil {
		panic(fmt.Sprintf("sched: goal %s for unknown job %d", kind, job))
	}
	id := GoalID(len(s.goals))
	s.goals = append(s.goals, &Goal{ID: id, Job: job, Kind: kind})
	s.byKey[key] = id
	return id
}

// Goal returns the goal with id, or nil.
func (s *Scheduler) Goal(id GoalID) *Goal {
	if id == NoGoalID || int(id) >= len(s.goals) {
		return nil
	}
	return s.goals[id]
}

// Err is the error that aborted the run, if any.
func (s *Scheduler) Err() error { return s.err }

func (s *Scheduler) Reporter() Reporter { return s.cfg.Reporter }

func (s *Scheduler) Stats() Stats {
	st := Stats{Jobs: len(s.jobs) - 1, Goals: len(s.goals) - 1, Runs: s.runs, ByState: make(map[State]int)}
	for _, g := range s.goals[1:] {
		st.ByState[g.State]++
	}
	return st
}

// RunToCompletion reaches the terminal goal of job. ok is true only when
// it succeeded; err is the abort reason.
func (s *Scheduler) RunToCompletion(ctx context.Context, job JobID) (bool, error) {
	st := s.Reach(ctx, s.GoalFor(job, s.cfg.Terminal))
	return st == StateSuccess, s.err
}

// Reach brings goal id to a terminal state, reaching its prerequisites first.
func (s *Scheduler) Reach(ctx context.Context, id GoalID) Result {
	g := s.goals[id]
	if g.State.Terminal() {
		return g.State
	}
	if s.active[id] || s.running[id] {
		// re-entrant request for a goal being worked on
		s.cycle(id)
		return s.goals[id].State
	}

	base := len(s.trail)
	stack := []*frame{s.push(id)}
	for len(stack) > 0 {
		if s.err == nil && ctx.Err() != nil {
			s.err = ctx.Err()
		}
		if s.err != nil {
			// aborted: nothing else runs
			for _, f := range stack {
				delete(s.active, f.goal)
				s.finish(s.goals[f.goal], StateUnreachable, 0)
			}
			s.trail = s.trail[:base]
			break
		}

		f := stack[len(stack)-1]
		g := s.goals[f.goal]
		if g.State.Terminal() {
			stack = s.pop(stack)
			continue
		}

		if f.next == len(f.prereqs) {
			if more := newGoals(f.prereqs, s.prereqs(g)); len(more) > 0 {
				f.prereqs = append(f.prereqs, more...)
				continue
			}
			stack = s.pop(stack)
			if s.succeeded(f.prereqs) {
				s.run(ctx, g)
			} else {
				s.finish(g, StateUnreachable, 0)
			}
			continue
		}

		p := s.goals[f.prereqs[f.next]]
		f.next++
		switch {
		case p.State == StateSuccess:
		case p.State.Terminal():
			// failure propagates without running the rest
			stack = s.pop(stack)
			s.finish(g, StateUnreachable, 0)
		case s.active[p.ID] || s.running[p.ID]:
			s.cycle(p.ID)
		default:
			stack = append(stack, s.push(p.ID))
		}
	}
	return s.goals[id].State
}

func (s *Scheduler) push(id GoalID) *frame {
	s.active[id] = true
	s.trail = append(s.trail, id)
	return &frame{goal: id}
}

func (s *Scheduler) pop(stack []*frame) []*frame {
	top := stack[len(stack)-1]
	delete(s.active, top.goal)
	if n := len(s.trail); n > 0 && s.trail[n-1] == top.goal {
		s.trail = s.trail[:n-1]
	}
	stack[len(stack)-1] = nil
	return stack[:len(stack)-1]
}

// newGoals returns the ids of fresh that are not in seen, in fresh's order.
func newGoals(seen, fresh []GoalID) []GoalID {
	var out []GoalID
	for _, id := range fresh {
		if !slices.Contains(seen, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Scheduler) succeeded(ids []GoalID) bool {
	for _, id := range ids {
		if s.goals[id].State != StateSuccess {
			return false
		}
	}
	return true
}

func (s *Scheduler) prereqs(g *Goal) []GoalID {
	k := s.kinds[g.Kind]
	if k.Prereqs == nil {
		return nil
	}
	return k.Prereqs(s, s.jobs[g.Job])
}

// cycle handles a request for target while it is in progress. The cycle
// is the trail from target on; it also covers goals whose
// passes are running in outer Reach calls.
func (s *Scheduler) cycle(target GoalID) {
	members := []GoalID{target}
	if i := slices.Index(s.trail, target); i >= 0 {
		members = slices.Clone(s.trail[i:])
	}

	names := make([]string, 0, len(members)+1)
	for _, id := range members {
		names = append(names, s.describe(id))
	}
	names = append(names, s.describe(target))
	s.cfg.Reporter.Report(diag.SchedGoalCycle, diag.SevError, source.Span{},
		"Goal dependency cycle: "+strings.Join(names, " -> ")+".", nil, nil)
	trace.Point(s.cfg.Tracer, trace.ScopeGoal, "cycle", strings.Join(names, " -> "), 0)

	for _, id := range members {
		if s.running[id] {
			s.doomed[id] = true
			continue
		}
		s.finish(s.goals[id], StateUnreachable, 0)
	}
}

func (s *Scheduler) describe(id GoalID) string {
	g := s.goals[id]
	return g.Kind + "(" + s.jobs[g.Job].Path + ")"
}

func (s *Scheduler) run(ctx context.Context, g *Goal) {
	job := s.jobs[g.Job]
	k := s.kinds[g.Kind]
	g.Attempts++
	s.runs++
	s.running[g.ID] = true
	s.finish(g, StateRunning, 0)
	mark := len(s.trail)
	s.trail = append(s.trail, g.ID)

	before := s.cfg.Reporter.Errors()
	span := trace.BeginGoal(s.cfg.Tracer, g.Kind, job.Path, trace.ParentFrom(ctx))
	err := s.invoke(trace.WithParent(ctx, span.ID()), k, job, g)
	delete(s.running, g.ID)
	s.trail = s.trail[:mark]

	st := s.outcome(g, err, before)
	dur := span.EndState(st.String())
	s.cfg.Timer.Add(g.Kind, dur)
	if st == StateSuccess {
		job.reached[g.Kind] = true
	}
	s.finish(g, st, dur)

	if s.err == nil && s.cfg.Reporter.Exceeded() {
		s.err = ErrErrorLimit
	}
}

// outcome decides the state a goal ends in once its pass returned. An error
// from the pass is internal and aborts the run.
func (s *Scheduler) outcome(g *Goal, err error, errorsBefore int) State {
	switch {
	case err != nil:
		var ie *InternalError
		if !errors.As(err, &ie) {
			err = &InternalError{Goal: s.describe(g.ID), Err: err}
		}
		if s.err == nil {
			s.err = err
		}
		return StateFailed
	case s.doomed[g.ID]:
		delete(s.doomed, g.ID)
		return StateUnreachable
	case s.cfg.Reporter.Errors() > errorsBefore:
		return StateFailed
	}
	return StateSuccess
}

// invoke runs the pass, turning a panic into an internal error.
func (s *Scheduler) invoke(ctx context.Context, k *Kind, job *Job, g *Goal) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			trace.PointAt(s.cfg.Tracer, trace.ScopeGoal, "panic", string(debug.Stack()), trace.Attrs{Job: job.Path, Goal: g.Kind}, trace.ParentFrom(ctx))
			err = &InternalError{Goal: s.describe(g.ID), Err: fmt.Errorf("panic: %w", cause)}
		}
	}()
	if k.Run == nil {
		return nil
	}
	return k.Run(ctx, s, job)
}

func (s *Scheduler) finish(g *Goal, st State, dur time.Duration) {
	if g.State.Terminal() {
		return
	}
	g.State = st
	s.notify(g, st, dur)
}

func (s *Scheduler) notify(g *Goal, st State, dur time.Duration) {
	if len(s.observers) == 0 {
		return
	}
	ev := Event{Goal: g.ID, Job: g.Job, Path: s.jobs[g.Job].Path, Kind: g.Kind, State: st, Dur: dur}
	for _, fn := range s.observers {
		fn(ev)
	}
}

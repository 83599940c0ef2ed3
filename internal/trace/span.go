package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// Attrs say which job and goal an event belongs to. Empty fields are not
// rendered.
type Attrs struct {
	Job   string // source path
	Goal  string // goal kind
	State string // terminal goal state, only on span ends
}

func (a Attrs) empty() bool { return a == Attrs{} }

// Span is an open begin/end pair. A disabled tracer yields an inert span:
// it emits nothing but still measures its duration.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	attrs   Attrs
	started time.Time
}

// Begin emits a SpanBegin event. parent is 0 for a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, Attrs{}, parent)
}

// BeginGoal opens the span of one goal run, named "Kind(path)".
func BeginGoal(t Tracer, kind, job string, parent uint64) *Span {
	return begin(t, ScopeGoal, kind+"("+job+")", Attrs{Job: job, Goal: kind}, parent)
}

func begin(t Tracer, scope Scope, name string, attrs Attrs, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{started: time.Now()}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		attrs:   attrs,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "")
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Attrs:    s.attrs,
	})
}

// End emits SpanEnd and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	if s.tracer != nil {
		s.emit(KindSpanEnd, now, detail)
	}
	return now.Sub(s.started)
}

// EndState closes a goal span with the state the goal ended in.
func (s *Span) EndState(state string) time.Duration {
	if s == nil {
		return 0
	}
	s.attrs.State = state
	return s.End("")
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	PointAt(t, scope, name, detail, Attrs{}, parent)
}

// PointAt is Point with job/goal attributes.
func PointAt(t Tracer, scope Scope, name, detail string, attrs Attrs, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
		Attrs:    attrs,
	})
}

package diag

import "polyc/internal/source"

// Цепочка приёмников драйвера: DedupReporter -> LimitReporter -> BagReporter.
// Дубликаты отсекаются до подсчёта ошибок, иначе они съедали бы лимит.

type findingKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards a finding (code, span, message) once. A repeat at a
// higher severity is forwarded again: the error count decides whether a
// goal failed, so a warning must not hide a later error.
type DedupReporter struct {
	next       Reporter
	seen       map[findingKey]Severity
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[findingKey]Severity)}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	key := findingKey{code: code, span: primary, msg: msg}
	if prev, ok := r.seen[key]; ok && sev <= prev {
		r.suppressed++
		return
	}
	r.seen[key] = sev
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed is the number of repeats that were not forwarded.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}

// LimitReporter counts error diagnostics and stops forwarding them once
// the limit is reached. A limit <= 0 means unlimited.
type LimitReporter struct {
	next    Reporter
	limit   int
	errors  int
	dropped int
}

func NewLimitReporter(next Reporter, limit int) *LimitReporter {
	return &LimitReporter{next: next, limit: limit}
}

func (r *LimitReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	if sev.FailsGoal() {
		if r.Exceeded() {
			r.dropped++
			return
		}
		r.errors++
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Errors returns the number of forwarded error diagnostics.
func (r *LimitReporter) Errors() int {
	if r == nil {
		return 0
	}
	return r.errors
}

// Dropped returns how many errors arrived after the limit was reached.
func (r *LimitReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}

// Exceeded reports whether the error limit has been reached.
func (r *LimitReporter) Exceeded() bool {
	return r != nil && r.limit > 0 && r.errors >= r.limit
}

package sched

import (
	"errors"
	"fmt"
)

// ErrErrorLimit aborts the run once the reporter's error limit is reached.
var ErrErrorLimit = errors.New("too many errors")

// InternalError is a compiler bug surfaced by a pass: a returned error or a
// recovered panic. It aborts the whole run.
type InternalError struct {
	Goal string
	Err  error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.Goal, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

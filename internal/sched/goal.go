package sched

import (
	"context"
	"fmt"
)

// GoalID indexes the goal cache. Zero is never a valid goal.
type GoalID uint32

const NoGoalID GoalID = 0

// State of a goal. New -> Running -> Success|Failed, or New -> Unreachable.
type State uint8

const (
	StateNew State = iota
	StateRunning
	StateSuccess
	StateFailed
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateUnreachable:
		return "unreachable"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Terminal states never change again.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateUnreachable
}

// Result is the outcome of Reach: Success, Failed or Unreachable.
type Result = State

// Goal is "job J has reached kind K".
type Goal struct {
	ID       GoalID
	Job      JobID
	Kind     string
	State    State
	Attempts int
}

func (g *Goal) String() string {
	return fmt.Sprintf("%s(#%d)", g.Kind, g.Job)
}

// Kind describes one kind of goal: what it needs first and what it runs.
type Kind struct {
	Name string
	// Prereqs lists the goals that must succeed before Run. It is called
	// again after they are reached; the list may only grow between calls.
	Prereqs func(s *Scheduler, j *Job) []GoalID
	// Run performs the pass. Diagnostics go to the reporter; an error
	// return is an internal failure that aborts the scheduler.
	Run func(ctx context.Context, s *Scheduler, j *Job) error
}

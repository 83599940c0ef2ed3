package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring only, dumped on internal errors
	LevelDriver              // driver boundaries
	LevelJob                 // + jobs
	LevelGoal                // + goals
	LevelDebug               // everything including node rewrites
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelDriver:
		return "driver"
	case LevelJob:
		return "job"
	case LevelGoal:
		return "goal"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "driver":
		return LevelDriver, nil
	case "job":
		return LevelJob, nil
	case "goal":
		return LevelGoal, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|driver|job|goal|debug)", s)
	}
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		// ring tracers keep everything up to goals so a dump has context
		return scope <= ScopeGoal
	case LevelDriver:
		return scope <= ScopeDriver
	case LevelJob:
		return scope <= ScopeJob
	case LevelGoal:
		return scope <= ScopeGoal
	case LevelDebug:
		return true
	}
	return false
}

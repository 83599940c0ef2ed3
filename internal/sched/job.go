package sched

import (
	"slices"

	"polyc/internal/ast"
	"polyc/internal/source"
)

// JobID indexes the job registry. Zero is never a valid job.
type JobID uint32

const NoJobID JobID = 0

// Job is one compilation unit and everything the passes know about it.
type Job struct {
	ID   JobID
	Path string
	File source.FileID
	Lang string

	// Tree and Root are rebound by every pass.
	Tree *ast.Tree
	Root ast.NodeID

	// Deps grows while the job is processed; it is never shrunk.
	Deps []JobID

	// Data is the driver's per-job payload.
	Data any

	reached map[string]bool
}

// AddDep records that j refers to d. Self references and repeats are ignored.
func (j *Job) AddDep(d JobID) bool {
	if d == NoJobID || d == j.ID || slices.Contains(j.Deps, d) {
		return false
	}
	j.Deps = append(j.Deps, d)
	return true
}

// Reached reports whether the goal of kind succeeded for j.
func (j *Job) Reached(kind string) bool { return j.reached[kind] }

// ReachedKinds lists the kinds reached so far in no particular order.
func (j *Job) ReachedKinds() []string {
	out := make([]string, 0, len(j.reached))
	for k := range j.reached {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

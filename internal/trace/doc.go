// Package trace records what the compiler is doing while it runs.
//
// The scheduler opens one span per goal it runs and emits point events for
// goal state changes; the driver opens a span per compilation and per
// prefetch batch. Tracing is off unless the CLI enables it:
//
//	polyc compile --trace=- --trace-level=goal p/A.jl
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.BeginGoal(trace.FromContext(ctx), "TypeChecked", "p/A.jl", 0)
//	defer span.EndState("success")
//
// Goal spans carry job, goal and final state as attributes.
// Stream tracers write events as they happen, ring tracers keep the last N
// events for a dump after an internal error.
package trace

// Package driver wires the configuration, the file set, the type system and
// the goal scheduler into one compilation run.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"polyc/internal/classpath"
	"polyc/internal/diag"
	"polyc/internal/ext"
	"polyc/internal/observ"
	"polyc/internal/project"
	"polyc/internal/sched"
	"polyc/internal/source"
	"polyc/internal/trace"
	"polyc/internal/types"
)

// Options configure a Compiler. Config paths must already be resolved.
type Options struct {
	Config project.Config
	// Lang overrides Config.Compiler.Extension when set.
	Lang string
	// Sink receives every diagnostic; the compiler counts errors in front of it.
	Sink     diag.Reporter
	Tracer   trace.Tracer
	Timer    *observ.Timer
	Observer sched.Observer
}

// Compiler is a single-use compilation session.
type Compiler struct {
	cfg    project.Compiler
	lang   ext.Language
	files  *source.FileSet
	sys    *types.System
	loader *classpath.Loader
	rep    *diag.LimitReporter
	// report is what passes see: duplicates are dropped before counting.
	report *diag.DedupReporter
	sched  *sched.Scheduler
	src    project.SourcePath
	tracer trace.Tracer
	timer  *observ.Timer

	// classes maps a class name to the job expected to declare it.
	classes map[string]sched.JobID
}

// UnitResult is the outcome for one job.
type UnitResult struct {
	Path      string
	Job       sched.JobID
	Requested bool
	OK        bool
	Reached   []string
	// Output is the translated file, if any.
	Output string
}

// Result summarizes a Compile call.
type Result struct {
	// OK is true iff every requested file reached the terminal goal.
	OK         bool
	Units      []UnitResult
	Errors     int
	Dropped    int
	Duplicates int // repeated diagnostics that were not reported again
	Stats      sched.Stats
}

func New(opts Options) (*Compiler, error) {
	cc := opts.Config.Compiler
	name := cc.Extension
	if opts.Lang != "" {
		name = opts.Lang
	}
	if name == "" {
		name = ext.Default
	}
	lang, err := ext.Lookup(name)
	if err != nil {
		return nil, err
	}
	for _, dir := range cc.ClassPath {
		if err := project.CheckRoot(dir); err != nil {
			return nil, fmt.Errorf("class path: %w", err)
		}
	}
	if cc.SourceExt == "" {
		cc.SourceExt = project.DefaultSourceExt
	}
	if cc.OutputExt == "" {
		cc.OutputExt = project.DefaultOutputExt
	}

	sink := opts.Sink
	if sink == nil {
		sink = diag.NopReporter
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	base := opts.Config.Root
	if base == "" {
		if wd, err := os.Getwd(); err == nil {
			base = wd
		}
	}

	roots := make([]string, 0, len(cc.SourcePath))
	for _, r := range cc.SourcePath {
		roots = append(roots, canonical(r))
	}

	c := &Compiler{
		cfg:     cc,
		lang:    lang,
		files:   source.NewFileSetWithBase(base),
		loader:  classpath.New(cc.ClassPath...),
		rep:     diag.NewLimitReporter(sink, cc.ErrorLimit),
		src:     project.SourcePath{Roots: roots, Ext: cc.SourceExt},
		tracer:  tracer,
		timer:   opts.Timer,
		classes: make(map[string]sched.JobID),
	}
	c.report = diag.NewDedupReporter(c.rep)
	c.sys = types.NewSystem(types.NewInterner(), c.loader)
	c.sched = sched.New(sched.Config{
		Reporter: c.rep,
		Terminal: KindCompiled,
		Tracer:   tracer,
		Timer:    opts.Timer,
	})
	c.registerGoals()
	if opts.Observer != nil {
		c.sched.Observe(opts.Observer)
	}
	return c, nil
}

func (c *Compiler) Files() *source.FileSet      { return c.files }
func (c *Compiler) Scheduler() *sched.Scheduler { return c.sched }
func (c *Compiler) System() *types.System       { return c.sys }
func (c *Compiler) Language() ext.Language      { return c.lang }

// Compile parses paths, then drives every unit to the terminal goal, units
// found on the source path included. The returned error is an internal
// error, the error limit or a cancelled context; ordinary compile errors only
// show up as diagnostics and a false Result.OK.
func (c *Compiler) Compile(ctx context.Context, paths []string) (*Result, error) {
	span := trace.Begin(c.tracer, trace.ScopeDriver, "compile", trace.ParentFrom(ctx))
	ctx = trace.WithParent(ctx, span.ID())

	c.begin("driver:prefetch")
	units, err := Prefetch(ctx, c.files, c.lang.Factory, canonicalAll(paths), c.cfg.Jobs)
	c.end("driver:prefetch", fmt.Sprintf("%d files", len(units)))
	if err != nil {
		span.End("prefetch failed")
		return nil, err
	}

	res := &Result{OK: true}
	for _, u := range units {
		if u.Err != nil {
			res.OK = false
			diag.ReportError(c.report, diag.ProjMissingSource, source.Span{},
				fmt.Sprintf("cannot read source file %s: %v", u.Path, u.Err)).Emit()
			res.Units = append(res.Units, UnitResult{Path: u.Path, Requested: true})
		}
	}

	requested := c.plan(units)

	c.begin("driver:schedule")
	err = c.drive(ctx, requested)
	c.end("driver:schedule", "")

	for _, job := range c.sched.Jobs() {
		u := job.Data.(*unit)
		ur := UnitResult{
			Path:      job.Path,
			Job:       job.ID,
			Requested: u.requested,
			OK:        job.Reached(KindCompiled),
			Reached:   job.ReachedKinds(),
			Output:    u.output,
		}
		if u.requested && !ur.OK {
			res.OK = false
		}
		res.Units = append(res.Units, ur)
	}
	res.Errors = c.rep.Errors()
	res.Dropped = c.rep.Dropped()
	res.Duplicates = c.report.Suppressed()
	res.Stats = c.sched.Stats()
	if err != nil {
		res.OK = false
	}
	span.End(fmt.Sprintf("ok=%t errors=%d duplicates=%d", res.OK, res.Errors, res.Duplicates))
	return res, err
}

// drive reaches the terminal goal for the requested jobs in order, then for
// every job discovered on the way.
func (c *Compiler) drive(ctx context.Context, requested []sched.JobID) error {
	for _, id := range requested {
		if _, err := c.sched.RunToCompletion(ctx, id); err != nil {
			return err
		}
	}
	// the registry may grow while we iterate
	for i := 0; i < len(c.sched.Jobs()); i++ {
		job := c.sched.Jobs()[i]
		if job.Data.(*unit).requested {
			continue
		}
		if _, err := c.sched.RunToCompletion(ctx, job.ID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) begin(phase string) {
	if c.timer != nil {
		c.timer.Begin(phase)
	}
}

func (c *Compiler) end(phase, note string) {
	if c.timer != nil {
		c.timer.End(phase, note)
	}
}

func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// canonicalAll drops repeated paths, keeping the first spelling's position.
func canonicalAll(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		cp := canonical(p)
		if seen[cp] {
			continue
		}
		seen[cp] = true
		out = append(out, cp)
	}
	return out
}

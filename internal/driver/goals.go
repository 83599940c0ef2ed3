package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"polyc/internal/ast"
	"polyc/internal/classpath"
	"polyc/internal/diag"
	"polyc/internal/parser"
	"polyc/internal/sched"
	"polyc/internal/sema"
	"polyc/internal/source"
)

// Goal kinds, in pipeline order.
const (
	KindParsed           = "Parsed"
	KindTypesBuilt       = "TypesBuilt"
	KindDisambiguated    = "Disambiguated"
	KindTypeChecked      = "TypeChecked"
	KindExceptionChecked = "ExceptionChecked"
	KindTranslated       = "Translated"
	KindCompiled         = "Compiled"
)

type passFunc func(*sema.Env, *ast.Tree, ast.NodeID) (ast.NodeID, error)

func (c *Compiler) registerGoals() {
	s := c.sched
	s.RegisterKind(sched.Kind{Name: KindParsed, Run: c.parse})
	s.RegisterKind(sched.Kind{
		Name:    KindTypesBuilt,
		Prereqs: own(KindParsed),
		Run:     c.pass(sema.BuildTypes),
	})
	s.RegisterKind(sched.Kind{
		Name: KindDisambiguated,
		Prereqs: func(s *sched.Scheduler, job *sched.Job) []sched.GoalID {
			out := []sched.GoalID{s.GoalFor(job.ID, KindTypesBuilt)}
			for _, d := range job.Deps {
				out = append(out, s.GoalFor(d, KindTypesBuilt))
			}
			return out
		},
		Run: c.pass(sema.Disambiguate),
	})
	s.RegisterKind(sched.Kind{
		Name: KindTypeChecked,
		Prereqs: func(s *sched.Scheduler, job *sched.Job) []sched.GoalID {
			out := []sched.GoalID{s.GoalFor(job.ID, KindDisambiguated)}
			for _, d := range transitiveDeps(s, job) {
				out = append(out, s.GoalFor(d, KindDisambiguated))
			}
			return out
		},
		Run: c.pass(sema.TypeCheck),
	})
	s.RegisterKind(sched.Kind{
		Name:    KindExceptionChecked,
		Prereqs: own(KindTypeChecked),
		Run:     c.pass(sema.ExceptionCheck),
	})
	final := []string{KindExceptionChecked}
	if c.cfg.OutputDir != "" {
		s.RegisterKind(sched.Kind{
			Name:    KindTranslated,
			Prereqs: own(KindExceptionChecked),
			Run:     c.translate,
		})
		final = append(final, KindTranslated)
	}
	s.RegisterKind(sched.Kind{
		Name:    KindCompiled,
		Prereqs: own(final...),
		Run:     c.exportSigs,
	})
}

// own makes the prerequisites "kinds of the same job".
func own(kinds ...string) func(*sched.Scheduler, *sched.Job) []sched.GoalID {
	return func(s *sched.Scheduler, job *sched.Job) []sched.GoalID {
		out := make([]sched.GoalID, len(kinds))
		for i, k := range kinds {
			out[i] = s.GoalFor(job.ID, k)
		}
		return out
	}
}

// transitiveDeps lists the known dependencies of job breadth first. It grows
// as dependencies get parsed.
func transitiveDeps(s *sched.Scheduler, job *sched.Job) []sched.JobID {
	seen := map[sched.JobID]bool{job.ID: true}
	queue := append([]sched.JobID(nil), job.Deps...)
	var out []sched.JobID
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
		queue = append(queue, s.Job(d).Deps...)
	}
	return out
}

func (c *Compiler) env(job *sched.Job) *sema.Env {
	u := job.Data.(*unit)
	if u.env == nil {
		u.env = &sema.Env{
			Sys:      c.sys,
			Reporter: c.report,
			Factory:  c.lang.Factory,
			Path:     job.Path,
			Options:  c.lang.Options,
		}
	}
	return u.env
}

// pass runs a semantic pass over the job's tree and rebinds the new root.
func (c *Compiler) pass(fn passFunc) func(context.Context, *sched.Scheduler, *sched.Job) error {
	return func(_ context.Context, _ *sched.Scheduler, job *sched.Job) error {
		root, err := fn(c.env(job), job.Tree, job.Root)
		if err != nil {
			return err
		}
		job.Root = root
		return nil
	}
}

// parse binds the prefetched tree, or reads and parses a file found on the
// source path, then discovers the job's dependencies.
func (c *Compiler) parse(_ context.Context, _ *sched.Scheduler, job *sched.Job) error {
	u := job.Data.(*unit)
	if pre := u.pre; pre != nil {
		for _, d := range pre.Bag.Items() {
			c.report.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		}
		job.Tree, job.Root = pre.Tree, pre.Root
		u.pre = nil
	} else {
		id, err := c.files.Load(job.Path)
		if err != nil {
			diag.ReportError(c.report, diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("failed to load file %s: %v", job.Path, err)).
				WithNote(source.Span{}, "the file was found on the source path").
				Emit()
			return nil
		}
		job.File = id
		job.Tree = ast.NewTree(id, 256)
		job.Root = parser.ParseFile(c.files.Get(id), ast.NewBuilder(job.Tree, c.lang.Factory), c.report)
		u.meta = unitMeta(job.Path, job.Tree, job.Root)
	}
	c.linkDeps(job, u)
	return nil
}

func (c *Compiler) translate(_ context.Context, _ *sched.Scheduler, job *sched.Job) error {
	u := job.Data.(*unit)
	var buf bytes.Buffer
	if err := sema.Translate(c.env(job), job.Tree, job.Root, &buf); err != nil {
		return fmt.Errorf("translate %s: %w", job.Path, err)
	}
	path := c.outputPath(job, u)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		c.reportWrite(path, err)
		return nil
	}
	// #nosec G306 -- translated sources are meant to be readable
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		c.reportWrite(path, err)
		return nil
	}
	u.output = path
	return nil
}

// exportSigs writes a signature file for every class the job declares so
// that later runs can put the directory on their class path.
func (c *Compiler) exportSigs(_ context.Context, _ *sched.Scheduler, job *sched.Job) error {
	if c.cfg.SignatureDir == "" {
		return nil
	}
	u := job.Data.(*unit)
	in := c.sys.Interner()
	for _, class := range u.meta.Classes {
		id, ok := in.ClassByName(class)
		if !ok {
			continue
		}
		if info := in.Class(id); info == nil || info.Source != job.Path {
			// объявлен другим юнитом
			continue
		}
		sig := in.ExportSig(id)
		if sig == nil {
			continue
		}
		if path, err := classpath.Write(c.cfg.SignatureDir, sig); err != nil {
			c.reportWrite(path, err)
		}
	}
	return nil
}

func (c *Compiler) reportWrite(path string, err error) {
	diag.ReportError(c.report, diag.IOWriteFileError, source.Span{},
		fmt.Sprintf("cannot write %s: %v", path, err)).Emit()
}

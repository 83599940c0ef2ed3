package driver

import (
	"path/filepath"
	"strings"

	"polyc/internal/ast"
	"polyc/internal/project"
	"polyc/internal/project/dag"
	"polyc/internal/sched"
	"polyc/internal/sema"
	"polyc/internal/source"
	"polyc/internal/trace"
)

// unit is the driver's payload in sched.Job.Data.
type unit struct {
	requested bool
	pre       *Prefetched
	meta      project.UnitMeta
	env       *sema.Env
	output    string
}

// plan registers one job per readable prefetched file, dependencies first,
// and returns their ids in request order.
func (c *Compiler) plan(units []Prefetched) []sched.JobID {
	metas := make([]project.UnitMeta, 0, len(units))
	byPath := make(map[string]*Prefetched, len(units))
	for i := range units {
		u := &units[i]
		if u.Err != nil {
			continue
		}
		byPath[u.Path] = u
		metas = append(metas, unitMeta(u.Path, u.Tree, u.Root))
	}
	idx := dag.BuildIndex(metas)
	topo := dag.ToposortKahn(dag.BuildGraph(idx, metas))

	metaByPath := make(map[string]project.UnitMeta, len(metas))
	for _, m := range metas {
		metaByPath[m.Path] = m
	}
	order := make([]sched.JobID, 0, len(metas))
	for _, id := range topo.RequestOrder() {
		path := idx.IDToPath[id]
		pre := byPath[path]
		job := c.addJob(path, pre.File, &unit{requested: true, pre: pre, meta: metaByPath[path]})
		order = append(order, job.ID)
	}
	for class, id := range idx.ClassToID {
		if job, ok := c.sched.JobByPath(idx.IDToPath[id]); ok {
			c.classes[class] = job.ID
		}
	}
	return order
}

func (c *Compiler) addJob(path string, file source.FileID, u *unit) *sched.Job {
	job := c.sched.AddJob(path, file, c.lang.Name)
	if job.Data == nil {
		job.Data = u
	}
	return job
}

// lookupClass finds the job declaring class, adding a job for a file on the
// source path when no known unit declares it.
func (c *Compiler) lookupClass(class string) (sched.JobID, bool) {
	if id, ok := c.classes[class]; ok {
		return id, true
	}
	path, ok := c.src.Find(class)
	if !ok {
		return sched.NoJobID, false
	}
	job := c.addJob(canonical(path), 0, &unit{})
	c.classes[class] = job.ID
	trace.PointAt(c.tracer, trace.ScopeJob, "discover", class, trace.Attrs{Job: job.Path}, 0)
	return job.ID, true
}

// linkDeps records the jobs whose classes job may refer to.
func (c *Compiler) linkDeps(job *sched.Job, u *unit) {
	for _, class := range u.meta.Classes {
		if _, ok := c.classes[class]; !ok {
			c.classes[class] = job.ID
		}
	}
	names := make([]string, 0, len(u.meta.Imports)+len(u.meta.Refs))
	for _, imp := range u.meta.Imports {
		if !strings.HasSuffix(imp.Name, ".*") {
			names = append(names, imp.Name)
		}
	}
	names = append(names, u.meta.Refs...)
	for _, name := range names {
		if _, prim := c.sys.Interner().PrimitiveByName(name); prim {
			continue
		}
		for _, cand := range u.meta.Candidates(name) {
			if id, ok := c.lookupClass(cand); ok {
				job.AddDep(id)
				break
			}
		}
	}
}

// unitMeta collects the package, declared classes, imports and every type
// or simple name a unit mentions.
func unitMeta(path string, tree *ast.Tree, root ast.NodeID) project.UnitMeta {
	meta := project.UnitMeta{Path: path}
	if tree == nil || !root.IsValid() {
		return meta
	}
	file := tree.Node(root)
	if file.Kind != ast.KindSourceFile {
		return meta
	}
	meta.Package = file.Name
	meta.Span = file.Span
	for _, imp := range tree.Node(file.Kid(0)).Kids {
		n := tree.Node(imp)
		meta.Imports = append(meta.Imports, project.ImportMeta{Name: n.Name, Span: n.Span})
	}
	for _, decl := range tree.Node(file.Kid(1)).Kids {
		if n := tree.Node(decl); n.Kind == ast.KindClassDecl {
			meta.Classes = append(meta.Classes, qualify(meta.Package, n.Name))
		}
	}
	seen := make(map[string]bool)
	ref := func(name string) {
		if name != "" && !seen[name] && project.IsValidQualifiedName(name) {
			seen[name] = true
			meta.Refs = append(meta.Refs, name)
		}
	}
	ast.Walk(tree, root, func(id ast.NodeID, n *ast.Node) bool {
		switch n.Kind {
		case ast.KindTypeNode, ast.KindName:
			ref(n.Name)
		case ast.KindField:
			// "p.B.k()" names class p.B only through its receiver chain
			if name, ok := dottedName(tree, id); ok {
				ref(name)
			}
		}
		return true
	})
	return meta
}

// dottedName renders a field chain rooted at a bare name ("p.B.x").
func dottedName(tree *ast.Tree, id ast.NodeID) (string, bool) {
	if !id.IsValid() {
		return "", false
	}
	n := tree.Node(id)
	switch n.Kind {
	case ast.KindName:
		return n.Name, n.Name != ""
	case ast.KindField:
		prefix, ok := dottedName(tree, n.Kid(0))
		if !ok {
			return "", false
		}
		return prefix + "." + n.Name, true
	}
	return "", false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// outputPath is <out>/<pkg>/<Name>.<ext>, Name being the first declared
// class or the file's base name.
func (c *Compiler) outputPath(job *sched.Job, u *unit) string {
	name := strings.TrimSuffix(filepath.Base(job.Path), filepath.Ext(job.Path))
	if len(u.meta.Classes) > 0 {
		cls := u.meta.Classes[0]
		name = cls[strings.LastIndexByte(cls, '.')+1:]
	}
	dir := c.cfg.OutputDir
	if u.meta.Package != "" {
		dir = filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(u.meta.Package, ".", "/")))
	}
	return filepath.Join(dir, name+"."+c.cfg.OutputExt)
}

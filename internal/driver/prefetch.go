package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/parser"
	"polyc/internal/source"
)

// Prefetched is the parse result of one requested file.
type Prefetched struct {
	Path string
	File source.FileID
	Tree *ast.Tree
	Root ast.NodeID
	// Bag holds the syntax diagnostics; they are replayed by the Parsed goal.
	Bag *diag.Bag
	// Err is set when the file could not be read.
	Err error
}

// Prefetch loads paths into fs and parses them in parallel, at most jobs at
// a time (GOMAXPROCS when jobs <= 0). Loading happens up front because the
// file set is not safe for concurrent Add.
func Prefetch(ctx context.Context, fs *source.FileSet, f ast.Factory, paths []string, jobs int) ([]Prefetched, error) {
	results := make([]Prefetched, len(paths))
	for i, path := range paths {
		results[i].Path = path
		id, err := fs.Load(path)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].File = id
		results[i].Path = fs.Get(id).Path
	}
	if len(paths) == 0 {
		return results, nil
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i принадлежит только этой горутине
			r := &results[i]
			r.Bag = diag.NewBag(0)
			r.Tree = ast.NewTree(r.File, 256)
			r.Root = parser.ParseFile(fs.Get(r.File), ast.NewBuilder(r.Tree, f), diag.BagReporter{Bag: r.Bag})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

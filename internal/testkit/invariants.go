package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"polyc/internal/ast"
	"polyc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) the root span is non-empty and within file content bounds
// 2) every node span points into the same file
// 3) every non-empty child span is contained in its parent's span
func CheckSpanInvariants(tree *ast.Tree, root ast.NodeID, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if !root.IsValid() {
		return fmt.Errorf("invalid root")
	}
	rs := tree.Node(root).Span
	if rs.End <= rs.Start {
		return fmt.Errorf("root span is empty: %v", rs)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if rs.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", rs.End, lenContent)
	}
	return checkNode(tree, root, sf.ID)
}

func checkNode(tree *ast.Tree, id ast.NodeID, file source.FileID) error {
	n := tree.Node(id)
	if n.Span.File != file {
		return fmt.Errorf("%s node %d: span file mismatch: got=%d want=%d", n.Kind, id, n.Span.File, file)
	}
	for _, k := range n.Kids {
		if !k.IsValid() {
			continue
		}
		ks := tree.Node(k).Span
		if ks.End > ks.Start && (ks.Start < n.Span.Start || ks.End > n.Span.End) {
			return fmt.Errorf("%s node %d: child %s span %v is outside %v", n.Kind, id, tree.Node(k).Kind, ks, n.Span)
		}
		if err := checkNode(tree, k, file); err != nil {
			return err
		}
	}
	return nil
}

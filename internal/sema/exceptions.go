package sema

import (
	"slices"

	"polyc/internal/ast"
	"polyc/internal/types"
)

// OverrideExceptionCheck drives the try statement itself: the block's
// exceptions are filtered by the catch clauses in order, and each catch
// formal learns which exceptions can actually reach it.
func (tryExt) OverrideExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	n := c.Node(id)
	block := c.Visit(n.Kid(0))
	fromBlock := c.Thrown(block)

	listID := n.Kid(1)
	catches := slices.Clone(c.Node(listID).Kids)
	var caught, result []types.TypeID
	for i, cid := range catches {
		cn := c.Node(cid)
		formal := c.Node(cn.Kid(0))
		ct := c.Node(formal.Kid(0)).Type
		if c.Sys.IsThrowable(ct) {
			if li := formal.LocalFact(); li != nil && c.effectivelyFinal(li, cn.Kid(1)) {
				c.setRethrow(li, c.reaching(fromBlock, caught, ct))
			}
		}
		catches[i] = c.Visit(cid)
		result = addThrown(result, c.Thrown(catches[i])...)
		caught = append(caught, ct)
	}
	for _, t := range fromBlock {
		if !c.Sys.CoveredBy(t, caught) {
			result = addThrown(result, t)
		}
	}

	finally := n.Kid(2)
	if finally.IsValid() {
		finally = c.Visit(finally)
		result = addThrown(result, c.Thrown(finally)...)
	}

	list := c.Tree.WithKids(listID, catches)
	out := c.Tree.WithKids(id, []ast.NodeID{block, list, finally})
	c.SetThrown(out, result)
	return out, true, nil
}

// reaching computes what a catch of type ct receives from the try block:
// exceptions not taken by an earlier catch, narrowed to ct.
func (c *Checker) reaching(fromBlock, earlier []types.TypeID, ct types.TypeID) []types.TypeID {
	var out []types.TypeID
	for _, t := range fromBlock {
		if c.Sys.CoveredBy(t, earlier) {
			continue
		}
		switch {
		case c.Sys.IsSubtype(t, ct):
			out = addThrown(out, t)
		case c.Sys.IsSubtype(ct, t):
			out = addThrown(out, ct)
		}
	}
	return out
}

// effectivelyFinal: declared final, or never assigned in the catch body.
func (c *Checker) effectivelyFinal(li *types.LocalInstance, body ast.NodeID) bool {
	if li.Flags.IsFinal() {
		return true
	}
	assigned := false
	ast.Walk(c.Tree, body, func(_ ast.NodeID, n *ast.Node) bool {
		if assigned {
			return false
		}
		if n.Kind == ast.KindAssign {
			if target := c.Node(n.Kid(0)); target.Kind == ast.KindLocal && target.LocalFact() == li {
				assigned = true
			}
		}
		return true
	})
	return !assigned
}

func (callExt) ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if mi := c.Node(id).Method(); mi != nil {
		c.SetThrown(id, addThrown(c.Thrown(id), mi.Throws...))
	}
	return id, nil
}

package sema

import "polyc/internal/ast"

// canCompleteNormally is the reachability rule used for the missing return
// check. There are no break or continue statements, so a while loop whose
// condition is the literal true never completes.
func canCompleteNormally(t *ast.Tree, id ast.NodeID) bool {
	if !id.IsValid() {
		return true
	}
	n := t.Node(id)
	switch n.Kind {
	case ast.KindReturn, ast.KindThrow:
		return false
	case ast.KindBlock:
		for _, s := range n.Kids {
			if !canCompleteNormally(t, s) {
				return false
			}
		}
		return true
	case ast.KindIf:
		if !n.Kid(2).IsValid() {
			return true
		}
		return canCompleteNormally(t, n.Kid(1)) || canCompleteNormally(t, n.Kid(2))
	case ast.KindWhile:
		cond := t.Node(n.Kid(0))
		return !(cond.Kind == ast.KindLit && cond.Lit.Kind == ast.LitBool && cond.Lit.Value == true)
	case ast.KindTry:
		if fin := n.Kid(2); fin.IsValid() && !canCompleteNormally(t, fin) {
			return false
		}
		if canCompleteNormally(t, n.Kid(0)) {
			return true
		}
		for _, cid := range t.Node(n.Kid(1)).Kids {
			if canCompleteNormally(t, t.Node(cid).Kid(1)) {
				return true
			}
		}
		return false
	}
	return true
}

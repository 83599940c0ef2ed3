package ast

// Visitor drives one rewrite over a Tree.
//
// For every node Visit calls Override first; when it reports handled, its
// result replaces the node and the children are not visited. Otherwise
// Enter returns the visitor for the children, the children are visited,
// the node is rebuilt only if a child id changed, and Leave gets the
// original id, the rebuilt id and the child visitor.
type Visitor interface {
	Override(t *Tree, id NodeID) (NodeID, bool)
	Enter(t *Tree, id NodeID) Visitor
	Leave(t *Tree, old, id NodeID, child Visitor) NodeID
}

// Exiter is implemented by child visitors that own a scope. Exit runs after
// Leave, and also when the subtree panics.
type Exiter interface {
	Exit()
}

// BaseVisitor changes nothing. Embed it and override the hooks you need.
type BaseVisitor struct{}

func (BaseVisitor) Override(*Tree, NodeID) (NodeID, bool) { return NoNodeID, false }

func (BaseVisitor) Leave(_ *Tree, _, id NodeID, _ Visitor) NodeID { return id }

// Visit rewrites the subtree rooted at id and returns the new root.
func Visit(t *Tree, v Visitor, id NodeID) NodeID {
	if !id.IsValid() {
		return id
	}
	if out, ok := v.Override(t, id); ok {
		return out
	}
	child := v.Enter(t, id)
	if ex, ok := child.(Exiter); ok {
		defer ex.Exit()
	}
	cur := visitKids(t, child, id)
	return v.Leave(t, id, cur, child)
}

// VisitKids visits the children of id with v and rebuilds id if needed.
// Override hooks use it to run the standard recursion with their own visitor.
func VisitKids(t *Tree, v Visitor, id NodeID) NodeID {
	return visitKids(t, v, id)
}

func visitKids(t *Tree, v Visitor, id NodeID) NodeID {
	// срез детей копируем заранее: арена может переехать во время обхода
	old := t.Node(id).Kids
	var kids []NodeID
	for i, k := range old {
		nk := Visit(t, v, k)
		if nk != k && kids == nil {
			kids = make([]NodeID, len(old))
			copy(kids, old)
		}
		if kids != nil {
			kids[i] = nk
		}
	}
	if kids == nil {
		return id
	}
	return t.WithKids(id, kids)
}

// Walk calls fn on id and its descendants in pre-order. fn returning false
// skips the node's children.
func Walk(t *Tree, id NodeID, fn func(id NodeID, n *Node) bool) {
	if !id.IsValid() {
		return
	}
	n := t.Node(id)
	if !fn(id, n) {
		return
	}
	for _, k := range n.Kids {
		Walk(t, k, fn)
	}
}

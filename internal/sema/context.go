package sema

import "polyc/internal/types"

// ScopeKind tells what pushed a scope.
type ScopeKind uint8

const (
	ScopeClass ScopeKind = iota + 1
	ScopeCode
	ScopeBlock
)

// Scope holds the locals declared directly in it.
type Scope struct {
	Kind ScopeKind
	// Class is set for class scopes.
	Class types.TypeID
	// Code is set for method scopes; nil for field initializers.
	Code   *types.MethodInstance
	Static bool

	locals map[string]*types.LocalInstance
	order  []string
}

func ClassScope(ct types.TypeID) *Scope {
	return &Scope{Kind: ScopeClass, Class: ct}
}

func CodeScope(mi *types.MethodInstance, static bool) *Scope {
	return &Scope{Kind: ScopeCode, Code: mi, Static: static}
}

func BlockScope() *Scope {
	return &Scope{Kind: ScopeBlock}
}

// Context is the scope stack of one traversal. Strictly LIFO.
type Context struct {
	scopes []*Scope
}

func NewContext() *Context {
	return &Context{scopes: make([]*Scope, 0, 8)}
}

func (c *Context) Push(s *Scope) {
	c.scopes = append(c.scopes, s)
}

// Pop removes the innermost scope. Popping an empty stack is a bug in the caller.
func (c *Context) Pop() {
	if len(c.scopes) == 0 {
		panic("sema: pop of empty scope stack")
	}
	c.scopes[len(c.scopes)-1] = nil
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) Depth() int { return len(c.scopes) }

// FindLocal searches from the innermost scope outward; the first match wins.
func (c *Context) FindLocal(name string) (*types.LocalInstance, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if li, ok := c.scopes[i].locals[name]; ok {
			return li, true
		}
	}
	return nil, false
}

// AddLocal binds li in the innermost scope.
func (c *Context) AddLocal(li *types.LocalInstance) {
	if len(c.scopes) == 0 || li == nil {
		return
	}
	s := c.scopes[len(c.scopes)-1]
	if s.locals == nil {
		s.locals = make(map[string]*types.LocalInstance, 4)
	}
	if _, dup := s.locals[li.Name]; !dup {
		s.order = append(s.order, li.Name)
	}
	s.locals[li.Name] = li
}

// CurrentCode returns the innermost method, or nil outside of one.
func (c *Context) CurrentCode() *types.MethodInstance {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		switch c.scopes[i].Kind {
		case ScopeCode:
			return c.scopes[i].Code
		case ScopeClass:
			return nil
		}
	}
	return nil
}

// InStaticContext reports whether the innermost code scope is static.
func (c *Context) InStaticContext() bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].Kind == ScopeCode {
			return c.scopes[i].Static
		}
		if c.scopes[i].Kind == ScopeClass {
			return false
		}
	}
	return false
}

// CurrentClass returns the innermost class, or NoTypeID.
func (c *Context) CurrentClass() types.TypeID {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].Kind == ScopeClass {
			return c.scopes[i].Class
		}
	}
	return types.NoTypeID
}

// LocalNames lists every visible local, innermost first.
func (c *Context) LocalNames() []string {
	var out []string
	for i := len(c.scopes) - 1; i >= 0; i-- {
		out = append(out, c.scopes[i].order...)
	}
	return out
}

package sema

import (
	"strings"

	"polyc/internal/types"
)

// ResolveClass looks a class name up the way the unit sees it: qualified
// names directly, simple names through single-type imports, the current
// package, on-demand imports and finally java.lang.
func (c *Checker) ResolveClass(name string) (types.TypeID, bool) {
	if strings.Contains(name, ".") {
		return c.Sys.Resolve(name)
	}
	if fq, ok := c.imports[name]; ok {
		return c.Sys.Resolve(fq)
	}
	if id, ok := c.Sys.Resolve(qualify(c.pkg, name)); ok {
		return id, true
	}
	for _, pkg := range c.onDemand {
		if id, ok := c.Sys.Resolve(pkg + "." + name); ok {
			return id, true
		}
	}
	return c.Sys.Resolve("java.lang." + name)
}

// ResolveType resolves a type as written: primitive keyword or class name.
func (c *Checker) ResolveType(name string) (types.TypeID, bool) {
	if id, ok := c.Sys.Interner().PrimitiveByName(name); ok {
		return id, true
	}
	return c.ResolveClass(name)
}

// visibleClassNames lists the simple names a unit can refer to without
// qualification, for suggestions.
func (c *Checker) visibleClassNames() []string {
	var out []string
	for simple := range c.imports {
		out = append(out, simple)
	}
	for _, fq := range c.Sys.Interner().ClassNames() {
		pkg, simple := types.SplitName(fq)
		if pkg == c.pkg || pkg == "java.lang" {
			out = append(out, simple)
			continue
		}
		for _, od := range c.onDemand {
			if pkg == od {
				out = append(out, simple)
				break
			}
		}
	}
	return out
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

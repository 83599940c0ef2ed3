package project

import (
	"strings"
	"unicode"

	"polyc/internal/source"
)

// ImportMeta is one import declaration of a unit.
type ImportMeta struct {
	Name string // "p.A" or "p.*"
	Span source.Span
}

// UnitMeta is what the build order needs to know about a parsed unit.
type UnitMeta struct {
	Path    string
	Package string
	// Classes are the fully qualified names the unit declares.
	Classes []string
	Imports []ImportMeta
	// Refs are the qualified names the unit may refer to, resolved by
	// the caller against imports and the unit's own package.
	Refs []string
	Span source.Span
}

// IsValidIdent reports whether name is an identifier of the source languages.
func IsValidIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && r != '_' && r != '$' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidQualifiedName reports whether name is a dot separated list of identifiers.
func IsValidQualifiedName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if !IsValidIdent(seg) {
			return false
		}
	}
	return true
}

// Candidates expands a type name as written in the unit into the fully
// qualified names it may stand for, most specific first.
func (m *UnitMeta) Candidates(name string) []string {
	if strings.Contains(name, ".") {
		return []string{name}
	}
	var out []string
	for _, imp := range m.Imports {
		if pkg, ok := strings.CutSuffix(imp.Name, ".*"); ok {
			out = append(out, pkg+"."+name)
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			// a single-type import shadows everything else
			return []string{imp.Name}
		}
	}
	if m.Package != "" {
		out = append([]string{m.Package + "." + name}, out...)
	} else {
		out = append([]string{name}, out...)
	}
	return out
}

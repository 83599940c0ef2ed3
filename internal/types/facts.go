package types

import (
	"slices"
	"strings"

	"polyc/internal/source"
)

// Facts are immutable once published. Every With* method returns a copy;
// nodes and class slots are rebound to the copy, never edited in place.

// MethodInstance is the resolved signature of a method.
type MethodInstance struct {
	Container TypeID
	Name      string
	Flags     Flags
	Return    TypeID
	Params    []TypeID
	Throws    []TypeID
	Decl      source.Span
}

func (mi *MethodInstance) WithFlags(f Flags) *MethodInstance {
	cp := *mi
	cp.Flags = f
	return &cp
}

func (mi *MethodInstance) WithReturn(t TypeID) *MethodInstance {
	cp := *mi
	cp.Return = t
	return &cp
}

func (mi *MethodInstance) WithParams(params []TypeID) *MethodInstance {
	cp := *mi
	cp.Params = slices.Clone(params)
	return &cp
}

func (mi *MethodInstance) WithThrows(throws []TypeID) *MethodInstance {
	cp := *mi
	cp.Throws = slices.Clone(throws)
	return &cp
}

// SameSignature compares name and parameter types.
func (mi *MethodInstance) SameSignature(other *MethodInstance) bool {
	return mi.Name == other.Name && slices.Equal(mi.Params, other.Params)
}

// Signature renders "m(int, p.A)".
func (mi *MethodInstance) Signature(in *Interner) string {
	return mi.Name + "(" + in.TypeList(mi.Params) + ")"
}

// Describe renders flags, return type and signature: "public abstract void m()".
func (mi *MethodInstance) Describe(in *Interner) string {
	var sb strings.Builder
	if s := mi.Flags.String(); s != "" {
		sb.WriteString(s)
		sb.WriteByte(' ')
	}
	sb.WriteString(in.TypeString(mi.Return))
	sb.WriteByte(' ')
	sb.WriteString(mi.Signature(in))
	return sb.String()
}

// LocalInstance describes a local variable or formal parameter.
// Const is non-nil for final locals initialised by a literal.
type LocalInstance struct {
	Name  string
	Flags Flags
	Type  TypeID
	Const any
	Decl  source.Span
}

func (li *LocalInstance) WithType(t TypeID) *LocalInstance {
	cp := *li
	cp.Type = t
	return &cp
}

func (li *LocalInstance) WithFlags(f Flags) *LocalInstance {
	cp := *li
	cp.Flags = f
	return &cp
}

// WithConstant records the compile-time value (int64, float64, bool, rune or string).
func (li *LocalInstance) WithConstant(v any) *LocalInstance {
	cp := *li
	cp.Const = v
	return &cp
}

// IsConstant reports whether a constant value is known.
func (li *LocalInstance) IsConstant() bool { return li.Const != nil }

// FieldInstance describes a field of a class.
type FieldInstance struct {
	Container TypeID
	Name      string
	Flags     Flags
	Type      TypeID
	Decl      source.Span
}

func (fi *FieldInstance) WithType(t TypeID) *FieldInstance {
	cp := *fi
	cp.Type = t
	return &cp
}

// ClassInfo is the member table of one class or interface.
type ClassInfo struct {
	Self       TypeID
	Name       string // fully qualified
	Package    string
	Flags      Flags
	Super      TypeID // NoTypeID for java.lang.Object and interfaces
	Interfaces []TypeID
	Fields     []*FieldInstance
	Methods    []*MethodInstance
	Decl       source.Span
	// Source is the path of the compilation unit that declares the class,
	// empty for prelude and class path entries.
	Source string
	// Members is set once the class's members have been filled in.
	Members bool
}

func (ci *ClassInfo) clone() *ClassInfo {
	cp := *ci
	cp.Interfaces = slices.Clone(ci.Interfaces)
	cp.Fields = slices.Clone(ci.Fields)
	cp.Methods = slices.Clone(ci.Methods)
	return &cp
}

// SimpleName returns the last segment of the qualified name.
func (ci *ClassInfo) SimpleName() string {
	_, simple := SplitName(ci.Name)
	return simple
}

func (ci *ClassInfo) IsInterface() bool { return ci.Flags.IsInterface() }

// WithHeader returns a copy with new flags and supertypes.
func (ci *ClassInfo) WithHeader(flags Flags, super TypeID, ifaces []TypeID) *ClassInfo {
	cp := ci.clone()
	cp.Flags = flags
	cp.Super = super
	cp.Interfaces = slices.Clone(ifaces)
	return cp
}

// WithMethod returns a copy with mi appended.
func (ci *ClassInfo) WithMethod(mi *MethodInstance) *ClassInfo {
	cp := ci.clone()
	cp.Methods = append(cp.Methods, mi)
	return cp
}

// WithField returns a copy with fi appended.
func (ci *ClassInfo) WithField(fi *FieldInstance) *ClassInfo {
	cp := ci.clone()
	cp.Fields = append(cp.Fields, fi)
	return cp
}

// WithReplacedMethod swaps old for repl; ok is false when old is absent.
func (ci *ClassInfo) WithReplacedMethod(old, repl *MethodInstance) (*ClassInfo, bool) {
	idx := slices.Index(ci.Methods, old)
	if idx < 0 {
		return ci, false
	}
	cp := ci.clone()
	cp.Methods[idx] = repl
	return cp, true
}

// WithReplacedField swaps old for repl; ok is false when old is absent.
func (ci *ClassInfo) WithReplacedField(old, repl *FieldInstance) (*ClassInfo, bool) {
	idx := slices.Index(ci.Fields, old)
	if idx < 0 {
		return ci, false
	}
	cp := ci.clone()
	cp.Fields[idx] = repl
	return cp, true
}

// MethodsNamed returns the methods declared directly on the class with name.
func (ci *ClassInfo) MethodsNamed(name string) []*MethodInstance {
	var out []*MethodInstance
	for _, mi := range ci.Methods {
		if mi.Name == name {
			out = append(out, mi)
		}
	}
	return out
}

// Field returns the field declared directly on the class.
func (ci *ClassInfo) Field(name string) *FieldInstance {
	for _, fi := range ci.Fields {
		if fi.Name == name {
			return fi
		}
	}
	return nil
}

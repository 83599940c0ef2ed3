package types

import (
	"errors"
	"fmt"

	"polyc/internal/source"
)

// System answers type-system queries. It never reports diagnostics itself;
// callers turn returned errors into semantic errors at a node.
type System struct {
	in      *Interner
	loader  ClassLoader
	b       Builtins
	boxes   map[TypeID]TypeID // primitive -> wrapper
	unboxes map[TypeID]TypeID // wrapper -> primitive
	loadErr error
}

// NewSystem wires the interner to an optional class loader.
func NewSystem(in *Interner, loader ClassLoader) *System {
	s := &System{
		in:      in,
		loader:  loader,
		b:       in.Builtins(),
		boxes:   make(map[TypeID]TypeID, 8),
		unboxes: make(map[TypeID]TypeID, 8),
	}
	for prim, box := range map[TypeID]string{
		s.b.Boolean: "java.lang.Boolean",
		s.b.Byte:    "java.lang.Byte",
		s.b.Short:   "java.lang.Short",
		s.b.Char:    "java.lang.Character",
		s.b.Int:     "java.lang.Integer",
		s.b.Long:    "java.lang.Long",
		s.b.Float:   "java.lang.Float",
		s.b.Double:  "java.lang.Double",
	} {
		id, _ := in.ClassByName(box)
		s.boxes[prim] = id
		s.unboxes[id] = prim
	}
	return s
}

func (s *System) Interner() *Interner { return s.in }

func (s *System) Builtins() Builtins { return s.b }

// LoadErr returns the first class loader failure, if any.
func (s *System) LoadErr() error { return s.loadErr }

// ClassInfo returns the class with its members loaded from the class path
// when needed. It returns nil for non-class types.
func (s *System) ClassInfo(id TypeID) *ClassInfo {
	info := s.in.Class(id)
	if info == nil || info.Members || info.Source != "" || s.loader == nil {
		return info
	}
	sig, err := s.loader.FindClass(info.Name)
	if err != nil {
		if s.loadErr == nil {
			s.loadErr = fmt.Errorf("load %s: %w", info.Name, err)
		}
		return info
	}
	if sig == nil {
		return info
	}
	s.in.InstallSig(sig)
	return s.in.Class(id)
}

// exists reports whether the class is backed by a declaration or signature.
func (s *System) exists(id TypeID) bool {
	info := s.ClassInfo(id)
	return info != nil && (info.Members || info.Source != "")
}

// Resolve finds a class by fully qualified name in the source set, the
// prelude or the class path.
func (s *System) Resolve(name string) (TypeID, bool) {
	if id, ok := s.in.ClassByName(name); ok {
		if s.exists(id) {
			return id, true
		}
		return NoTypeID, false
	}
	if s.loader == nil {
		return NoTypeID, false
	}
	sig, err := s.loader.FindClass(name)
	if err != nil {
		if s.loadErr == nil {
			s.loadErr = fmt.Errorf("load %s: %w", name, err)
		}
		return NoTypeID, false
	}
	if sig == nil {
		return NoTypeID, false
	}
	return s.in.InstallSig(sig), true
}

// ErrDuplicateClass is returned by DeclareClass for a name that already has a declaration.
var ErrDuplicateClass = errors.New("duplicate class")

// DeclareClass registers a class declared by the compilation unit at path.
func (s *System) DeclareClass(name string, decl source.Span, path string) (TypeID, error) {
	id, created := s.in.RegisterClass(name, decl)
	info := s.in.Class(id)
	if !created && (info.Members || info.Source != "") {
		if info.Source == path && info.Decl == decl {
			return id, nil
		}
		return id, fmt.Errorf("%w %s", ErrDuplicateClass, name)
	}
	cp := info.clone()
	cp.Decl = decl
	cp.Source = path
	s.in.SetClass(id, cp)
	return id, nil
}

// --- predicates -------------------------------------------------------------

func (s *System) Kind(t TypeID) Kind { return s.in.KindOf(t) }

func (s *System) IsNumeric(t TypeID) bool { return s.Kind(t).IsNumeric() }

func (s *System) IsIntegral(t TypeID) bool { return s.Kind(t).IsIntegral() }

func (s *System) IsBoolean(t TypeID) bool { return t == s.b.Boolean }

func (s *System) IsPrimitive(t TypeID) bool { return s.Kind(t).IsPrimitive() }

func (s *System) IsClass(t TypeID) bool { return s.Kind(t) == KindClass }

func (s *System) IsNull(t TypeID) bool { return t == s.b.Null }

func (s *System) IsVoid(t TypeID) bool { return t == s.b.Void }

// IsReference covers classes and the null type.
func (s *System) IsReference(t TypeID) bool { return s.IsClass(t) || s.IsNull(t) }

// IsKnown is false for invalid and unresolved placeholder types.
func (s *System) IsKnown(t TypeID) bool {
	k := s.Kind(t)
	return k != KindInvalid && k != KindUnknown
}

func (s *System) IsInterface(t TypeID) bool {
	info := s.ClassInfo(t)
	return info != nil && info.IsInterface()
}

func (s *System) IsSame(a, b TypeID) bool { return a == b }

// Supertypes returns the direct supertypes: superclass first, then interfaces.
// Interfaces and Object without an explicit super get Object as supertype.
func (s *System) Supertypes(t TypeID) []TypeID {
	info := s.ClassInfo(t)
	if info == nil {
		return nil
	}
	out := make([]TypeID, 0, 1+len(info.Interfaces))
	if info.Super != NoTypeID {
		out = append(out, info.Super)
	} else if t != s.b.Object {
		out = append(out, s.b.Object)
	}
	return append(out, info.Interfaces...)
}

// IsSubtype is reflexive. null is a subtype of every reference type.
func (s *System) IsSubtype(a, b TypeID) bool {
	if a == b {
		return true
	}
	if s.IsNull(a) {
		return s.IsClass(b)
	}
	if !s.IsClass(a) || !s.IsClass(b) {
		return false
	}
	if b == s.b.Object {
		return true
	}
	seen := map[TypeID]bool{a: true}
	work := []TypeID{a}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, sup := range s.Supertypes(cur) {
			if sup == b {
				return true
			}
			if !seen[sup] {
				seen[sup] = true
				work = append(work, sup)
			}
		}
	}
	return false
}

// DescendsFrom is the strict subtype relation.
func (s *System) DescendsFrom(a, b TypeID) bool {
	return a != b && s.IsSubtype(a, b)
}

func (s *System) IsThrowable(t TypeID) bool {
	return s.IsClass(t) && s.IsSubtype(t, s.b.Throwable)
}

// IsUncheckedException covers RuntimeException, Error and their subclasses.
func (s *System) IsUncheckedException(t TypeID) bool {
	return s.IsSubtype(t, s.b.RuntimeException) || s.IsSubtype(t, s.b.Error)
}

// --- numeric promotion and conversions -------------------------------------

// PromoteUnary applies unary numeric promotion.
func (s *System) PromoteUnary(t TypeID) (TypeID, error) {
	switch s.Kind(t) {
	case KindByte, KindShort, KindChar, KindInt:
		return s.b.Int, nil
	case KindLong, KindFloat, KindDouble:
		return t, nil
	}
	return NoTypeID, fmt.Errorf("cannot promote non-numeric type %s", s.in.TypeString(t))
}

// Promote applies binary numeric promotion.
func (s *System) Promote(a, b TypeID) (TypeID, error) {
	if !s.IsNumeric(a) || !s.IsNumeric(b) {
		return NoTypeID, fmt.Errorf("cannot promote non-numeric types %s and %s", s.in.TypeString(a), s.in.TypeString(b))
	}
	ka, kb := s.Kind(a), s.Kind(b)
	switch {
	case ka == KindDouble || kb == KindDouble:
		return s.b.Double, nil
	case ka == KindFloat || kb == KindFloat:
		return s.b.Float, nil
	case ka == KindLong || kb == KindLong:
		return s.b.Long, nil
	}
	return s.b.Int, nil
}

// widening[from] lists the primitive kinds from widens to.
var widening = map[Kind][]Kind{
	KindByte:  {KindShort, KindInt, KindLong, KindFloat, KindDouble},
	KindShort: {KindInt, KindLong, KindFloat, KindDouble},
	KindChar:  {KindInt, KindLong, KindFloat, KindDouble},
	KindInt:   {KindLong, KindFloat, KindDouble},
	KindLong:  {KindFloat, KindDouble},
	KindFloat: {KindDouble},
}

// IsImplicitCastValid reports assignment conversion without boxing.
func (s *System) IsImplicitCastValid(from, to TypeID) bool {
	if from == to {
		return true
	}
	kf, kt := s.Kind(from), s.Kind(to)
	if kf.IsPrimitive() && kt.IsPrimitive() {
		for _, k := range widening[kf] {
			if k == kt {
				return true
			}
		}
		return false
	}
	if s.IsReference(from) && s.IsClass(to) {
		return s.IsSubtype(from, to)
	}
	return false
}

// IsCastValid reports whether an explicit cast between the types is legal.
func (s *System) IsCastValid(from, to TypeID) bool {
	if from == to {
		return true
	}
	kf, kt := s.Kind(from), s.Kind(to)
	if kf.IsNumeric() && kt.IsNumeric() {
		return true
	}
	if kf.IsPrimitive() || kt.IsPrimitive() {
		return false
	}
	if !s.IsReference(from) || !s.IsReference(to) {
		return false
	}
	if s.IsSubtype(from, to) || s.IsSubtype(to, from) {
		return true
	}
	// a non-final class may have a subclass implementing the interface
	fi, ti := s.ClassInfo(from), s.ClassInfo(to)
	if fi != nil && ti != nil {
		if fi.IsInterface() && !ti.Flags.IsFinal() {
			return true
		}
		if ti.IsInterface() && !fi.Flags.IsFinal() {
			return true
		}
	}
	return false
}

// CanCoerceToString is true for every value type.
func (s *System) CanCoerceToString(t TypeID) bool {
	return s.IsKnown(t) && !s.IsVoid(t)
}

// --- boxing -----------------------------------------------------------------

// IsPrimitiveWrapper reports whether t is one of the java.lang box classes.
func (s *System) IsPrimitiveWrapper(t TypeID) bool {
	_, ok := s.unboxes[t]
	return ok
}

// Unbox returns the primitive for a wrapper type.
func (s *System) Unbox(t TypeID) (TypeID, bool) {
	p, ok := s.unboxes[t]
	return p, ok
}

// Box returns the wrapper class for a primitive type.
func (s *System) Box(t TypeID) (TypeID, bool) {
	b, ok := s.boxes[t]
	return b, ok
}

// IsAssignable is assignment conversion including boxing and unboxing.
func (s *System) IsAssignable(from, to TypeID) bool {
	if s.IsImplicitCastValid(from, to) {
		return true
	}
	if p, ok := s.Unbox(from); ok && s.IsImplicitCastValid(p, to) {
		return true
	}
	if b, ok := s.Box(from); ok && s.IsSubtype(b, to) {
		return true
	}
	return false
}

package types

import (
	"errors"
	"fmt"
	"slices"
)

// AddMethod appends mi to the class table of ct.
func (s *System) AddMethod(ct TypeID, mi *MethodInstance) {
	s.in.SetClass(ct, s.in.Class(ct).WithMethod(mi))
}

// AddField appends fi to the class table of ct.
func (s *System) AddField(ct TypeID, fi *FieldInstance) {
	s.in.SetClass(ct, s.in.Class(ct).WithField(fi))
}

// ReplaceMethod rebinds the slot holding old to repl.
func (s *System) ReplaceMethod(ct TypeID, old, repl *MethodInstance) bool {
	info, ok := s.in.Class(ct).WithReplacedMethod(old, repl)
	if ok {
		s.in.SetClass(ct, info)
	}
	return ok
}

// ReplaceField rebinds the slot holding old to repl.
func (s *System) ReplaceField(ct TypeID, old, repl *FieldInstance) bool {
	info, ok := s.in.Class(ct).WithReplacedField(old, repl)
	if ok {
		s.in.SetClass(ct, info)
	}
	return ok
}

// SetHeader rebinds the flags and supertypes of ct.
func (s *System) SetHeader(ct TypeID, flags Flags, super TypeID, ifaces []TypeID) {
	s.in.SetClass(ct, s.in.Class(ct).WithHeader(flags, super, ifaces))
}

// MarkMembers records that ct's member table is complete.
func (s *System) MarkMembers(ct TypeID) {
	info := s.in.Class(ct).clone()
	info.Members = true
	s.in.SetClass(ct, info)
}

// IsAccessible reports whether a member with flags declared in container
// is visible from class from. Package access compares packages.
func (s *System) IsAccessible(flags Flags, container, from TypeID) bool {
	if flags.IsPublic() || container == from {
		return true
	}
	ci, fi := s.ClassInfo(container), s.ClassInfo(from)
	if ci == nil || fi == nil {
		return false
	}
	if flags.IsPrivate() {
		return false
	}
	if ci.Package == fi.Package {
		return true
	}
	return flags.Has(FlagProtected) && s.IsSubtype(from, container)
}

// ancestors walks ct and its supertypes breadth-first, superclasses before interfaces.
func (s *System) ancestors(ct TypeID) []TypeID {
	out := []TypeID{ct}
	seen := map[TypeID]bool{ct: true}
	for i := 0; i < len(out); i++ {
		for _, sup := range s.Supertypes(out[i]) {
			if !seen[sup] {
				seen[sup] = true
				out = append(out, sup)
			}
		}
	}
	return out
}

// ErrNoSuchMethod is wrapped by FindMethod failures.
var ErrNoSuchMethod = errors.New("no such method")

// FindMethod resolves a call of name with argument types on ct as seen from
// class from. An exact parameter match wins over a merely applicable one.
func (s *System) FindMethod(ct TypeID, name string, args []TypeID, from TypeID) (*MethodInstance, error) {
	var applicable []*MethodInstance
	named := false
	for _, anc := range s.ancestors(ct) {
		info := s.ClassInfo(anc)
		if info == nil {
			continue
		}
		for _, mi := range info.MethodsNamed(name) {
			named = true
			if !s.IsAccessible(mi.Flags, anc, from) || len(mi.Params) != len(args) {
				continue
			}
			if slices.Equal(mi.Params, args) {
				return mi, nil
			}
			if s.argsApplicable(mi.Params, args) && !s.hiddenBy(mi, applicable) {
				applicable = append(applicable, mi)
			}
		}
	}
	if len(applicable) > 0 {
		return applicable[0], nil
	}
	sig := name + "(" + s.in.TypeList(args) + ")"
	if !named {
		return nil, fmt.Errorf("%w: cannot find method %s in %s", ErrNoSuchMethod, sig, s.in.TypeString(ct))
	}
	return nil, fmt.Errorf("%w: no method %s in %s is applicable to the arguments", ErrNoSuchMethod, sig, s.in.TypeString(ct))
}

func (s *System) argsApplicable(params, args []TypeID) bool {
	for i := range params {
		if !s.IsImplicitCastValid(args[i], params[i]) {
			return false
		}
	}
	return true
}

// hiddenBy: a supertype method with the same signature as one already found is overridden.
func (s *System) hiddenBy(mi *MethodInstance, found []*MethodInstance) bool {
	for _, f := range found {
		if f.SameSignature(mi) {
			return true
		}
	}
	return false
}

// FindField looks a field up in ct and its supertypes.
func (s *System) FindField(ct TypeID, name string, from TypeID) (*FieldInstance, bool) {
	for _, anc := range s.ancestors(ct) {
		info := s.ClassInfo(anc)
		if info == nil {
			continue
		}
		if fi := info.Field(name); fi != nil && s.IsAccessible(fi.Flags, anc, from) {
			return fi, true
		}
	}
	return nil, false
}

// OverriddenMethods returns the accessible supertype methods with mi's
// name and parameter types.
func (s *System) OverriddenMethods(mi *MethodInstance) []*MethodInstance {
	var out []*MethodInstance
	anc := s.ancestors(mi.Container)
	for _, sup := range anc[1:] {
		info := s.ClassInfo(sup)
		if info == nil {
			continue
		}
		for _, mj := range info.MethodsNamed(mi.Name) {
			if mj.SameSignature(mi) && !mj.Flags.IsPrivate() && s.IsAccessible(mj.Flags, sup, mi.Container) {
				out = append(out, mj)
			}
		}
	}
	return out
}

// CheckOverride validates mi as an override of mj.
func (s *System) CheckOverride(mi, mj *MethodInstance) error {
	reason := ""
	switch {
	case mi.Return != mj.Return:
		reason = "attempting to use incompatible return type"
	case mi.Flags.MoreRestrictive(mj.Flags):
		reason = "attempting to assign weaker access privileges"
	case mi.Flags.IsStatic() != mj.Flags.IsStatic():
		if mj.Flags.IsStatic() {
			reason = "overridden method is static"
		} else {
			reason = "overriding method is static"
		}
	case mj.Flags.IsFinal():
		reason = "overridden method is final"
	default:
		for _, t := range mi.Throws {
			if s.IsUncheckedException(t) || s.coveredBy(t, mj.Throws) {
				continue
			}
			reason = fmt.Sprintf("the throw set [%s] is not a subset of the overridden method's throw set [%s]",
				s.in.TypeList(mi.Throws), s.in.TypeList(mj.Throws))
			break
		}
	}
	if reason == "" {
		return nil
	}
	return fmt.Errorf("%s in %s cannot override %s in %s; %s",
		mi.Signature(s.in), s.in.TypeString(mi.Container),
		mj.Signature(s.in), s.in.TypeString(mj.Container), reason)
}

// coveredBy reports whether t is the same as or descends from one of decl.
func (s *System) coveredBy(t TypeID, decl []TypeID) bool {
	for _, d := range decl {
		if s.IsSame(t, d) || s.DescendsFrom(t, d) {
			return true
		}
	}
	return false
}

// CoveredBy is the throws-clause check shared by exception checking and overriding.
func (s *System) CoveredBy(t TypeID, decl []TypeID) bool {
	return s.coveredBy(t, decl)
}

// UnimplementedAbstract returns an abstract method inherited by ct without a
// concrete implementation, or nil.
func (s *System) UnimplementedAbstract(ct TypeID) *MethodInstance {
	anc := s.ancestors(ct)
	for _, sup := range anc {
		info := s.ClassInfo(sup)
		if info == nil {
			continue
		}
		for _, mj := range info.Methods {
			if !mj.Flags.IsAbstract() && !(info.IsInterface() && !mj.Flags.IsStatic()) {
				continue
			}
			if !s.implemented(ct, mj) {
				return mj
			}
		}
	}
	return nil
}

// implemented searches ct's superclass chain for a concrete method with mj's signature.
func (s *System) implemented(ct TypeID, mj *MethodInstance) bool {
	for cur := ct; cur != NoTypeID; {
		info := s.ClassInfo(cur)
		if info == nil {
			return false
		}
		for _, mi := range info.MethodsNamed(mj.Name) {
			if mi.SameSignature(mj) && !mi.Flags.IsAbstract() && !info.IsInterface() {
				return true
			}
		}
		cur = info.Super
	}
	return false
}

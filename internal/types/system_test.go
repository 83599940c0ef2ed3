package types

import (
	"errors"
	"strings"
	"testing"

	"polyc/internal/source"
)

type mapLoader map[string]*ClassSig

func (m mapLoader) FindClass(name string) (*ClassSig, error) {
	return m[name], nil
}

func newTestSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(NewInterner(), nil)
}

func class(t *testing.T, s *System, name string, flags Flags, super TypeID, ifaces ...TypeID) TypeID {
	t.Helper()
	id, err := s.DeclareClass(name, source.Span{}, "test.jl")
	if err != nil {
		t.Fatalf("DeclareClass(%s): %v", name, err)
	}
	s.SetHeader(id, flags, super, ifaces)
	s.MarkMembers(id)
	return id
}

func TestPreludeHierarchy(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	npe, ok := s.Resolve("java.lang.NullPointerException")
	if !ok {
		t.Fatalf("NullPointerException missing from prelude")
	}
	if !s.IsThrowable(npe) || !s.IsUncheckedException(npe) {
		t.Fatalf("NPE must be an unchecked throwable")
	}
	ioe, _ := s.Resolve("java.io.IOException")
	if s.IsUncheckedException(ioe) {
		t.Fatalf("IOException must be checked")
	}
	if !s.DescendsFrom(ioe, b.Exception) || s.DescendsFrom(b.Exception, b.Exception) {
		t.Fatalf("DescendsFrom must be strict")
	}
	if !s.IsSubtype(b.String, b.Object) || !s.IsSubtype(b.Null, b.String) {
		t.Fatalf("String <: Object and null <: String expected")
	}
}

func TestPromote(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	tests := []struct {
		l, r, want TypeID
	}{
		{b.Byte, b.Short, b.Int},
		{b.Int, b.Long, b.Long},
		{b.Long, b.Float, b.Float},
		{b.Char, b.Double, b.Double},
	}
	for _, tt := range tests {
		got, err := s.Promote(tt.l, tt.r)
		if err != nil || got != tt.want {
			t.Fatalf("Promote(%s, %s) = %s, %v", s.in.TypeString(tt.l), s.in.TypeString(tt.r), s.in.TypeString(got), err)
		}
	}
	if _, err := s.Promote(b.Boolean, b.Int); err == nil {
		t.Fatalf("boolean must not promote")
	}
}

func TestBoxing(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	integer, _ := s.Resolve("java.lang.Integer")
	if !s.IsPrimitiveWrapper(integer) || s.IsPrimitiveWrapper(b.String) {
		t.Fatalf("wrapper detection broken")
	}
	if p, ok := s.Unbox(integer); !ok || p != b.Int {
		t.Fatalf("Unbox(Integer) = %v, %v", p, ok)
	}
	if !s.IsAssignable(b.Int, integer) || !s.IsAssignable(integer, b.Long) {
		t.Fatalf("boxing assignment conversions expected")
	}
}

func TestCheckOverride(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	a := class(t, s, "p.A", FlagPublic, b.Object)
	bb := class(t, s, "p.B", FlagPublic, a)
	ioe, _ := s.Resolve("java.io.IOException")

	base := &MethodInstance{Container: a, Name: "m", Flags: FlagPublic, Return: b.Void, Params: []TypeID{b.Int}}
	s.AddMethod(a, base)

	tests := []struct {
		name string
		mi   *MethodInstance
		want string
	}{
		{"ok", &MethodInstance{Container: bb, Name: "m", Flags: FlagPublic, Return: b.Void, Params: []TypeID{b.Int}}, ""},
		{"return", &MethodInstance{Container: bb, Name: "m", Flags: FlagPublic, Return: b.Int, Params: []TypeID{b.Int}}, "incompatible return type"},
		{"access", &MethodInstance{Container: bb, Name: "m", Flags: FlagProtected, Return: b.Void, Params: []TypeID{b.Int}}, "weaker access"},
		{"throws", &MethodInstance{Container: bb, Name: "m", Flags: FlagPublic, Return: b.Void, Params: []TypeID{b.Int}, Throws: []TypeID{ioe}}, "throw set"},
	}
	for _, tt := range tests {
		over := s.OverriddenMethods(tt.mi)
		if len(over) != 1 || over[0] != base {
			t.Fatalf("%s: overridden = %v", tt.name, over)
		}
		err := s.CheckOverride(tt.mi, over[0])
		if tt.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tt.name, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
		if !strings.HasPrefix(err.Error(), "m(int) in p.B cannot override m(int) in p.A; ") {
			t.Fatalf("%s: message = %q", tt.name, err.Error())
		}
	}
}

func TestUnimplementedAbstract(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	a := class(t, s, "p.A", FlagPublic|FlagAbstract, b.Object)
	abs := &MethodInstance{Container: a, Name: "m", Flags: FlagPublic | FlagAbstract, Return: b.Void}
	s.AddMethod(a, abs)
	c := class(t, s, "p.C", FlagPublic, a)
	if got := s.UnimplementedAbstract(c); got != abs {
		t.Fatalf("UnimplementedAbstract = %v, want abstract m()", got)
	}
	s.AddMethod(c, &MethodInstance{Container: c, Name: "m", Flags: FlagPublic, Return: b.Void})
	if got := s.UnimplementedAbstract(c); got != nil {
		t.Fatalf("implemented method still reported: %v", got.Describe(s.in))
	}
}

func TestFindMethodWalksHierarchy(t *testing.T) {
	s := newTestSystem(t)
	b := s.Builtins()
	a := class(t, s, "p.A", FlagPublic, b.Object)
	s.AddMethod(a, &MethodInstance{Container: a, Name: "f", Flags: FlagPublic, Return: b.Long, Params: []TypeID{b.Long}})
	c := class(t, s, "p.C", FlagPublic, a)

	mi, err := s.FindMethod(c, "f", []TypeID{b.Int}, c)
	if err != nil || mi.Return != b.Long {
		t.Fatalf("FindMethod = %v, %v", mi, err)
	}
	if _, err := s.FindMethod(c, "f", []TypeID{b.Boolean}, c); !errors.Is(err, ErrNoSuchMethod) {
		t.Fatalf("expected ErrNoSuchMethod, got %v", err)
	}
	if _, err := s.FindMethod(c, "toString", nil, c); err != nil {
		t.Fatalf("Object methods must be inherited: %v", err)
	}
}

func TestDeclareClassDuplicate(t *testing.T) {
	s := newTestSystem(t)
	if _, err := s.DeclareClass("p.A", source.Span{File: 1}, "a.jl"); err != nil {
		t.Fatalf("first declaration: %v", err)
	}
	if _, err := s.DeclareClass("p.A", source.Span{File: 2}, "b.jl"); !errors.Is(err, ErrDuplicateClass) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestLoaderInstallsLazily(t *testing.T) {
	loader := mapLoader{
		"q.Lib": {Name: "q.Lib", Flags: FlagPublic, Super: "java.lang.Object", Methods: []MemberSig{
			{Name: "run", Flags: FlagPublic, Type: "void", Throws: []string{"q.LibError"}},
		}},
		"q.LibError": {Name: "q.LibError", Flags: FlagPublic, Super: "java.lang.Exception"},
	}
	s := NewSystem(NewInterner(), loader)
	lib, ok := s.Resolve("q.Lib")
	if !ok {
		t.Fatalf("q.Lib not loaded")
	}
	run := s.ClassInfo(lib).MethodsNamed("run")
	if len(run) != 1 || len(run[0].Throws) != 1 {
		t.Fatalf("run() = %v", run)
	}
	if !s.IsThrowable(run[0].Throws[0]) {
		t.Fatalf("q.LibError should load on demand and be throwable")
	}
	if _, ok := s.Resolve("q.Missing"); ok {
		t.Fatalf("unknown class resolved")
	}
}

func TestFactsAreCopied(t *testing.T) {
	mi := &MethodInstance{Name: "m", Params: []TypeID{1}}
	params := []TypeID{2, 3}
	mj := mi.WithParams(params)
	params[0] = 9
	if mi.Params[0] != 1 || mj.Params[0] != 2 {
		t.Fatalf("With* must copy: %v %v", mi.Params, mj.Params)
	}
}

func TestCheckMethodFlags(t *testing.T) {
	tests := []struct {
		flags Flags
		intf  bool
		ok    bool
	}{
		{FlagPublic | FlagStatic, false, true},
		{FlagPublic | FlagAbstract, true, true},
		{FlagPublic | FlagAbstract | FlagStatic, true, false},
		{FlagPrivate | FlagAbstract, false, false},
		{FlagPublic | FlagPrivate, false, false},
		{FlagTransient, false, false},
	}
	for _, tt := range tests {
		err := CheckMethodFlags(tt.flags, tt.intf)
		if (err == nil) != tt.ok {
			t.Fatalf("CheckMethodFlags(%q, %v) = %v", tt.flags, tt.intf, err)
		}
	}
}

package types

import "polyc/internal/source"

// ClassSig is the name-based, serialisable form of a ClassInfo. Class path
// entries and the built-in prelude are both installed from signatures.
type ClassSig struct {
	Name       string      `msgpack:"name"`
	Flags      Flags       `msgpack:"flags"`
	Super      string      `msgpack:"super,omitempty"`
	Interfaces []string    `msgpack:"interfaces,omitempty"`
	Fields     []MemberSig `msgpack:"fields,omitempty"`
	Methods    []MemberSig `msgpack:"methods,omitempty"`
}

// MemberSig describes a field (Type) or a method (Type is the return type).
type MemberSig struct {
	Name   string   `msgpack:"name"`
	Flags  Flags    `msgpack:"flags"`
	Type   string   `msgpack:"type"`
	Params []string `msgpack:"params,omitempty"`
	Throws []string `msgpack:"throws,omitempty"`
}

// ClassLoader resolves classes outside the source set. It returns nil, nil
// when the class is unknown to it.
type ClassLoader interface {
	FindClass(name string) (*ClassSig, error)
}

// TypeByName resolves a primitive keyword or a fully qualified class name.
// Unknown class names get a placeholder slot whose members are filled lazily.
func (in *Interner) TypeByName(name string) TypeID {
	if id, ok := in.PrimitiveByName(name); ok {
		return id
	}
	id, _ := in.RegisterClass(name, source.Span{})
	return id
}

func (in *Interner) typesByName(names []string) []TypeID {
	if len(names) == 0 {
		return nil
	}
	out := make([]TypeID, len(names))
	for i, n := range names {
		out[i] = in.TypeByName(n)
	}
	return out
}

// InstallSig registers (or completes) the class described by sig.
func (in *Interner) InstallSig(sig *ClassSig) TypeID {
	id, _ := in.RegisterClass(sig.Name, source.Span{})
	info := in.Class(id).WithHeader(sig.Flags, NoTypeID, in.typesByName(sig.Interfaces))
	if sig.Super != "" {
		info.Super = in.TypeByName(sig.Super)
	}
	info.Fields = nil
	info.Methods = nil
	for _, f := range sig.Fields {
		info.Fields = append(info.Fields, &FieldInstance{
			Container: id,
			Name:      f.Name,
			Flags:     f.Flags,
			Type:      in.TypeByName(f.Type),
		})
	}
	for _, m := range sig.Methods {
		info.Methods = append(info.Methods, &MethodInstance{
			Container: id,
			Name:      m.Name,
			Flags:     m.Flags,
			Return:    in.TypeByName(m.Type),
			Params:    in.typesByName(m.Params),
			Throws:    in.typesByName(m.Throws),
		})
	}
	info.Members = true
	in.SetClass(id, info)
	return id
}

// ExportSig converts the current ClassInfo of id back to a signature.
func (in *Interner) ExportSig(id TypeID) *ClassSig {
	info := in.Class(id)
	if info == nil {
		return nil
	}
	sig := &ClassSig{
		Name:       info.Name,
		Flags:      info.Flags,
		Interfaces: in.typeNames(info.Interfaces),
	}
	if info.Super != NoTypeID {
		sig.Super = in.TypeString(info.Super)
	}
	for _, f := range info.Fields {
		sig.Fields = append(sig.Fields, MemberSig{Name: f.Name, Flags: f.Flags, Type: in.TypeString(f.Type)})
	}
	for _, m := range info.Methods {
		sig.Methods = append(sig.Methods, MemberSig{
			Name:   m.Name,
			Flags:  m.Flags,
			Type:   in.TypeString(m.Return),
			Params: in.typeNames(m.Params),
			Throws: in.typeNames(m.Throws),
		})
	}
	return sig
}

func (in *Interner) typeNames(ids []TypeID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = in.TypeString(id)
	}
	return out
}

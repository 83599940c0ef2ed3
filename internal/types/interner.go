package types

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"polyc/internal/source"
)

// Builtins stores TypeIDs for primitives and the java.lang classes the
// checks refer to by name.
type Builtins struct {
	Invalid TypeID
	Unknown TypeID
	Void    TypeID
	Null    TypeID
	Boolean TypeID
	Byte    TypeID
	Short   TypeID
	Char    TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID

	Object           TypeID
	String           TypeID
	Throwable        TypeID
	Exception        TypeID
	RuntimeException TypeID
	Error            TypeID
}

// Interner provides stable TypeIDs and owns the class table.
// Class slots hold immutable *ClassInfo values that are replaced, never edited.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	classes  []*ClassInfo
	byName   map[string]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with primitives and the java.lang prelude.
func NewInterner() *Interner {
	in := &Interner{
		index:  make(map[Type]TypeID, 64),
		byName: make(map[string]TypeID, 64),
	}
	in.classes = append(in.classes, nil) // slot 0 is invalid
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	in.builtins.Byte = in.Intern(Type{Kind: KindByte})
	in.builtins.Short = in.Intern(Type{Kind: KindShort})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Long = in.Intern(Type{Kind: KindLong})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Double = in.Intern(Type{Kind: KindDouble})
	installPrelude(in)
	return in
}

// Builtins returns the well-known TypeIDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// KindOf returns KindInvalid for unknown ids.
func (in *Interner) KindOf(id TypeID) Kind {
	t, _ := in.Lookup(id)
	return t.Kind
}

// RegisterClass allocates a class slot for name, or returns the existing one.
// The slot starts with a bare ClassInfo carrying only the name.
func (in *Interner) RegisterClass(name string, decl source.Span) (TypeID, bool) {
	if id, ok := in.byName[name]; ok {
		return id, false
	}
	slot, err := safecast.Conv[uint32](len(in.classes))
	if err != nil {
		panic(fmt.Errorf("len(classes) overflow: %w", err))
	}
	pkg, _ := SplitName(name)
	in.classes = append(in.classes, &ClassInfo{Name: name, Package: pkg, Decl: decl})
	id := in.internRaw(Type{Kind: KindClass, Payload: slot})
	in.classes[slot].Self = id
	in.byName[name] = id
	return id, true
}

// Class returns the current ClassInfo of a class type, or nil.
func (in *Interner) Class(id TypeID) *ClassInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindClass || int(t.Payload) >= len(in.classes) {
		return nil
	}
	return in.classes[t.Payload]
}

// SetClass rebinds the slot of id to info. Holders of the previous value keep it.
func (in *Interner) SetClass(id TypeID, info *ClassInfo) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindClass {
		panic(fmt.Sprintf("types: SetClass on non-class type %d", id))
	}
	info.Self = id
	in.classes[t.Payload] = info
}

// ClassByName finds a registered class by fully qualified name.
func (in *Interner) ClassByName(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// ClassNames returns every registered class name, sorted.
func (in *Interner) ClassNames() []string {
	names := make([]string, 0, len(in.byName))
	for name := range in.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimitiveByName maps a keyword to its primitive type.
func (in *Interner) PrimitiveByName(name string) (TypeID, bool) {
	b := in.builtins
	switch name {
	case "boolean":
		return b.Boolean, true
	case "byte":
		return b.Byte, true
	case "short":
		return b.Short, true
	case "char":
		return b.Char, true
	case "int":
		return b.Int, true
	case "long":
		return b.Long, true
	case "float":
		return b.Float, true
	case "double":
		return b.Double, true
	case "void":
		return b.Void, true
	}
	return NoTypeID, false
}

// TypeString renders id the way messages print types.
func (in *Interner) TypeString(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	if t.Kind == KindClass {
		return in.classes[t.Payload].Name
	}
	return t.Kind.String()
}

// TypeList renders ids separated by commas.
func (in *Interner) TypeList(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.TypeString(id)
	}
	return strings.Join(parts, ", ")
}

// SplitName splits "p.q.A" into "p.q" and "A".
func SplitName(name string) (pkg, simple string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

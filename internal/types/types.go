package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown      // placeholder until disambiguation resolves a name
	KindVoid
	KindNull
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "<unknown>"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive covers boolean and the numeric kinds.
func (k Kind) IsPrimitive() bool { return k >= KindBoolean && k <= KindDouble }

func (k Kind) IsNumeric() bool { return k >= KindByte && k <= KindDouble }

func (k Kind) IsIntegral() bool { return k >= KindByte && k <= KindLong }

// Type is a compact descriptor. Payload indexes the class table for KindClass.
type Type struct {
	Kind    Kind
	Payload uint32
}

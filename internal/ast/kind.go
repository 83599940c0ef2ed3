package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the syntactic category of a node. The comment on each kind gives
// its fixed child layout; "?" marks an optional slot (NoNodeID when absent).
type Kind uint8

const (
	KindInvalid    Kind = iota
	KindSourceFile      // [imports List, decls List]; Name = package
	KindImport          // Name = "p.A" or "p.*"
	KindClassDecl       // [super TypeNode?, interfaces List, members List]; Name, Flags, Type
	KindFieldDecl       // [type TypeNode, init?]; Name, Flags, Fact *FieldInstance
	KindMethodDecl      // [ret TypeNode, formals List, throws List, body Block?]; Name, Flags, Fact *MethodInstance
	KindFormal          // [type TypeNode]; Name, Flags, Fact *LocalInstance
	KindBlock           // statements
	KindLocalDecl       // [type TypeNode, init?]; Name, Flags, Fact *LocalInstance
	KindExprStmt        // [expr]
	KindReturn          // [expr?]
	KindThrow           // [expr]
	KindIf              // [cond, then, else?]
	KindWhile           // [cond, body]
	KindTry             // [block, catches List, finally Block?]
	KindCatch           // [formal, block]
	KindEmpty           // ;
	KindList            // items
	KindTypeNode        // Name as written; Type once resolved
	KindLit             // Lit
	KindName            // Name, not yet disambiguated
	KindLocal           // Name, Fact *LocalInstance
	KindField           // [receiver?]; Name, Fact *FieldInstance
	KindBinary          // [left, right]; Op
	KindUnary           // [operand]; Op
	KindAssign          // [target, value]
	KindCall            // [receiver?, args List]; Name, Fact *MethodInstance
	KindNew             // [type TypeNode, args List]
	KindThis            // implicit or explicit receiver
	kindCount
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	KindSourceFile: "SourceFile",
	KindImport:     "Import",
	KindClassDecl:  "ClassDecl",
	KindFieldDecl:  "FieldDecl",
	KindMethodDecl: "MethodDecl",
	KindFormal:     "Formal",
	KindBlock:      "Block",
	KindLocalDecl:  "LocalDecl",
	KindExprStmt:   "ExprStmt",
	KindReturn:     "Return",
	KindThrow:      "Throw",
	KindIf:         "If",
	KindWhile:      "While",
	KindTry:        "Try",
	KindCatch:      "Catch",
	KindEmpty:      "Empty",
	KindList:       "List",
	KindTypeNode:   "TypeNode",
	KindLit:        "Lit",
	KindName:       "Name",
	KindLocal:      "Local",
	KindField:      "Field",
	KindBinary:     "Binary",
	KindUnary:      "Unary",
	KindAssign:     "Assign",
	KindCall:       "Call",
	KindNew:        "New",
	KindThis:       "This",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds lists every valid node kind.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsExpr reports whether nodes of kind produce a value.
func (k Kind) IsExpr() bool {
	switch k {
	case KindLit, KindName, KindLocal, KindField, KindBinary, KindUnary,
		KindAssign, KindCall, KindNew, KindThis:
		return true
	}
	return false
}

// Op is the operator of Binary and Unary nodes.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpUshr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpCondAnd
	OpCondOr
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	// унарные
	OpNeg
	OpPos
	OpNot
	OpBitNot
)

var opText = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpShl:     "<<",
	OpShr:     ">>",
	OpUshr:    ">>>",
	OpBitAnd:  "&",
	OpBitOr:   "|",
	OpBitXor:  "^",
	OpCondAnd: "&&",
	OpCondOr:  "||",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpGt:      ">",
	OpLe:      "<=",
	OpGe:      ">=",
	OpNeg:     "-",
	OpPos:     "+",
	OpNot:     "!",
	OpBitNot:  "~",
}

func (op Op) String() string {
	if int(op) < len(opText) {
		return opText[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// LitKind classifies literal nodes.
type LitKind uint8

const (
	LitInt LitKind = iota + 1
	LitLong
	LitDouble
	LitBool
	LitChar
	LitString
	LitNull
)

// Literal is the payload of Lit nodes. Value holds int64, float64, bool,
// rune, string or nil depending on Kind.
type Literal struct {
	Kind  LitKind
	Value any
}

func (l Literal) String() string {
	switch l.Kind {
	case LitNull:
		return "null"
	case LitString:
		return fmt.Sprintf("%q", l.Value)
	case LitChar:
		if r, ok := l.Value.(rune); ok {
			return fmt.Sprintf("%q", r)
		}
	case LitLong:
		return fmt.Sprintf("%vL", l.Value)
	case LitDouble:
		if f, ok := l.Value.(float64); ok {
			out := strconv.FormatFloat(f, 'g', -1, 64)
			if !strings.ContainsAny(out, ".eEn") {
				out += ".0"
			}
			return out
		}
	}
	return fmt.Sprint(l.Value)
}

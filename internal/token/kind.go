package token

import "fmt"

// Kind is the lexical class of a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	LongLit
	DoubleLit
	CharLit
	StringLit

	// ключевые слова
	KwPackage
	KwImport
	KwClass
	KwInterface
	KwExtends
	KwImplements
	KwPublic
	KwProtected
	KwPrivate
	KwStatic
	KwFinal
	KwAbstract
	KwNative
	KwSynchronized
	KwTransient
	KwVolatile
	KwVoid
	KwBoolean
	KwByte
	KwShort
	KwChar
	KwInt
	KwLong
	KwFloat
	KwDouble
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwThrow
	KwThrows
	KwTry
	KwCatch
	KwFinally
	KwNew
	KwNull
	KwTrue
	KwFalse
	KwThis

	// пунктуация и операторы
	LParen
	RParen
	LBrace
	RBrace
	Semicolon
	Comma
	Dot
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Tilde
	Amp
	Pipe
	Caret
	AndAnd
	OrOr
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	Shl
	Shr
	Ushr
)

var kindText = map[Kind]string{
	Invalid:   "invalid",
	EOF:       "end of file",
	Ident:     "identifier",
	IntLit:    "int literal",
	LongLit:   "long literal",
	DoubleLit: "double literal",
	CharLit:   "char literal",
	StringLit: "string literal",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	Semicolon: ";",
	Comma:     ",",
	Dot:       ".",
	Assign:    "=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Bang:      "!",
	Tilde:     "~",
	Amp:       "&",
	Pipe:      "|",
	Caret:     "^",
	AndAnd:    "&&",
	OrOr:      "||",
	EqEq:      "==",
	BangEq:    "!=",
	Lt:        "<",
	Gt:        ">",
	LtEq:      "<=",
	GtEq:      ">=",
	Shl:       "<<",
	Shr:       ">>",
	Ushr:      ">>>",
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	if s, ok := keywordText[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwPackage && k <= KwThis }

// IsModifier reports whether k is a declaration modifier keyword.
func (k Kind) IsModifier() bool { return k >= KwPublic && k <= KwVolatile }

// IsPrimitiveType reports whether k names a primitive type or void.
func (k Kind) IsPrimitiveType() bool { return k >= KwVoid && k <= KwDouble }

package parser

import (
	"polyc/internal/ast"
	"polyc/internal/token"
)

// Уровни приоритета бинарных операторов (чем больше, тем сильнее связывает).
// Присваивание разбирается отдельно, оно правоассоциативно.
const (
	precNone = iota
	precCondOr
	precCondAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

type binaryOp struct {
	op   ast.Op
	prec int
}

var binaryOps = map[token.Kind]binaryOp{
	token.OrOr:    {ast.OpCondOr, precCondOr},
	token.AndAnd:  {ast.OpCondAnd, precCondAnd},
	token.Pipe:    {ast.OpBitOr, precBitOr},
	token.Caret:   {ast.OpBitXor, precBitXor},
	token.Amp:     {ast.OpBitAnd, precBitAnd},
	token.EqEq:    {ast.OpEq, precEquality},
	token.BangEq:  {ast.OpNe, precEquality},
	token.Lt:      {ast.OpLt, precRelational},
	token.Gt:      {ast.OpGt, precRelational},
	token.LtEq:    {ast.OpLe, precRelational},
	token.GtEq:    {ast.OpGe, precRelational},
	token.Shl:     {ast.OpShl, precShift},
	token.Shr:     {ast.OpShr, precShift},
	token.Ushr:    {ast.OpUshr, precShift},
	token.Plus:    {ast.OpAdd, precAdditive},
	token.Minus:   {ast.OpSub, precAdditive},
	token.Star:    {ast.OpMul, precMultiplicative},
	token.Slash:   {ast.OpDiv, precMultiplicative},
	token.Percent: {ast.OpMod, precMultiplicative},
}

var unaryOps = map[token.Kind]ast.Op{
	token.Minus: ast.OpNeg,
	token.Plus:  ast.OpPos,
	token.Bang:  ast.OpNot,
	token.Tilde: ast.OpBitNot,
}

// getBinaryOperatorPrec returns the operator and its precedence, or precNone.
func getBinaryOperatorPrec(k token.Kind) (ast.Op, int) {
	if b, ok := binaryOps[k]; ok {
		return b.op, b.prec
	}
	return ast.OpInvalid, precNone
}

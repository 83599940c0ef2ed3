package lexer

import (
	"polyc/internal/diag"
	"polyc/internal/token"
)

// scanNumber: 123, 0x1F, 10L, 1.5, .5, 1e9, 2.0d, 1f.
// Float suffixes produce DoubleLit: the source languages have no float literal type.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			lx.errorf(diag.LexBadNumber, lx.cursor.SpanFrom(start), "hexadecimal literal needs digits")
		}
	} else {
		lx.eatDigits()
		if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
			kind = token.DoubleLit
			lx.cursor.Bump()
			lx.eatDigits()
		}
		if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
			kind = token.DoubleLit
			lx.cursor.Bump()
			if b := lx.cursor.Peek(); b == '+' || b == '-' {
				lx.cursor.Bump()
			}
			if !isDec(lx.cursor.Peek()) {
				lx.errorf(diag.LexBadNumber, lx.cursor.SpanFrom(start), "exponent needs digits")
			}
			lx.eatDigits()
		}
	}
	switch lx.cursor.Peek() {
	case 'L', 'l':
		if kind == token.DoubleLit {
			lx.cursor.Bump()
			lx.errorf(diag.LexBadNumber, lx.cursor.SpanFrom(start), "long suffix on a floating-point literal")
			break
		}
		lx.cursor.Bump()
		kind = token.LongLit
	case 'd', 'D', 'f', 'F':
		lx.cursor.Bump()
		kind = token.DoubleLit
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.errorf(diag.LexBadNumber, lx.cursor.SpanFrom(start), "malformed number "+lx.cursor.TextFrom(start))
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.TextFrom(start)}
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.TextFrom(start)}
}

func (lx *Lexer) eatDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "unterminated string literal")
}

func (lx *Lexer) scanChar() token.Token {
	return lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "unterminated character literal")
}

// scanQuoted keeps the quotes and escapes in Text; the parser decodes them.
func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, msg string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errorf(code, sp, msg)
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.TextFrom(start)}
		}
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			break
		}
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: lx.cursor.TextFrom(start)}
}

// операторы: сначала самые длинные
var operators = []struct {
	text string
	kind token.Kind
}{
	{">>>", token.Ushr},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
	{"=", token.Assign},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"!", token.Bang},
	{"~", token.Tilde},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"<", token.Lt},
	{">", token.Gt},
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	rest := lx.cursor.File.Content[lx.cursor.Off:lx.cursor.Limit]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			lx.cursor.Off += uint32(len(op.text)) // #nosec G115
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}
		}
	}
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.errorf(diag.LexUnknownChar, sp, "unknown character "+lx.cursor.TextFrom(start))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.TextFrom(start)}
}

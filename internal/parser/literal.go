package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/token"
)

// decodeNumber converts an int, long or double token. negated is set when the
// literal is the operand of unary minus; the result is then already negative.
func (p *Parser) decodeNumber(tok token.Token, negated bool) (ast.Literal, bool) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	switch tok.Kind {
	case token.DoubleLit:
		text = strings.TrimRight(text, "dDfF")
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errAt(diag.LexBadNumber, tok.Span, "malformed floating-point literal "+tok.Text)
			return ast.Literal{}, false
		}
		if negated {
			v = -v
		}
		return ast.Literal{Kind: ast.LitDouble, Value: v}, true

	case token.LongLit:
		v, ok := p.decodeIntegral(tok, strings.TrimRight(text, "lL"), 64, negated)
		return ast.Literal{Kind: ast.LitLong, Value: v}, ok

	default:
		v, ok := p.decodeIntegral(tok, text, 32, negated)
		return ast.Literal{Kind: ast.LitInt, Value: v}, ok
	}
}

// decodeIntegral: decimal literals must fit the signed range (one more when
// negated); hex and octal literals may use the full unsigned width.
func (p *Parser) decodeIntegral(tok token.Token, text string, bits int, negated bool) (int64, bool) {
	u, err := strconv.ParseUint(text, 0, 64)
	decimal := len(text) == 1 || text[0] != '0'
	tooLarge := func() (int64, bool) {
		what := "integer"
		if bits == 64 {
			what = "long"
		}
		p.errAt(diag.LexBadNumber, tok.Span, what+" number too large: "+tok.Text)
		return 0, false
	}
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return tooLarge()
		}
		p.errAt(diag.LexBadNumber, tok.Span, "malformed number "+tok.Text)
		return 0, false
	}

	if decimal {
		limit := uint64(1)<<(bits-1) - 1
		if negated {
			limit++
		}
		if u > limit {
			return tooLarge()
		}
		if negated {
			return -int64(u), true // для 1<<63 переполнение даёт ровно MinInt64
		}
		return int64(u), true
	}

	var v int64
	if bits == 32 {
		if u > math.MaxUint32 {
			return tooLarge()
		}
		v = int64(int32(uint32(u)))
	} else {
		v = int64(u)
	}
	if negated {
		v = -v
	}
	return v, true
}

func (p *Parser) decodeQuoted(tok token.Token) (ast.Literal, bool) {
	body := tok.Text
	if len(body) < 2 {
		p.errAt(diag.LexUnterminatedString, tok.Span, "malformed literal")
		return ast.Literal{}, false
	}
	s, err := unescape(body[1 : len(body)-1])
	if err != "" {
		p.errAt(diag.LexUnterminatedString, tok.Span, err)
		return ast.Literal{}, false
	}
	if tok.Kind == token.StringLit {
		return ast.Literal{Kind: ast.LitString, Value: s}, true
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		p.errAt(diag.LexUnterminatedChar, tok.Span, "character literal must contain exactly one character")
		return ast.Literal{}, false
	}
	return ast.Literal{Kind: ast.LitChar, Value: r}, true
}

// unescape decodes \b \t \n \f \r \" \' \\, octal escapes and \uXXXX.
func unescape(s string) (string, string) {
	if !strings.Contains(s, `\`) {
		return s, ""
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", "unterminated escape sequence"
		}
		switch c = s[i]; c {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case '"', '\'', '\\':
			sb.WriteByte(c)
		case 'u':
			for i+1 < len(s) && s[i+1] == 'u' {
				i++
			}
			if len(s)-(i+1) < 4 {
				return "", "illegal unicode escape"
			}
			v, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", "illegal unicode escape"
			}
			sb.WriteRune(rune(v))
			i += 4
		default:
			if c < '0' || c > '7' {
				return "", "illegal escape character '" + string(c) + "'"
			}
			// до трёх восьмеричных цифр, максимум \377
			maxDigits := 2
			if c <= '3' {
				maxDigits = 3
			}
			v := 0
			n := 0
			for n < maxDigits && i < len(s) && s[i] >= '0' && s[i] <= '7' {
				v = v*8 + int(s[i]-'0')
				i++
				n++
			}
			i--
			sb.WriteRune(rune(v))
		}
	}
	return sb.String(), ""
}

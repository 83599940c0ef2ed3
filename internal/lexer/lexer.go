package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/token"
)

// Lexer turns one file into tokens. Errors go to the reporter and lexing
// continues; the offending bytes come back as token.Invalid.
type Lexer struct {
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token
}

func New(file *source.File, r diag.Reporter) *Lexer {
	if r == nil {
		r = diag.NopReporter
	}
	return &Lexer{cursor: NewCursor(file), reporter: r}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token; after EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	start := lx.cursor.Mark()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(start)}
	}
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	}
	return lx.scanOperator()
}

func (lx *Lexer) errorf(code diag.Code, sp source.Span, msg string) {
	lx.reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

// skipTrivia пропускает пробелы и комментарии
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch ch := lx.cursor.Peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f':
			lx.cursor.Bump()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			if !closed {
				lx.errorf(diag.LexUnterminatedBlock, lx.cursor.SpanFrom(start), "unterminated block comment")
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch < utf8.RuneSelf {
			if !isIdentContinueByte(ch) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, size := utf8.DecodeRune(lx.cursor.File.Content[lx.cursor.Off:])
		first := lx.cursor.Off == uint32(start)
		if !(unicode.IsLetter(r) || (!first && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)))) {
			break
		}
		ascii = false
		lx.cursor.Off += uint32(size) // #nosec G115 -- rune size <= 4
	}
	sp := lx.cursor.SpanFrom(start)
	if sp.Empty() {
		// одиночный не-ASCII символ, не являющийся буквой
		_, size := utf8.DecodeRune(lx.cursor.File.Content[lx.cursor.Off:])
		lx.cursor.Off += uint32(size) // #nosec G115
		sp = lx.cursor.SpanFrom(start)
		lx.errorf(diag.LexUnknownChar, sp, "unknown character "+lx.cursor.TextFrom(start))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.TextFrom(start)}
	}
	text := lx.cursor.TextFrom(start)
	if !ascii {
		// одинаково выглядящие имена должны совпадать
		text = norm.NFC.String(text)
		return token.Token{Kind: token.Ident, Span: sp, Text: text}
	}
	return token.Token{Kind: token.LookupKeyword(text), Span: sp, Text: text}
}

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

package parser

import (
	"slices"

	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan: на EOF указываем сразу за последним токеном
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.errAt(code, sp, msg+", found "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) expectSemi() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return ok
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.errors++
	p.reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier '" + tok.Text + "'"
	}
	if tok.Text != "" {
		return "'" + tok.Text + "'"
	}
	return tok.Kind.String()
}

// resyncTop пропускает токены до начала следующего объявления верхнего уровня.
func (p *Parser) resyncTop() {
	p.advance()
	for !p.at(token.EOF) {
		if p.atAny(token.KwClass, token.KwInterface) || p.lx.Peek().Kind.IsModifier() {
			return
		}
		p.advance()
	}
}

// resyncStmt skips to just past the next ';' or to a '}' / '{' on the same level.
func (p *Parser) resyncStmt() {
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace, token.LBrace:
			return
		}
		p.advance()
	}
}

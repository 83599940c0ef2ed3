package parser

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/token"
)

// parseExpr: assignment | binary
func (p *Parser) parseExpr() (ast.NodeID, bool) {
	lhs, ok := p.parseBinary(precCondOr)
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.Assign) {
		return lhs, true
	}
	eq := p.advance()
	target := p.b.Tree.Node(lhs)
	if target.Kind != ast.KindName && target.Kind != ast.KindField {
		p.errAt(diag.SynUnexpectedToken, eq.Span, "left side of assignment must be a variable")
	}
	rhs, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Node(ast.KindAssign, target.Span.Cover(p.lastSpan), lhs, rhs), true
}

// precedence climbing, все бинарные операторы левоассоциативны
func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	for {
		op, prec := getBinaryOperatorPrec(p.lx.Peek().Kind)
		if prec == precNone || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoNodeID, false
		}
		sp := p.b.Tree.Node(left).Span.Cover(p.lastSpan)
		left = p.b.Binary(sp, op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	op, ok := unaryOps[p.lx.Peek().Kind]
	if !ok {
		return p.parsePostfix()
	}
	tok := p.advance()
	// -2147483648 и -9223372036854775808L допустимы только с минусом
	if op == ast.OpNeg && p.atAny(token.IntLit, token.LongLit) {
		litTok := p.advance()
		lit, ok := p.decodeNumber(litTok, true)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.b.Lit(tok.Span.Cover(litTok.Span), lit), true
	}
	x, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Unary(tok.Span.Cover(p.lastSpan), op, x), true
}

// parsePostfix: primary ('.' Ident ['(' args ')'])*
func (p *Parser) parsePostfix() (ast.NodeID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoNodeID, false
	}
	for p.at(token.Dot) {
		p.advance()
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
		if !ok {
			return ast.NoNodeID, false
		}
		start := p.b.Tree.Node(expr).Span
		if p.at(token.LParen) {
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoNodeID, false
			}
			expr = p.b.Make(ast.Node{
				Kind: ast.KindCall,
				Span: start.Cover(p.lastSpan),
				Name: nameTok.Text,
				Kids: []ast.NodeID{expr, args},
			})
			continue
		}
		expr = p.b.Make(ast.Node{
			Kind: ast.KindField,
			Span: start.Cover(nameTok.Span),
			Name: nameTok.Text,
			Kids: []ast.NodeID{expr},
		})
	}
	return expr, true
}

func (p *Parser) parseArgs() (ast.NodeID, bool) {
	open := p.advance() // (
	var args []ast.NodeID
	if !p.at(token.RParen) {
		for {
			a, ok := p.parseExpr()
			if !ok {
				return ast.NoNodeID, false
			}
			args = append(args, a)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after arguments"); !ok {
		return ast.NoNodeID, false
	}
	return p.b.List(open.Span.Cover(p.lastSpan), args), true
}

func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.LongLit, token.DoubleLit:
		p.advance()
		lit, ok := p.decodeNumber(tok, false)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.b.Lit(tok.Span, lit), true

	case token.CharLit, token.StringLit:
		p.advance()
		lit, ok := p.decodeQuoted(tok)
		if !ok {
			return ast.NoNodeID, false
		}
		return p.b.Lit(tok.Span, lit), true

	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.b.Lit(tok.Span, ast.Literal{Kind: ast.LitBool, Value: tok.Kind == token.KwTrue}), true

	case token.KwNull:
		p.advance()
		return p.b.Lit(tok.Span, ast.Literal{Kind: ast.LitNull}), true

	case token.KwThis:
		p.advance()
		return p.b.Node(ast.KindThis, tok.Span), true

	case token.KwNew:
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoNodeID, false
		}
		if !p.at(token.LParen) {
			p.errAt(diag.SynUnexpectedToken, p.diagSpan(), "expected '(' after type in 'new' expression")
			return ast.NoNodeID, false
		}
		args, ok := p.parseArgs()
		if !ok {
			return ast.NoNodeID, false
		}
		return p.b.Node(ast.KindNew, tok.Span.Cover(p.lastSpan), typ, args), true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		return inner, true

	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			args, ok := p.parseArgs()
			if !ok {
				return ast.NoNodeID, false
			}
			return p.b.Make(ast.Node{
				Kind: ast.KindCall,
				Span: tok.Span.Cover(p.lastSpan),
				Name: tok.Text,
				Kids: []ast.NodeID{ast.NoNodeID, args},
			}), true
		}
		return p.b.Make(ast.Node{Kind: ast.KindName, Span: tok.Span, Name: tok.Text}), true
	}

	if tok.Kind == token.Invalid {
		// лексер уже сообщил
		p.advance()
		return ast.NoNodeID, false
	}
	p.errAt(diag.SynExpectExpression, p.diagSpan(), "expected expression, found "+describe(tok))
	return ast.NoNodeID, false
}

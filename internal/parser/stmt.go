package parser

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/token"
	"polyc/internal/types"
)

func (p *Parser) parseBlock() ast.NodeID {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return p.b.Node(ast.KindBlock, open.Span)
	}
	var stmts []ast.NodeID
	for !p.atAny(token.RBrace, token.EOF) {
		before := p.lastSpan
		ids, ok := p.parseStmt()
		stmts = append(stmts, ids...)
		if !ok {
			p.resyncStmt()
			if p.lastSpan == before && p.at(token.LBrace) {
				p.skipBlock()
			}
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block"); !ok {
		p.reportUnclosed(open)
	}
	return p.b.Make(ast.Node{Kind: ast.KindBlock, Span: open.Span.Cover(p.lastSpan), Kids: stmts})
}

// parseStmt returns several nodes for "int a, b;" and none for nothing parsed.
func (p *Parser) parseStmt() ([]ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch {
	case tok.Kind == token.LBrace:
		return []ast.NodeID{p.parseBlock()}, true
	case tok.Kind == token.Semicolon:
		p.advance()
		return []ast.NodeID{p.b.Node(ast.KindEmpty, tok.Span)}, true
	case tok.Kind == token.KwIf:
		return p.one(p.parseIf())
	case tok.Kind == token.KwWhile:
		return p.one(p.parseWhile())
	case tok.Kind == token.KwReturn:
		return p.one(p.parseReturn())
	case tok.Kind == token.KwThrow:
		return p.one(p.parseThrow())
	case tok.Kind == token.KwTry:
		return p.one(p.parseTry())
	case tok.Kind.IsModifier(), tok.Kind.IsPrimitiveType():
		flags, modSpan, hasMods := p.parseModifiers()
		start := p.lx.Peek().Span
		if hasMods {
			start = modSpan
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return p.parseLocalRest(start, flags, typ)
	}

	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	// "a.b.C x": выражение оказалось именем типа
	if p.at(token.Ident) {
		if name, ok := p.typeNameOf(expr); ok {
			sp := p.b.Tree.Node(expr).Span
			typ := p.b.Make(ast.Node{Kind: ast.KindTypeNode, Span: sp, Name: name})
			return p.parseLocalRest(sp, 0, typ)
		}
	}
	if !isStatementExpr(p.b.Tree.Node(expr).Kind) {
		p.errAt(diag.SynExpectExpression, p.b.Tree.Node(expr).Span, "not a statement")
	}
	if !p.expectSemi() {
		return nil, false
	}
	return []ast.NodeID{p.b.Node(ast.KindExprStmt, tok.Span.Cover(p.lastSpan), expr)}, true
}

func (p *Parser) one(id ast.NodeID, ok bool) ([]ast.NodeID, bool) {
	if !ok {
		return nil, false
	}
	return []ast.NodeID{id}, true
}

func isStatementExpr(k ast.Kind) bool {
	return k == ast.KindAssign || k == ast.KindCall || k == ast.KindNew
}

// typeNameOf turns a Name or a chain of receiver-ful Field nodes into "a.b.C".
func (p *Parser) typeNameOf(id ast.NodeID) (string, bool) {
	n := p.b.Tree.Node(id)
	switch n.Kind {
	case ast.KindName:
		return n.Name, true
	case ast.KindField:
		if n.Kid(0) == ast.NoNodeID {
			return "", false
		}
		prefix, ok := p.typeNameOf(n.Kid(0))
		if !ok {
			return "", false
		}
		return prefix + "." + n.Name, true
	}
	return "", false
}

func (p *Parser) parseLocalRest(start source.Span, flags types.Flags, typ ast.NodeID) ([]ast.NodeID, bool) {
	var out []ast.NodeID
	for {
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			return out, false
		}
		init := ast.NoNodeID
		if p.at(token.Assign) {
			p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return out, false
			}
			init = e
		}
		out = append(out, p.b.Make(ast.Node{
			Kind:  ast.KindLocalDecl,
			Span:  start.Cover(p.lastSpan),
			Name:  nameTok.Text,
			Flags: flags,
			Kids:  []ast.NodeID{typ, init},
		}))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return out, p.expectSemi()
}

func (p *Parser) parseParenCond() (ast.NodeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoNodeID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	return cond, true
}

// parseSubStmt parses the body of if/while; declarations are not allowed there.
func (p *Parser) parseSubStmt() (ast.NodeID, bool) {
	ids, ok := p.parseStmt()
	if !ok {
		return ast.NoNodeID, false
	}
	if len(ids) != 1 {
		sp := p.lastSpan
		if len(ids) > 0 {
			sp = p.b.Tree.Node(ids[0]).Span
		}
		p.errAt(diag.SynUnexpectedToken, sp, "declaration not allowed here")
		return p.b.Make(ast.Node{Kind: ast.KindBlock, Span: sp, Kids: ids}), true
	}
	if k := p.b.Tree.Node(ids[0]).Kind; k == ast.KindLocalDecl {
		p.errAt(diag.SynUnexpectedToken, p.b.Tree.Node(ids[0]).Span, "declaration not allowed here")
	}
	return ids[0], true
}

func (p *Parser) parseIf() (ast.NodeID, bool) {
	start := p.advance().Span
	cond, ok := p.parseParenCond()
	if !ok {
		return ast.NoNodeID, false
	}
	then, ok := p.parseSubStmt()
	if !ok {
		return ast.NoNodeID, false
	}
	els := ast.NoNodeID
	if p.at(token.KwElse) {
		p.advance()
		if els, ok = p.parseSubStmt(); !ok {
			return ast.NoNodeID, false
		}
	}
	return p.b.Node(ast.KindIf, start.Cover(p.lastSpan), cond, then, els), true
}

func (p *Parser) parseWhile() (ast.NodeID, bool) {
	start := p.advance().Span
	cond, ok := p.parseParenCond()
	if !ok {
		return ast.NoNodeID, false
	}
	body, ok := p.parseSubStmt()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Node(ast.KindWhile, start.Cover(p.lastSpan), cond, body), true
}

func (p *Parser) parseReturn() (ast.NodeID, bool) {
	start := p.advance().Span
	val := ast.NoNodeID
	if !p.at(token.Semicolon) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoNodeID, false
		}
		val = e
	}
	if !p.expectSemi() {
		return ast.NoNodeID, false
	}
	return p.b.Node(ast.KindReturn, start.Cover(p.lastSpan), val), true
}

func (p *Parser) parseThrow() (ast.NodeID, bool) {
	start := p.advance().Span
	e, ok := p.parseExpr()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.expectSemi() {
		return ast.NoNodeID, false
	}
	return p.b.Node(ast.KindThrow, start.Cover(p.lastSpan), e), true
}

// try Block (catch (Formal) Block)* [finally Block]
func (p *Parser) parseTry() (ast.NodeID, bool) {
	start := p.advance().Span
	if !p.at(token.LBrace) {
		p.errAt(diag.SynUnexpectedToken, p.diagSpan(), "expected '{' after 'try'")
		return ast.NoNodeID, false
	}
	block := p.parseBlock()

	var catches []ast.NodeID
	catchStart := p.lx.Peek().Span
	for p.at(token.KwCatch) {
		kw := p.advance()
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'catch'"); !ok {
			return ast.NoNodeID, false
		}
		formal, ok := p.parseFormal()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		body := p.parseBlock()
		catches = append(catches, p.b.Node(ast.KindCatch, kw.Span.Cover(p.lastSpan), formal, body))
	}
	catchList := p.b.List(catchStart.Cover(p.lastSpan), catches)

	finally := ast.NoNodeID
	if p.at(token.KwFinally) {
		p.advance()
		finally = p.parseBlock()
	}
	if len(catches) == 0 && finally == ast.NoNodeID {
		p.errAt(diag.SynUnexpectedToken, start, "'try' without 'catch' or 'finally'")
	}
	return p.b.Node(ast.KindTry, start.Cover(p.lastSpan), block, catchList, finally), true
}

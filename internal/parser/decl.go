package parser

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/token"
	"polyc/internal/types"
)

// parseModifiers collects modifier keywords. Repeats are reported and ignored.
func (p *Parser) parseModifiers() (types.Flags, source.Span, bool) {
	var flags types.Flags
	var sp source.Span
	seen := false
	for p.lx.Peek().Kind.IsModifier() {
		tok := p.advance()
		f, _ := types.FlagByName(tok.Text)
		if flags.Has(f) {
			p.errAt(diag.SynModifierRepeated, tok.Span, "repeated modifier '"+tok.Text+"'")
			continue
		}
		flags |= f
		if !seen {
			sp = tok.Span
			seen = true
		} else {
			sp = sp.Cover(tok.Span)
		}
	}
	return flags, sp, seen
}

// parseTypeDecl: modifiers (class|interface) Name ... { members }
func (p *Parser) parseTypeDecl() (ast.NodeID, bool) {
	flags, modSpan, hasMods := p.parseModifiers()
	start := p.lx.Peek().Span
	if hasMods {
		start = modSpan
	}

	isInterface := false
	switch p.lx.Peek().Kind {
	case token.KwClass:
		p.advance()
	case token.KwInterface:
		p.advance()
		isInterface = true
		flags |= types.FlagInterface
	default:
		p.errAt(diag.SynUnexpectedTopLevel, p.diagSpan(),
			"expected class or interface declaration, found "+describe(p.lx.Peek()))
		return ast.NoNodeID, false
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		return ast.NoNodeID, false
	}

	super := ast.NoNodeID
	var ifaces []ast.NodeID
	ifaceStart := p.lx.Peek().Span
	if p.at(token.KwExtends) {
		p.advance()
		if isInterface {
			ifaces = p.parseTypeList()
		} else if t, ok := p.parseType(); ok {
			super = t
		}
	}
	if p.at(token.KwImplements) {
		kw := p.advance()
		if isInterface {
			p.errAt(diag.SynUnexpectedToken, kw.Span, "an interface cannot implement other types; use 'extends'")
		}
		ifaces = append(ifaces, p.parseTypeList()...)
	}
	ifaceList := p.b.List(ifaceStart.Cover(p.lastSpan), ifaces)

	members := p.parseClassBody(nameTok.Text)
	return p.b.Make(ast.Node{
		Kind:  ast.KindClassDecl,
		Span:  start.Cover(p.lastSpan),
		Name:  nameTok.Text,
		Flags: flags,
		Kids:  []ast.NodeID{super, ifaceList, members},
	}), true
}

func (p *Parser) parseTypeList() []ast.NodeID {
	var out []ast.NodeID
	for {
		t, ok := p.parseType()
		if !ok {
			return out
		}
		out = append(out, t)
		if !p.at(token.Comma) {
			return out
		}
		p.advance()
	}
}

// parseType: primitive keyword | qualified name
func (p *Parser) parseType() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	if tok.Kind.IsPrimitiveType() {
		p.advance()
		return p.b.Make(ast.Node{Kind: ast.KindTypeNode, Span: tok.Span, Name: tok.Text}), true
	}
	if tok.Kind != token.Ident {
		p.errAt(diag.SynExpectType, p.diagSpan(), "expected type, found "+describe(tok))
		return ast.NoNodeID, false
	}
	name, ok := p.parseQualifiedName(false)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Make(ast.Node{Kind: ast.KindTypeNode, Span: tok.Span.Cover(p.lastSpan), Name: name}), true
}

func (p *Parser) parseClassBody(className string) ast.NodeID {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start class body")
	if !ok {
		return p.b.List(p.diagSpan(), nil)
	}
	var members []ast.NodeID
	for !p.atAny(token.RBrace, token.EOF) {
		before := p.lastSpan
		ids, ok := p.parseMember(className)
		members = append(members, ids...)
		if !ok {
			p.resyncStmt()
			// resync stopped on a '{' or made no progress
			if p.at(token.LBrace) {
				p.skipBlock()
			} else if p.lastSpan == before && !p.atAny(token.RBrace, token.EOF) {
				p.advance()
			}
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close class body"); !ok {
		p.reportUnclosed(open)
	}
	return p.b.List(open.Span.Cover(p.lastSpan), members)
}

func (p *Parser) reportUnclosed(open token.Token) {
	p.reporter.Report(diag.SynUnclosedDelimiter, diag.SevError, open.Span,
		"unclosed '"+open.Kind.String()+"'", nil, nil)
}

// skipBlock пропускает сбалансированный { ... }
func (p *Parser) skipBlock() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

// parseMember parses a field (possibly with several declarators) or a method.
func (p *Parser) parseMember(className string) ([]ast.NodeID, bool) {
	if p.at(token.Semicolon) {
		p.advance()
		return nil, true
	}
	flags, modSpan, hasMods := p.parseModifiers()
	start := p.lx.Peek().Span
	if hasMods {
		start = modSpan
	}
	if p.atAny(token.KwClass, token.KwInterface) {
		p.errAt(diag.SynUnexpectedToken, p.diagSpan(), "member classes are not supported")
		return nil, false
	}

	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if p.at(token.LParen) {
		typNode := p.b.Tree.Node(typ)
		msg := "expected member name"
		if typNode.Name == className {
			msg = "constructors are not supported"
		}
		p.errAt(diag.SynExpectIdentifier, typNode.Span, msg)
		return nil, false
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name")
	if !ok {
		return nil, false
	}
	if p.at(token.LParen) {
		id, ok := p.parseMethodRest(start, flags, typ, nameTok)
		return []ast.NodeID{id}, ok
	}

	var out []ast.NodeID
	for {
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
			Kind:  ast.KindFieldDecl,
			Span:  start.Cover(p.lastSpan),
			Name:  nameTok.Text,
			Flags: flags,
			Kids:  []ast.NodeID{typ, init},
		}))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		if nameTok, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name"); !ok {
			return out, false
		}
	}
	return out, p.expectSemi()
}

func (p *Parser) parseMethodRest(start source.Span, flags types.Flags, ret ast.NodeID, name token.Token) (ast.NodeID, bool) {
	open := p.advance() // (
	var formals []ast.NodeID
	if !p.at(token.RParen) {
		for {
			f, ok := p.parseFormal()
			if !ok {
				return ast.NoNodeID, false
			}
			formals = append(formals, f)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters"); !ok {
		return ast.NoNodeID, false
	}
	formalList := p.b.List(open.Span.Cover(p.lastSpan), formals)

	var throws []ast.NodeID
	throwsStart := p.lx.Peek().Span
	if p.at(token.KwThrows) {
		p.advance()
		throws = p.parseTypeList()
	}
	throwsList := p.b.List(throwsStart.Cover(p.lastSpan), throws)

	body := ast.NoNodeID
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.LBrace):
		body = p.parseBlock()
	default:
		p.errAt(diag.SynUnexpectedToken, p.diagSpan(), "expected method body or ';', found "+describe(p.lx.Peek()))
		return ast.NoNodeID, false
	}

	return p.b.Make(ast.Node{
		Kind:  ast.KindMethodDecl,
		Span:  start.Cover(p.lastSpan),
		Name:  name.Text,
		Flags: flags,
		Kids:  []ast.NodeID{ret, formalList, throwsList, body},
	}), true
}

// parseFormal: [final] Type Name
func (p *Parser) parseFormal() (ast.NodeID, bool) {
	flags, modSpan, hasMods := p.parseModifiers()
	start := p.lx.Peek().Span
	if hasMods {
		start = modSpan
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.NoNodeID, false
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Make(ast.Node{
		Kind:  ast.KindFormal,
		Span:  start.Cover(p.lastSpan),
		Name:  nameTok.Text,
		Flags: flags,
		Kids:  []ast.NodeID{typ},
	}), true
}

package parser

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/lexer"
	"polyc/internal/source"
	"polyc/internal/token"
)

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	file     *source.File
	reporter diag.Reporter
	lastSpan source.Span // span последнего съеденного токена
	errors   int
}

// ParseFile parses one compilation unit into b and returns the SourceFile
// node. Syntax errors are reported and the parser recovers at the next
// statement or declaration; the returned tree is always usable.
func ParseFile(file *source.File, b *ast.Builder, r diag.Reporter) ast.NodeID {
	if r == nil {
		r = diag.NopReporter
	}
	p := &Parser{
		lx:       lexer.New(file, r),
		b:        b,
		file:     file,
		reporter: r,
		lastSpan: source.Span{File: file.ID},
	}
	return p.parseSourceFile()
}

// Errors returns the number of syntax errors reported by the parser itself.
func (p *Parser) Errors() int { return p.errors }

func (p *Parser) parseSourceFile() ast.NodeID {
	start := p.lx.Peek().Span
	pkg := ""
	if p.at(token.KwPackage) {
		p.advance()
		pkg, _ = p.parseQualifiedName(false)
		p.expectSemi()
	}

	var imports []ast.NodeID
	importsStart := p.lx.Peek().Span
	for p.at(token.KwImport) {
		if id, ok := p.parseImport(); ok {
			imports = append(imports, id)
		}
	}
	importsList := p.b.List(importsStart.Cover(p.lastSpan), imports)

	var decls []ast.NodeID
	declsStart := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if id, ok := p.parseTypeDecl(); ok {
			decls = append(decls, id)
			continue
		}
		p.resyncTop()
	}
	declsList := p.b.List(declsStart.Cover(p.lastSpan), decls)

	sp := start.Cover(p.lastSpan)
	return p.b.Make(ast.Node{
		Kind: ast.KindSourceFile,
		Span: sp,
		Name: pkg,
		Kids: []ast.NodeID{importsList, declsList},
	})
}

// import a.b.C; | import a.b.*;
func (p *Parser) parseImport() (ast.NodeID, bool) {
	start := p.advance().Span
	name, ok := p.parseQualifiedName(true)
	if !ok {
		p.resyncStmt()
		return ast.NoNodeID, false
	}
	p.expectSemi()
	return p.b.Make(ast.Node{Kind: ast.KindImport, Span: start.Cover(p.lastSpan), Name: name}), true
}

// parseQualifiedName reads Ident ('.' Ident)* with an optional trailing ".*".
func (p *Parser) parseQualifiedName(allowStar bool) (string, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
	if !ok {
		return "", false
	}
	name := tok.Text
	for p.at(token.Dot) {
		p.advance()
		if allowStar && p.at(token.Star) {
			p.advance()
			return name + ".*", true
		}
		seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after '.'")
		if !ok {
			return name, false
		}
		name += "." + seg.Text
	}
	return name, true
}

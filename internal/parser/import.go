package parser

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/source"
	"lowerjs/internal/token"
)

// parseImport разбирает все формы статического import:
//
//	import "m";
//	import d from "m";
//	import * as ns from "m";
//	import { a, b as c, "x-y" as z } from "m";
//	import d, * as ns from "m";
//	import d, { a } from "m";
func (p *Parser) parseImport() ast.Stmt {
	start := p.advance().Span
	imp := &ast.SImport{}

	if p.at(token.StringLit) {
		imp.Source, imp.SourceSpan = p.parseModuleSpecifier()
		p.semicolon()
		return ast.Stmt{Span: p.spanFrom(start), Data: imp}
	}

	if p.at(token.Ident) {
		tok := p.advance()
		imp.Specifiers = append(imp.Specifiers, ast.ImportSpecifier{
			Span: tok.Span, Kind: ast.ImportDefault, Local: makeIdent(tok),
		})
		if !p.eat(token.Comma) {
			return p.finishImport(start, imp)
		}
	}

	switch {
	case p.at(token.Star):
		st := p.advance().Span
		p.expectWord("as")
		local := p.bindingIdent()
		imp.Specifiers = append(imp.Specifiers, ast.ImportSpecifier{
			Span: p.spanFrom(st), Kind: ast.ImportNamespace, Local: makeIdent(local),
		})
	case p.at(token.LBrace):
		p.advance()
		for !p.at(token.RBrace) {
			imp.Specifiers = append(imp.Specifiers, p.parseNamedImport())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace)
	default:
		p.failHere(diag.SynUnexpectedToken, "expected import clause")
	}
	return p.finishImport(start, imp)
}

func (p *Parser) finishImport(start source.Span, imp *ast.SImport) ast.Stmt {
	p.expectWord("from")
	imp.Source, imp.SourceSpan = p.parseModuleSpecifier()
	p.semicolon()
	return ast.Stmt{Span: p.spanFrom(start), Data: imp}
}

func (p *Parser) parseNamedImport() ast.ImportSpecifier {
	tok := p.peek()
	var imported string
	switch {
	case tok.Kind == token.StringLit:
		imported = tok.Value
	case tok.IsIdentName():
		imported = tok.Text
	default:
		p.failHere(diag.SynExpectIdentifier, "expected import name")
	}
	p.advance()
	if p.atWord("as") {
		p.advance()
		local := p.bindingIdent()
		return ast.ImportSpecifier{Span: p.spanFrom(tok.Span), Kind: ast.ImportNamed, Local: makeIdent(local), Imported: imported}
	}
	if tok.Kind != token.Ident {
		p.fail(diag.SynExpectIdentifier, tok.Span, "\""+imported+"\" must be renamed with \"as\"")
	}
	return ast.ImportSpecifier{Span: tok.Span, Kind: ast.ImportNamed, Local: makeIdent(tok)}
}

func (p *Parser) parseModuleSpecifier() (string, source.Span) {
	if !p.at(token.StringLit) {
		p.failHere(diag.SynExpectModuleString, "expected module specifier string")
	}
	tok := p.advance()
	return tok.Value, tok.Span
}

// exportName reads the name on the right of "as" or in "export * as": an
// identifier name or a string literal.
func (p *Parser) exportName() (string, token.Token) {
	tok := p.peek()
	switch {
	case tok.Kind == token.StringLit:
		p.advance()
		return tok.Value, tok
	case tok.IsIdentName():
		p.advance()
		return tok.Text, tok
	}
	p.failHere(diag.SynExpectIdentifier, "expected export name")
	return "", tok
}

func (p *Parser) parseExport() ast.Stmt {
	start := p.advance().Span
	mk := func(d ast.S) ast.Stmt { return ast.Stmt{Span: p.spanFrom(start), Data: d} }

	tok := p.peek()
	switch {
	case tok.Kind == token.KwDefault:
		p.advance()
		return p.parseExportDefault(start)

	case tok.Kind == token.Star:
		p.advance()
		all := &ast.SExportAll{}
		if p.atWord("as") {
			p.advance()
			all.Alias, _ = p.exportName()
		}
		p.expectWord("from")
		all.Source, all.SourceSpan = p.parseModuleSpecifier()
		p.semicolon()
		return mk(all)

	case tok.Kind == token.LBrace:
		p.advance()
		named := &ast.SExportNamed{}
		var reserved []token.Token
		for !p.at(token.RBrace) {
			local := p.peek()
			if !local.IsIdentName() && local.Kind != token.StringLit {
				p.failHere(diag.SynExpectIdentifier, "expected export name")
			}
			p.advance()
			if local.Kind != token.Ident {
				reserved = append(reserved, local)
			}
			name := local.Text
			if local.Kind == token.StringLit {
				name = local.Value
			}
			spec := ast.ExportSpecifier{Local: ast.Ident{Span: local.Span, Name: name}, Exported: name}
			if p.atWord("as") {
				p.advance()
				spec.Exported, _ = p.exportName()
			}
			spec.Span = p.spanFrom(local.Span)
			named.Specifiers = append(named.Specifiers, spec)
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace)
		if p.atWord("from") {
			p.advance()
			named.HasSource = true
			named.Source, named.SourceSpan = p.parseModuleSpecifier()
		} else if len(reserved) > 0 {
			p.fail(diag.SynExpectIdentifier, reserved[0].Span, "\""+reserved[0].Text+"\" is not a local binding")
		}
		p.semicolon()
		return mk(named)

	case tok.Kind == token.KwVar || tok.Kind == token.KwConst || (tok.Is("let") && p.startsLetDecl()):
		decl := p.parseLocal()
		p.semicolon()
		return mk(&ast.SExportDecl{Decl: decl})

	case tok.Kind == token.KwFunction:
		return mk(&ast.SExportDecl{Decl: p.parseFunctionDecl(false)})

	case tok.Is("async") && p.peekAt(1).Kind == token.KwFunction:
		return mk(&ast.SExportDecl{Decl: p.parseFunctionDecl(true)})

	case tok.Kind == token.KwClass:
		return mk(&ast.SExportDecl{Decl: p.parseClassDecl()})
	}
	p.failHere(diag.SynUnexpectedToken, "expected declaration or export clause")
	return ast.Stmt{}
}

// parseExportDefault handles the part after "export default". Function and
// class declarations keep their declaration form and may be anonymous.
func (p *Parser) parseExportDefault(start source.Span) ast.Stmt {
	mk := func(d ast.S) ast.Stmt { return ast.Stmt{Span: p.spanFrom(start), Data: d} }
	tok := p.peek()
	switch {
	case tok.Kind == token.KwFunction:
		return mk(&ast.SExportDefault{Decl: p.parseFunction(false, true)})
	case tok.Is("async") && p.peekAt(1).Kind == token.KwFunction && !p.peekAt(1).NewlineBefore:
		return mk(&ast.SExportDefault{Decl: p.parseFunction(true, true)})
	case tok.Kind == token.KwClass:
		return mk(&ast.SExportDefault{Decl: p.parseClass(true)})
	}
	val := p.parseAssign()
	p.semicolon()
	return mk(&ast.SExportDefault{Value: val})
}

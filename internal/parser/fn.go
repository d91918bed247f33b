package parser

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

func (p *Parser) parseFunctionDecl(isAsync bool) ast.Stmt {
	return p.parseFunction(isAsync, false)
}

// parseFunction parses a function declaration; the name may be omitted only
// after "export default".
func (p *Parser) parseFunction(isAsync, nameOptional bool) ast.Stmt {
	start := p.peek().Span
	fn := p.parseFn(isAsync, !nameOptional)
	return ast.Stmt{Span: p.spanFrom(start), Data: &ast.SFunction{Fn: fn}}
}

func (p *Parser) parseFunctionExpr(isAsync bool) ast.Expr {
	start := p.peek().Span
	fn := p.parseFn(isAsync, false)
	return ast.Expr{Span: p.spanFrom(start), Data: &ast.EFunction{Fn: fn}}
}

// parseFn starts at "async" or "function".
func (p *Parser) parseFn(isAsync, nameRequired bool) ast.Fn {
	if isAsync {
		p.advance()
	}
	p.expect(token.KwFunction, diag.SynUnexpectedToken)
	fn := ast.Fn{IsAsync: isAsync, IsGenerator: p.eat(token.Star)}
	if p.at(token.Ident) {
		name := makeIdent(p.advance())
		fn.Name = &name
	} else if nameRequired {
		p.failHere(diag.SynExpectIdentifier, "expected function name")
	}
	p.parseFnRest(&fn)
	return fn
}

// parseFnRest parses "(params) { body }" into fn.
func (p *Parser) parseFnRest(fn *ast.Fn) {
	p.withFunction(fn.IsAsync, fn.IsGenerator, func() {
		fn.Params, fn.Rest = p.parseParams()
		p.expect(token.LBrace, diag.SynUnexpectedToken)
		fn.Body = p.parseBody()
	})
}

// parseParams parses a parenthesized formal parameter list.
func (p *Parser) parseParams() ([]ast.Param, ast.Pat) {
	p.expect(token.LParen, diag.SynUnexpectedToken)
	var params []ast.Param
	var rest ast.Pat
	for !p.at(token.RParen) {
		if p.eat(token.DotDotDot) {
			rest = p.parseBindingTarget()
			break
		}
		param := ast.Param{Binding: p.parseBindingTarget()}
		if p.eat(token.Assign) {
			param.Default = p.parseAssign()
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, diag.SynUnclosedParen)
	return params, rest
}

// parseMethod parses "(params) { body }" of an object or class method into
// an EFunction expression.
func (p *Parser) parseMethod(isAsync, isGenerator bool) ast.Expr {
	start := p.peek().Span
	fn := ast.Fn{IsAsync: isAsync, IsGenerator: isGenerator}
	p.parseFnRest(&fn)
	return ast.Expr{Span: p.spanFrom(start), Data: &ast.EFunction{Fn: fn}}
}

func (p *Parser) parseClassDecl() ast.Stmt {
	return p.parseClass(false)
}

func (p *Parser) parseClass(nameOptional bool) ast.Stmt {
	start := p.peek().Span
	class := p.parseClassNode(!nameOptional)
	return ast.Stmt{Span: p.spanFrom(start), Data: &ast.SClass{Class: class}}
}

func (p *Parser) parseClassExpr() ast.Expr {
	start := p.peek().Span
	class := p.parseClassNode(false)
	return ast.Expr{Span: p.spanFrom(start), Data: &ast.EClass{Class: class}}
}

func (p *Parser) parseClassNode(nameRequired bool) ast.Class {
	p.expect(token.KwClass, diag.SynUnexpectedToken)
	var class ast.Class
	if p.at(token.Ident) {
		name := makeIdent(p.advance())
		class.Name = &name
	} else if nameRequired {
		p.failHere(diag.SynExpectIdentifier, "expected class name")
	}
	if p.eat(token.KwExtends) {
		class.Extends = p.parseLeftHandSide()
	}
	p.expect(token.LBrace, diag.SynUnexpectedToken)
	for !p.atOr(token.RBrace, token.EOF) {
		if p.eat(token.Semicolon) {
			continue
		}
		class.Members = append(class.Members, p.parseClassMember())
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return class
}

// modifierApplies reports whether a contextual word at the current position
// (static, get, set, async) modifies the following member rather than naming
// it.
func (p *Parser) modifierApplies() bool {
	next := p.peekAt(1)
	switch next.Kind {
	case token.LParen, token.Assign, token.Semicolon, token.RBrace, token.Comma, token.Colon, token.EOF:
		return false
	}
	return true
}

func (p *Parser) parseClassMember() ast.ClassMember {
	start := p.peek().Span
	m := ast.ClassMember{Kind: ast.MemberMethod}
	if p.atWord("static") && p.modifierApplies() {
		p.advance()
		m.Static = true
		if p.at(token.LBrace) {
			p.failHere(diag.SynUnsupported, "static blocks are not supported")
		}
	}
	isAsync, isGenerator := false, false
	switch {
	case (p.atWord("get") || p.atWord("set")) && p.modifierApplies():
		if p.advance().Text == "get" {
			m.Kind = ast.MemberGetter
		} else {
			m.Kind = ast.MemberSetter
		}
	case p.atWord("async") && p.modifierApplies() && !p.peekAt(1).NewlineBefore:
		p.advance()
		isAsync = true
	}
	if p.eat(token.Star) {
		isGenerator = true
	}
	m.Key, m.Computed = p.parsePropertyKey()

	if p.at(token.LParen) {
		m.Value = p.parseMethod(isAsync, isGenerator)
	} else {
		if m.Kind != ast.MemberMethod || isAsync || isGenerator {
			p.failHere(diag.SynUnexpectedToken, "expected \"(\"")
		}
		m.Kind = ast.MemberField
		if p.eat(token.Assign) {
			p.withFunction(false, false, func() { m.Value = p.parseAssign() })
		}
		p.semicolon()
	}
	m.Span = p.spanFrom(start)
	return m
}

// parsePropertyKey reads an object or class member key. Non-computed keys
// are normalized to EString (or ENumber for numeric keys).
func (p *Parser) parsePropertyKey() (ast.Expr, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.LBracket:
		p.advance()
		var key ast.Expr
		p.allowIn(func() { key = p.parseAssign() })
		p.expect(token.RBracket, diag.SynUnclosedBracket)
		return key, true
	case tok.Kind == token.StringLit:
		p.advance()
		return ast.Str(tok.Span, tok.Value), false
	case tok.Kind == token.NumberLit:
		p.advance()
		return ast.Num(tok.Span, p.numberValue(tok)), false
	case tok.IsIdentName():
		p.advance()
		return ast.Str(tok.Span, tok.Text), false
	case tok.Kind == token.Hash:
		p.fail(diag.SynUnsupported, tok.Span, "private class members are not supported")
	}
	p.failHere(diag.SynExpectIdentifier, "expected property name")
	return ast.Expr{}, false
}

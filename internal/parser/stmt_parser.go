package parser

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

// tryDirective recognizes a prologue string statement such as "use strict".
func (p *Parser) tryDirective() (ast.Stmt, bool) {
	tok := p.peek()
	if tok.Kind != token.StringLit {
		return ast.Stmt{}, false
	}
	next := p.peekAt(1)
	if next.Kind != token.Semicolon && next.Kind != token.RBrace && next.Kind != token.EOF && !next.NewlineBefore {
		return ast.Stmt{}, false
	}
	p.advance()
	p.eat(token.Semicolon)
	return ast.Stmt{Span: p.spanFrom(tok.Span), Data: &ast.SDirective{Value: tok.Value}}, true
}

// parseBody parses a function body after its opening brace, including the
// directive prologue, and consumes the closing brace.
func (p *Parser) parseBody() []ast.Stmt {
	var out []ast.Stmt
	for {
		d, ok := p.tryDirective()
		if !ok {
			break
		}
		out = append(out, d)
	}
	out = append(out, p.parseStmtsUntilBrace()...)
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return out
}

func (p *Parser) parseStmtsUntilBrace() []ast.Stmt {
	var out []ast.Stmt
	for !p.atOr(token.RBrace, token.EOF) {
		out = append(out, p.parseStatement())
	}
	return out
}

func (p *Parser) parseBlock() []ast.Stmt {
	p.expect(token.LBrace, diag.SynUnexpectedToken)
	p.depth++
	stmts := p.parseStmtsUntilBrace()
	p.depth--
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return stmts
}

// parseNested parses the body of if/for/while; nested statements are never
// at module top level.
func (p *Parser) parseNested() ast.Stmt {
	p.depth++
	st := p.parseStatement()
	p.depth--
	return st
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.peek()
	start := tok.Span
	mk := func(d ast.S) ast.Stmt { return ast.Stmt{Span: p.spanFrom(start), Data: d} }

	switch tok.Kind {
	case token.LBrace:
		return mk(&ast.SBlock{Stmts: p.parseBlock()})
	case token.Semicolon:
		p.advance()
		return mk(&ast.SEmpty{})
	case token.KwVar, token.KwConst:
		st := p.parseLocal()
		p.semicolon()
		return ast.Stmt{Span: p.spanFrom(start), Data: st.Data}
	case token.KwFunction:
		return p.parseFunctionDecl(false)
	case token.KwClass:
		return p.parseClassDecl()
	case token.KwIf:
		p.advance()
		test := p.parseParenExpr()
		yes := p.parseNested()
		var no ast.Stmt
		if p.eat(token.KwElse) {
			no = p.parseNested()
		}
		return mk(&ast.SIf{Test: test, Yes: yes, No: no})
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		p.advance()
		test := p.parseParenExpr()
		body := p.parseNested()
		return mk(&ast.SWhile{Test: test, Body: body})
	case token.KwDo:
		p.advance()
		body := p.parseNested()
		p.expect(token.KwWhile, diag.SynUnexpectedToken)
		test := p.parseParenExpr()
		p.eat(token.Semicolon)
		return mk(&ast.SDoWhile{Body: body, Test: test})
	case token.KwReturn:
		if !p.fn.inFunction {
			p.fail(diag.SynUnexpectedToken, tok.Span, "return outside of function")
		}
		p.advance()
		var val ast.Expr
		if !p.atOr(token.Semicolon, token.RBrace, token.EOF) && !p.peek().NewlineBefore {
			val = p.parseExpr()
		}
		p.semicolon()
		return mk(&ast.SReturn{Value: val})
	case token.KwThrow:
		p.advance()
		if p.peek().NewlineBefore {
			p.fail(diag.SynExpectExpression, p.peek().Span, "line break after throw")
		}
		val := p.parseExpr()
		p.semicolon()
		return mk(&ast.SThrow{Value: val})
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwBreak, token.KwContinue:
		p.advance()
		if p.at(token.Ident) && !p.peek().NewlineBefore {
			p.fail(diag.SynUnsupported, p.peek().Span, "labels are not supported")
		}
		p.semicolon()
		if tok.Kind == token.KwBreak {
			return mk(&ast.SBreak{})
		}
		return mk(&ast.SContinue{})
	case token.KwImport:
		next := p.peekAt(1).Kind
		if next == token.LParen {
			break
		}
		if next == token.Dot {
			p.fail(diag.SynUnsupported, tok.Span, "import.meta is not supported")
		}
		p.checkTopLevel(tok)
		return p.parseImport()
	case token.KwExport:
		p.checkTopLevel(tok)
		return p.parseExport()
	case token.KwWith, token.KwDebugger:
		p.fail(diag.SynUnsupported, tok.Span, "\""+tok.Text+"\" statements are not supported")
	case token.Ident:
		switch {
		case tok.Text == "let" && p.startsLetDecl():
			st := p.parseLocal()
			p.semicolon()
			return ast.Stmt{Span: p.spanFrom(start), Data: st.Data}
		case tok.Text == "async" && p.peekAt(1).Kind == token.KwFunction && !p.peekAt(1).NewlineBefore:
			return p.parseFunctionDecl(true)
		case p.peekAt(1).Kind == token.Colon:
			p.fail(diag.SynUnsupported, tok.Span, "labels are not supported")
		}
	}

	val := p.parseExpr()
	p.semicolon()
	return mk(&ast.SExpr{Value: val})
}

func (p *Parser) checkTopLevel(tok token.Token) {
	if p.depth > 0 {
		p.fail(diag.SynModuleItemNotTop, tok.Span, "\""+tok.Text+"\" declarations may only appear at the top level of a module")
	}
}

func (p *Parser) startsLetDecl() bool {
	next := p.peekAt(1)
	return next.Kind == token.Ident || next.Kind == token.LBracket || next.Kind == token.LBrace
}

func (p *Parser) parseParenExpr() ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken)
	e := p.parseExpr()
	p.expect(token.RParen, diag.SynUnclosedParen)
	return e
}

// parseLocal parses var/let/const declarators without the trailing semicolon.
func (p *Parser) parseLocal() ast.Stmt {
	tok := p.advance()
	kind := ast.LocalVar
	switch {
	case tok.Kind == token.KwConst:
		kind = ast.LocalConst
	case tok.Is("let"):
		kind = ast.LocalLet
	}
	local := &ast.SLocal{Kind: kind}
	for {
		binding := p.parseBindingTarget()
		var val ast.Expr
		if p.eat(token.Assign) {
			val = p.parseAssign()
		}
		local.Decls = append(local.Decls, ast.Decl{Binding: binding, Value: val})
		if !p.eat(token.Comma) {
			break
		}
	}
	return ast.Stmt{Span: p.spanFrom(tok.Span), Data: local}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span
	isAwait := false
	if p.atWord("await") {
		if !p.fn.isAsync && p.fn.inFunction {
			p.fail(diag.SynForBadHeader, p.peek().Span, "for await outside of async function")
		}
		p.advance()
		isAwait = true
	}
	p.expect(token.LParen, diag.SynForBadHeader)

	var init ast.Stmt
	var target ast.Pat
	p.noIn = true
	switch {
	case p.at(token.Semicolon):
	case p.atOr(token.KwVar, token.KwConst) || (p.atWord("let") && p.startsLetDecl()):
		init = p.parseLocal()
	default:
		e := p.parseExpr()
		if p.at(token.KwIn) || p.atWord("of") {
			target = p.toAssignTarget(e, true)
		} else {
			init = ast.ExprStmt(e)
		}
	}
	p.noIn = false

	if p.at(token.KwIn) || p.atWord("of") {
		isOf := p.advance().Kind != token.KwIn
		if local, ok := init.Data.(*ast.SLocal); ok {
			if len(local.Decls) != 1 || local.Decls[0].Value.Data != nil {
				p.fail(diag.SynForBadHeader, init.Span, "for-in/of declaration must have one binding and no initializer")
			}
		}
		var val ast.Expr
		if isOf {
			val = p.parseAssign()
		} else {
			val = p.parseExpr()
		}
		p.expect(token.RParen, diag.SynUnclosedParen)
		body := p.parseNested()
		if isOf {
			return ast.Stmt{Span: p.spanFrom(start), Data: &ast.SForOf{Init: init, Target: target, Value: val, Body: body, IsAwait: isAwait}}
		}
		return ast.Stmt{Span: p.spanFrom(start), Data: &ast.SForIn{Init: init, Target: target, Value: val, Body: body}}
	}
	if isAwait {
		p.fail(diag.SynForBadHeader, start, "for await requires an of clause")
	}

	p.expect(token.Semicolon, diag.SynForBadHeader)
	var test, update ast.Expr
	if !p.at(token.Semicolon) {
		test = p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynForBadHeader)
	if !p.at(token.RParen) {
		update = p.parseExpr()
	}
	p.expect(token.RParen, diag.SynUnclosedParen)
	body := p.parseNested()
	return ast.Stmt{Span: p.spanFrom(start), Data: &ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *Parser) parseTry() ast.Stmt {
	start := p.advance().Span
	try := &ast.STry{Block: p.parseBlock()}
	if p.at(token.KwCatch) {
		cs := p.advance().Span
		c := &ast.Catch{}
		if p.eat(token.LParen) {
			c.Param = p.parseBindingTarget()
			p.expect(token.RParen, diag.SynUnclosedParen)
		}
		c.Body = p.parseBlock()
		c.Span = p.spanFrom(cs)
		try.Catch = c
	}
	if p.at(token.KwFinally) {
		fs := p.advance().Span
		stmts := p.parseBlock()
		try.Finally = &ast.Finally{Span: p.spanFrom(fs), Stmts: stmts}
	}
	if try.Catch == nil && try.Finally == nil {
		p.failHere(diag.SynUnexpectedToken, "expected \"catch\" or \"finally\"")
	}
	return ast.Stmt{Span: p.spanFrom(start), Data: try}
}

func (p *Parser) parseSwitch() ast.Stmt {
	start := p.advance().Span
	sw := &ast.SSwitch{Test: p.parseParenExpr()}
	p.expect(token.LBrace, diag.SynUnexpectedToken)
	p.depth++
	for !p.atOr(token.RBrace, token.EOF) {
		cs := p.peek().Span
		var c ast.Case
		if p.eat(token.KwDefault) {
			p.expect(token.Colon, diag.SynUnexpectedToken)
		} else {
			p.expect(token.KwCase, diag.SynUnexpectedToken)
			c.Test = p.parseExpr()
			p.expect(token.Colon, diag.SynUnexpectedToken)
		}
		for !p.atOr(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
			c.Body = append(c.Body, p.parseStatement())
		}
		c.Span = p.spanFrom(cs)
		sw.Cases = append(sw.Cases, c)
	}
	p.depth--
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return ast.Stmt{Span: p.spanFrom(start), Data: sw}
}

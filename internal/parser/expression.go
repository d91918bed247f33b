package parser

import (
	"math/big"
	"strconv"
	"strings"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

// parseExpr parses a comma-separated sequence.
func (p *Parser) parseExpr() ast.Expr {
	first := p.parseAssign()
	if !p.at(token.Comma) {
		return first
	}
	exprs := []ast.Expr{first}
	for p.eat(token.Comma) {
		exprs = append(exprs, p.parseAssign())
	}
	return ast.Expr{Span: first.Span.Cover(p.prevSpan()), Data: &ast.ESeq{Exprs: exprs}}
}

// parseAssign parses AssignmentExpression: arrows, yield, conditional and
// assignment.
func (p *Parser) parseAssign() ast.Expr {
	if arrow, ok := p.tryArrow(); ok {
		return arrow
	}
	if p.atWord("yield") && p.fn.isGenerator {
		return p.parseYield()
	}

	left := p.parseConditional()
	op, ok := assignOps[p.peek().Kind]
	if !ok {
		return left
	}
	p.advance()
	target := p.toAssignTarget(left, op == ast.AssignEq)
	value := p.parseAssign()
	return ast.Expr{Span: left.Span.Cover(value.Span), Data: &ast.EAssign{Op: op, Target: target, Value: value}}
}

func (p *Parser) parseYield() ast.Expr {
	start := p.advance().Span
	y := &ast.EYield{}
	if p.eat(token.Star) {
		y.Delegate = true
		y.Value = p.parseAssign()
	} else if !p.peek().NewlineBefore && !p.atOr(token.RParen, token.RBracket, token.RBrace,
		token.Comma, token.Semicolon, token.Colon, token.EOF) {
		y.Value = p.parseAssign()
	}
	return ast.Expr{Span: p.spanFrom(start), Data: y}
}

func (p *Parser) parseConditional() ast.Expr {
	test := p.parseBinary(ast.LNullishCoalescing)
	if !p.eat(token.Question) {
		return test
	}
	var yes ast.Expr
	p.allowIn(func() { yes = p.parseAssign() })
	p.expect(token.Colon, diag.SynUnexpectedToken)
	no := p.parseAssign()
	return ast.Expr{Span: test.Span.Cover(no.Span), Data: &ast.ECond{Test: test, Yes: yes, No: no}}
}

// parseBinary — precedence climbing over binary operators whose level is at
// least minLevel.
func (p *Parser) parseBinary(minLevel ast.L) ast.Expr {
	left := p.parseUnary()
	for {
		tok := p.peek()
		op, ok := binaryOps[tok.Kind]
		if !ok || (tok.Kind == token.KwIn && p.noIn) {
			return left
		}
		level := op.Level()
		if level < minLevel {
			return left
		}
		p.advance()
		next := level + 1
		if op.IsRightAssociative() {
			next = level
		}
		right := p.parseBinary(next)
		left = ast.Expr{Span: left.Span.Cover(right.Span), Data: &ast.EBinary{Op: op, Left: left, Right: right}}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	if op, ok := unaryOps[tok.Kind]; ok {
		p.advance()
		val := p.parseUnary()
		return ast.Expr{Span: tok.Span.Cover(val.Span), Data: &ast.EUnary{Op: op, Value: val}}
	}
	switch {
	case tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus:
		p.advance()
		target := p.parseUnary()
		p.checkSimpleTarget(target)
		return ast.Expr{Span: tok.Span.Cover(target.Span), Data: &ast.EUpdate{Op: updateOp(tok.Kind), Prefix: true, Target: target}}
	case tok.Is("await") && (p.fn.isAsync || !p.fn.inFunction):
		p.advance()
		val := p.parseUnary()
		return ast.Expr{Span: tok.Span.Cover(val.Span), Data: &ast.EAwait{Value: val}}
	}

	e := p.parseLeftHandSide()
	if next := p.peek(); (next.Kind == token.PlusPlus || next.Kind == token.MinusMinus) && !next.NewlineBefore {
		p.advance()
		p.checkSimpleTarget(e)
		return ast.Expr{Span: e.Span.Cover(next.Span), Data: &ast.EUpdate{Op: updateOp(next.Kind), Target: e}}
	}
	return e
}

func updateOp(k token.Kind) ast.UpdateOp {
	if k == token.MinusMinus {
		return ast.UpDec
	}
	return ast.UpInc
}

func (p *Parser) checkSimpleTarget(e ast.Expr) {
	switch e.Data.(type) {
	case *ast.EIdent, *ast.EDot, *ast.EIndex:
		return
	}
	p.fail(diag.SynInvalidTarget, e.Span, "invalid increment/decrement target")
}

// parseLeftHandSide parses member access, calls and new.
func (p *Parser) parseLeftHandSide() ast.Expr {
	var e ast.Expr
	if p.at(token.KwNew) {
		e = p.parseNew()
	} else {
		e = p.parsePrimary()
	}
	return p.parseSuffix(e, true)
}

func (p *Parser) parseNew() ast.Expr {
	start := p.advance().Span
	if p.at(token.Dot) {
		p.fail(diag.SynUnsupported, p.peek().Span, "new.target is not supported")
	}
	var target ast.Expr
	if p.at(token.KwNew) {
		target = p.parseNew()
	} else {
		target = p.parsePrimary()
	}
	target = p.parseSuffix(target, false)
	var args []ast.Expr
	if p.at(token.LParen) {
		args = p.parseArgs()
	}
	return ast.Expr{Span: p.spanFrom(start), Data: &ast.ENew{Target: target, Args: args}}
}

// parseSuffix parses ".name", "[index]" and, when calls is set, "(args)".
func (p *Parser) parseSuffix(e ast.Expr, calls bool) ast.Expr {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Dot:
			p.advance()
			name := p.peek()
			if name.Kind == token.Hash {
				p.fail(diag.SynUnsupported, name.Span, "private class members are not supported")
			}
			if !name.IsIdentName() {
				p.failHere(diag.SynExpectIdentifier, "expected property name")
			}
			p.advance()
			e = ast.Expr{Span: e.Span.Cover(name.Span), Data: &ast.EDot{Target: e, Name: name.Text, NameSpan: name.Span}}
		case token.LBracket:
			p.advance()
			var idx ast.Expr
			p.allowIn(func() { idx = p.parseExpr() })
			end := p.expect(token.RBracket, diag.SynUnclosedBracket)
			e = ast.Expr{Span: e.Span.Cover(end.Span), Data: &ast.EIndex{Target: e, Index: idx}}
		case token.LParen:
			if !calls {
				return e
			}
			args := p.parseArgs()
			e = ast.Expr{Span: e.Span.Cover(p.prevSpan()), Data: &ast.ECall{Target: e, Args: args}}
		case token.QuestionDot:
			p.fail(diag.SynUnsupported, tok.Span, "optional chaining is not supported")
		case token.Backtick:
			p.fail(diag.SynUnsupported, tok.Span, "tagged templates are not supported")
		default:
			if _, isSuper := e.Data.(*ast.ESuper); isSuper {
				p.fail(diag.SynUnexpectedToken, e.Span, "\"super\" must be followed by an argument list or member access")
			}
			return e
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LParen, diag.SynUnexpectedToken)
	var args []ast.Expr
	p.allowIn(func() {
		for !p.at(token.RParen) {
			if p.at(token.DotDotDot) {
				st := p.advance().Span
				v := p.parseAssign()
				args = append(args, ast.Expr{Span: st.Cover(v.Span), Data: &ast.ESpread{Value: v}})
			} else {
				args = append(args, p.parseAssign())
			}
			if !p.eat(token.Comma) {
				break
			}
		}
	})
	p.expect(token.RParen, diag.SynUnclosedParen)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	mk := func(d ast.E) ast.Expr {
		p.advance()
		return ast.Expr{Span: tok.Span, Data: d}
	}
	switch tok.Kind {
	case token.Ident:
		if tok.Text == "async" && p.peekAt(1).Kind == token.KwFunction && !p.peekAt(1).NewlineBefore {
			return p.parseFunctionExpr(true)
		}
		return mk(&ast.EIdent{Ident: makeIdent(tok)})
	case token.KwThis:
		return mk(&ast.EThis{})
	case token.KwSuper:
		return mk(&ast.ESuper{})
	case token.KwNull:
		return mk(&ast.ENull{})
	case token.KwTrue:
		return mk(&ast.EBoolean{Value: true})
	case token.KwFalse:
		return mk(&ast.EBoolean{Value: false})
	case token.NumberLit:
		return mk(&ast.ENumber{Value: p.numberValue(tok)})
	case token.StringLit:
		return mk(&ast.EString{Value: tok.Value})
	case token.LParen:
		p.advance()
		var inner ast.Expr
		p.allowIn(func() { inner = p.parseExpr() })
		p.expect(token.RParen, diag.SynUnclosedParen)
		inner.Span = p.spanFrom(tok.Span)
		return inner
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.KwFunction:
		return p.parseFunctionExpr(false)
	case token.KwClass:
		return p.parseClassExpr()
	case token.KwImport:
		p.advance()
		if p.at(token.Dot) {
			p.fail(diag.SynUnsupported, tok.Span, "import.meta is not supported")
		}
		args := p.parseArgs()
		return ast.Expr{Span: p.spanFrom(tok.Span), Data: &ast.EImportCall{Args: args}}
	case token.Slash, token.SlashAssign:
		p.fail(diag.SynUnsupported, tok.Span, "regular expression literals are not supported")
	case token.Lt:
		p.fail(diag.SynUnsupported, tok.Span, "JSX is not supported")
	}
	p.failHere(diag.SynExpectExpression, "expected expression")
	return ast.Expr{}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.advance().Span
	arr := &ast.EArray{}
	p.allowIn(func() {
		for !p.at(token.RBracket) {
			switch {
			case p.at(token.Comma):
				arr.Items = append(arr.Items, ast.Expr{Span: p.peek().Span, Data: &ast.EMissing{}})
			case p.at(token.DotDotDot):
				st := p.advance().Span
				v := p.parseAssign()
				arr.Items = append(arr.Items, ast.Expr{Span: st.Cover(v.Span), Data: &ast.ESpread{Value: v}})
			default:
				arr.Items = append(arr.Items, p.parseAssign())
			}
			if !p.eat(token.Comma) {
				break
			}
		}
	})
	p.expect(token.RBracket, diag.SynUnclosedBracket)
	return ast.Expr{Span: p.spanFrom(start), Data: arr}
}

func (p *Parser) parseObjectLiteral() ast.Expr {
	start := p.advance().Span
	obj := &ast.EObject{}
	p.allowIn(func() {
		for !p.at(token.RBrace) {
			obj.Props = append(obj.Props, p.parseProperty())
			if !p.eat(token.Comma) {
				break
			}
		}
	})
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return ast.Expr{Span: p.spanFrom(start), Data: obj}
}

func (p *Parser) parseProperty() ast.Property {
	start := p.peek()
	if p.eat(token.DotDotDot) {
		v := p.parseAssign()
		return ast.Property{Span: p.spanFrom(start.Span), Kind: ast.PropSpread, Value: v}
	}

	prop := ast.Property{Kind: ast.PropInit}
	isAsync, isGenerator := false, false
	switch {
	case (p.atWord("get") || p.atWord("set")) && p.modifierApplies():
		if p.advance().Text == "get" {
			prop.Kind = ast.PropGetter
		} else {
			prop.Kind = ast.PropSetter
		}
	case p.atWord("async") && p.modifierApplies() && !p.peekAt(1).NewlineBefore:
		p.advance()
		isAsync = true
		prop.Kind = ast.PropMethod
	}
	if p.eat(token.Star) {
		isGenerator = true
		prop.Kind = ast.PropMethod
	}

	keyTok := p.peek()
	prop.Key, prop.Computed = p.parsePropertyKey()

	switch {
	case p.at(token.LParen):
		if prop.Kind == ast.PropInit {
			prop.Kind = ast.PropMethod
		}
		prop.Value = p.parseMethod(isAsync, isGenerator)
	case prop.Kind != ast.PropInit:
		p.failHere(diag.SynUnexpectedToken, "expected \"(\"")
	case p.eat(token.Colon):
		prop.Value = p.parseAssign()
	case keyTok.Kind == token.Ident && !prop.Computed:
		prop.Shorthand = true
		ref := ast.IdentExpr(makeIdent(keyTok))
		if p.at(token.Assign) {
			// {a = 1} is only valid as a destructuring target; toAssignTarget
			// unwraps it and any other use is reported there.
			p.advance()
			def := p.parseAssign()
			ref = ast.Expr{Span: keyTok.Span.Cover(def.Span), Data: &ast.EAssign{Op: ast.AssignEq, Target: ast.IdentPat(makeIdent(keyTok)), Value: def}}
		}
		prop.Value = ref
	default:
		p.failHere(diag.SynUnexpectedToken, "expected \":\"")
	}
	prop.Span = p.spanFrom(start.Span)
	return prop
}

// numberValue decodes a numeric literal.
func (p *Parser) numberValue(tok token.Token) float64 {
	text := strings.ReplaceAll(tok.Text, "_", "")
	base := 0
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
	}
	if base != 0 {
		if n, err := strconv.ParseUint(text[2:], base, 64); err == nil {
			return float64(n)
		}
		if n, ok := new(big.Int).SetString(text[2:], base); ok {
			f, _ := new(big.Float).SetInt(n).Float64()
			return f
		}
	} else if f, err := strconv.ParseFloat(text, 64); err == nil || isRangeErr(err) {
		return f
	}
	p.fail(diag.LexBadNumber, tok.Span, "invalid number literal")
	return 0
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// skipBalanced returns the index just past the bracket group opening at i.
func (p *Parser) skipBalanced(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				return i + 1
			}
		case token.EOF:
			return i
		}
	}
	return i
}

// tryArrow parses an arrow function if one starts here:
// x => ..., (a, b) => ..., async x => ..., async (a) => ...
func (p *Parser) tryArrow() (ast.Expr, bool) {
	i := p.pos
	isAsync := false
	if p.toks[i].Is("async") && !p.toks[i+1].NewlineBefore &&
		(p.toks[i+1].Kind == token.Ident || p.toks[i+1].Kind == token.LParen) {
		isAsync = true
		i++
	}
	var arrowAt int
	switch p.toks[i].Kind {
	case token.Ident:
		arrowAt = i + 1
	case token.LParen:
		arrowAt = p.skipBalanced(i)
	default:
		return ast.Expr{}, false
	}
	if arrowAt >= len(p.toks) || p.toks[arrowAt].Kind != token.FatArrow || p.toks[arrowAt].NewlineBefore {
		return ast.Expr{}, false
	}

	start := p.peek().Span
	if isAsync {
		p.advance()
	}
	arrow := &ast.EArrow{IsAsync: isAsync}
	p.withFunction(isAsync, false, func() {
		if p.at(token.Ident) {
			arrow.Params = ast.Params(makeIdent(p.advance()))
		} else {
			arrow.Params, arrow.Rest = p.parseParams()
		}
		p.expect(token.FatArrow, diag.SynUnexpectedToken)
		if p.eat(token.LBrace) {
			arrow.Body = p.parseBody()
			if arrow.Body == nil {
				arrow.Body = []ast.Stmt{}
			}
			return
		}
		arrow.ExprBody = p.parseAssign()
	})
	return ast.Expr{Span: p.spanFrom(start), Data: arrow}, true
}

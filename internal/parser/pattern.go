package parser

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/source"
	"lowerjs/internal/token"
)

// parseBindingTarget parses a declaration target: an identifier or an
// array/object binding pattern.
func (p *Parser) parseBindingTarget() ast.Pat {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return ast.IdentPat(makeIdent(tok))
	case token.LBracket:
		return p.parseArrayBinding()
	case token.LBrace:
		return p.parseObjectBinding()
	}
	p.failHere(diag.SynExpectIdentifier, "expected binding name or pattern")
	return ast.Pat{}
}

func (p *Parser) parseBindingDefault() ast.Expr {
	var def ast.Expr
	if p.eat(token.Assign) {
		p.allowIn(func() { def = p.parseAssign() })
	}
	return def
}

func (p *Parser) parseArrayBinding() ast.Pat {
	start := p.advance().Span
	arr := &ast.PArray{}
	for !p.at(token.RBracket) {
		if p.at(token.Comma) {
			arr.Items = append(arr.Items, ast.PatItem{Value: ast.Pat{Span: p.peek().Span, Data: &ast.PMissing{}}})
			p.advance()
			continue
		}
		if p.eat(token.DotDotDot) {
			arr.Rest = p.parseBindingTarget()
			break
		}
		item := ast.PatItem{Value: p.parseBindingTarget()}
		item.Default = p.parseBindingDefault()
		arr.Items = append(arr.Items, item)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, diag.SynUnclosedBracket)
	return ast.Pat{Span: p.spanFrom(start), Data: arr}
}

func (p *Parser) parseObjectBinding() ast.Pat {
	start := p.advance().Span
	obj := &ast.PObject{}
	for !p.at(token.RBrace) {
		if p.eat(token.DotDotDot) {
			obj.Rest = ast.IdentPat(makeIdent(p.bindingIdent()))
			break
		}
		keyTok := p.peek()
		prop := ast.PatProp{}
		prop.Key, prop.Computed = p.parsePropertyKey()
		if p.eat(token.Colon) {
			prop.Value = p.parseBindingTarget()
		} else {
			if keyTok.Kind != token.Ident || prop.Computed {
				p.failHere(diag.SynUnexpectedToken, "expected \":\"")
			}
			prop.Shorthand = true
			prop.Value = ast.IdentPat(makeIdent(keyTok))
		}
		prop.Default = p.parseBindingDefault()
		prop.Span = p.spanFrom(keyTok.Span)
		obj.Props = append(obj.Props, prop)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace)
	return ast.Pat{Span: p.spanFrom(start), Data: obj}
}

// toAssignTarget reinterprets an already parsed expression as an assignment
// target. Destructuring is allowed only for plain "=" and loop heads.
func (p *Parser) toAssignTarget(e ast.Expr, allowDestructure bool) ast.Pat {
	switch d := e.Data.(type) {
	case *ast.EIdent:
		return ast.IdentPat(d.Ident)
	case *ast.EDot, *ast.EIndex:
		return ast.Pat{Span: e.Span, Data: &ast.PExpr{Value: e}}
	case *ast.EArray:
		if allowDestructure {
			return p.arrayToPat(e.Span, d)
		}
	case *ast.EObject:
		if allowDestructure {
			return p.objectToPat(e.Span, d)
		}
	}
	p.fail(diag.SynInvalidTarget, e.Span, "invalid assignment target")
	return ast.Pat{}
}

// withDefault splits "target = default" inside a destructuring pattern.
func (p *Parser) withDefault(e ast.Expr) (ast.Pat, ast.Expr) {
	if a, ok := e.Data.(*ast.EAssign); ok && a.Op == ast.AssignEq {
		return a.Target, a.Value
	}
	return p.toAssignTarget(e, true), ast.Expr{}
}

func (p *Parser) arrayToPat(span source.Span, arr *ast.EArray) ast.Pat {
	out := &ast.PArray{}
	for i, item := range arr.Items {
		switch d := item.Data.(type) {
		case *ast.EMissing:
			out.Items = append(out.Items, ast.PatItem{Value: ast.Pat{Span: item.Span, Data: &ast.PMissing{}}})
		case *ast.ESpread:
			if i != len(arr.Items)-1 {
				p.fail(diag.SynInvalidTarget, item.Span, "rest element must be last")
			}
			out.Rest = p.toAssignTarget(d.Value, true)
		default:
			target, def := p.withDefault(item)
			out.Items = append(out.Items, ast.PatItem{Value: target, Default: def})
		}
	}
	return ast.Pat{Span: span, Data: out}
}

func (p *Parser) objectToPat(span source.Span, obj *ast.EObject) ast.Pat {
	out := &ast.PObject{}
	for i, prop := range obj.Props {
		switch prop.Kind {
		case ast.PropSpread:
			if i != len(obj.Props)-1 {
				p.fail(diag.SynInvalidTarget, prop.Span, "rest element must be last")
			}
			out.Rest = p.toAssignTarget(prop.Value, false)
		case ast.PropInit:
			target, def := p.withDefault(prop.Value)
			out.Props = append(out.Props, ast.PatProp{
				Span:      prop.Span,
				Key:       prop.Key,
				Computed:  prop.Computed,
				Shorthand: prop.Shorthand,
				Value:     target,
				Default:   def,
			})
		default:
			p.fail(diag.SynInvalidTarget, prop.Span, "methods are not valid in a destructuring target")
		}
	}
	return ast.Pat{Span: span, Data: out}
}

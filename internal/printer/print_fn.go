package printer

import (
	"fmt"

	"lowerjs/internal/ast"
)

// printFn prints a function declaration or expression without a trailing
// newline.
func (p *printer) printFn(fn *ast.Fn, keyword string) {
	if fn.IsAsync {
		p.print("async ")
	}
	p.print(keyword)
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		p.print(" ")
		p.printIdent(*fn.Name)
	}
	p.printParams(fn.Params, fn.Rest)
	p.print(" ")
	p.printBlock(fn.Body)
}

func (p *printer) printParams(params []ast.Param, rest ast.Pat) {
	p.print("(")
	for i, param := range params {
		if i > 0 {
			p.print(", ")
		}
		p.printPat(param.Binding)
		if param.Default.Data != nil {
			p.print(" = ")
			p.printExpr(param.Default, ast.LComma, 0)
		}
	}
	if rest.Data != nil {
		if len(params) > 0 {
			p.print(", ")
		}
		p.print("...")
		p.printPat(rest)
	}
	p.print(")")
}

func (p *printer) printMethod(kind ast.PropertyKind, key ast.Expr, computed bool, fn *ast.Fn) {
	switch kind {
	case ast.PropGetter:
		p.print("get ")
	case ast.PropSetter:
		p.print("set ")
	default:
		if fn.IsAsync {
			p.print("async ")
		}
		if fn.IsGenerator {
			p.print("*")
		}
	}
	p.printKey(key, computed)
	p.printParams(fn.Params, fn.Rest)
	p.print(" ")
	p.printBlock(fn.Body)
}

func (p *printer) printClass(c *ast.Class) {
	p.print("class")
	if c.Name != nil {
		p.print(" ")
		p.printIdent(*c.Name)
	}
	if c.Extends.Data != nil {
		p.print(" extends ")
		p.printExpr(c.Extends, ast.LNew-1, 0)
	}
	p.print(" {")
	if len(c.Members) == 0 {
		p.print("}")
		return
	}
	p.w.Newline()
	p.w.IndentPush()
	for _, m := range c.Members {
		if m.Static {
			p.print("static ")
		}
		switch m.Kind {
		case ast.MemberField:
			p.printKey(m.Key, m.Computed)
			if m.Value.Data != nil {
				p.print(" = ")
				p.printExpr(m.Value, ast.LComma, 0)
			}
			p.semicolonLine()
			continue
		case ast.MemberGetter, ast.MemberSetter, ast.MemberMethod:
			fn, ok := m.Value.Data.(*ast.EFunction)
			if !ok {
				panic(fmt.Sprintf("printer: class method value is %T", m.Value.Data))
			}
			kind := ast.PropMethod
			switch m.Kind {
			case ast.MemberGetter:
				kind = ast.PropGetter
			case ast.MemberSetter:
				kind = ast.PropSetter
			}
			p.printMethod(kind, m.Key, m.Computed, &fn.Fn)
			p.w.Newline()
		}
	}
	p.w.IndentPop()
	p.print("}")
}

func (p *printer) printPat(pat ast.Pat) {
	switch d := pat.Data.(type) {
	case nil, *ast.PMissing:
	case *ast.PIdent:
		p.printIdent(d.Ident)
	case *ast.PExpr:
		p.printExpr(d.Value, ast.LPostfix, 0)
	case *ast.PArray:
		p.print("[")
		for i, item := range d.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printPat(item.Value)
			p.printDefault(item.Default)
		}
		if d.Rest.Data != nil {
			if len(d.Items) > 0 {
				p.print(", ")
			}
			p.print("...")
			p.printPat(d.Rest)
		} else if n := len(d.Items); n > 0 {
			if _, hole := d.Items[n-1].Value.Data.(*ast.PMissing); hole {
				p.print(",")
			}
		}
		p.print("]")
	case *ast.PObject:
		if len(d.Props) == 0 && d.Rest.Data == nil {
			p.print("{}")
			return
		}
		p.print("{ ")
		for i, prop := range d.Props {
			if i > 0 {
				p.print(", ")
			}
			if id, ok := prop.Value.Data.(*ast.PIdent); ok && !prop.Computed && keyName(prop.Key) == id.Ident.Name {
				p.printIdent(id.Ident)
			} else {
				p.printKey(prop.Key, prop.Computed)
				p.print(": ")
				p.printPat(prop.Value)
			}
			p.printDefault(prop.Default)
		}
		if d.Rest.Data != nil {
			if len(d.Props) > 0 {
				p.print(", ")
			}
			p.print("...")
			p.printPat(d.Rest)
		}
		p.print(" }")
	default:
		panic(fmt.Sprintf("printer: unexpected pattern %T", d))
	}
}

func (p *printer) printDefault(def ast.Expr) {
	if def.Data == nil {
		return
	}
	p.print(" = ")
	p.printExpr(def, ast.LComma, 0)
}

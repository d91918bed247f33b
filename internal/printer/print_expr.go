package printer

import (
	"fmt"
	"math"
	"strings"

	"lowerjs/internal/ast"
)

// printSign writes a "+" or "-" style operator, separating it from a
// preceding sign of the same kind so "- -x" does not become "--x".
func (p *printer) printSign(op string) {
	if last := p.w.lastByte(); last != 0 && last == op[0] {
		p.print(" ")
	}
	p.print(op)
}

func (p *printer) open(wrap bool) {
	if wrap {
		p.print("(")
	}
}

func (p *printer) close(wrap bool) {
	if wrap {
		p.print(")")
	}
}

func (p *printer) printExpr(e ast.Expr, level ast.L, flags exprFlags) {
	switch d := e.Data.(type) {
	case nil, *ast.EMissing:
	case *ast.EUndefined:
		wrap := level >= ast.LPrefix
		p.open(wrap)
		p.print("void 0")
		p.close(wrap)
	case *ast.ENull:
		p.print("null")
	case *ast.EThis:
		p.print("this")
	case *ast.ESuper:
		p.print("super")
	case *ast.EBoolean:
		if d.Value {
			p.print("true")
		} else {
			p.print("false")
		}
	case *ast.ENumber:
		p.printNumber(d.Value, level)
	case *ast.EString:
		p.print(quoteString(d.Value))
	case *ast.EIdent:
		p.printIdent(d.Ident)
	case *ast.EArray:
		p.print("[")
		for i, item := range d.Items {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(item, ast.LComma, 0)
		}
		if n := len(d.Items); n > 0 {
			if _, hole := d.Items[n-1].Data.(*ast.EMissing); hole {
				p.print(",")
			}
		}
		p.print("]")
	case *ast.EObject:
		wrap := p.w.Len() == p.stmtStart || p.w.Len() == p.arrowBodyStart
		p.open(wrap)
		p.printObject(d)
		p.close(wrap)
	case *ast.EFunction:
		wrap := p.w.Len() == p.stmtStart || p.w.Len() == p.exportDefaultStart
		p.open(wrap)
		p.printFn(&d.Fn, "function")
		p.close(wrap)
	case *ast.EClass:
		wrap := p.w.Len() == p.stmtStart || p.w.Len() == p.exportDefaultStart
		p.open(wrap)
		p.printClass(&d.Class)
		p.close(wrap)
	case *ast.EArrow:
		wrap := level >= ast.LAssign
		p.open(wrap)
		if d.IsAsync {
			p.print("async ")
		}
		p.printParams(d.Params, d.Rest)
		p.print(" => ")
		if d.ExprBody.Data != nil {
			p.arrowBodyStart = p.w.Len()
			p.printExpr(d.ExprBody, ast.LComma, flags&forbidIn)
		} else {
			p.printBlock(d.Body)
		}
		p.close(wrap)
	case *ast.ECall:
		wrap := level >= ast.LNew || flags&forbidCall != 0
		p.open(wrap)
		p.printExpr(d.Target, ast.LPostfix, 0)
		p.printArgs(d.Args)
		p.close(wrap)
	case *ast.EImportCall:
		wrap := level >= ast.LNew || flags&forbidCall != 0
		p.open(wrap)
		p.print("import")
		p.printArgs(d.Args)
		p.close(wrap)
	case *ast.ENew:
		wrap := level >= ast.LCall
		p.open(wrap)
		p.print("new ")
		p.printExpr(d.Target, ast.LNew, forbidCall)
		p.printArgs(d.Args)
		p.close(wrap)
	case *ast.EDot:
		if n, ok := d.Target.Data.(*ast.ENumber); ok && isBareInteger(n.Value) {
			p.print("(")
			p.printExpr(d.Target, ast.LLowest, 0)
			p.print(")")
		} else {
			p.printExpr(d.Target, ast.LPostfix, flags&forbidCall)
		}
		if ast.IsIdentifierName(d.Name) {
			p.print(".")
			p.print(d.Name)
		} else {
			p.print("[")
			p.print(quoteString(d.Name))
			p.print("]")
		}
	case *ast.EIndex:
		p.printExpr(d.Target, ast.LPostfix, flags&forbidCall)
		p.print("[")
		p.printExpr(d.Index, ast.LLowest, 0)
		p.print("]")
	case *ast.EUnary:
		wrap := level >= ast.LPrefix
		p.open(wrap)
		if d.Op.IsKeyword() {
			p.print(d.Op.String())
			p.print(" ")
		} else {
			p.printSign(d.Op.String())
		}
		p.printExpr(d.Value, ast.LPrefix-1, 0)
		p.close(wrap)
	case *ast.EUpdate:
		if d.Prefix {
			wrap := level >= ast.LPrefix
			p.open(wrap)
			p.printSign(d.Op.String())
			p.printExpr(d.Target, ast.LPrefix-1, 0)
			p.close(wrap)
			return
		}
		wrap := level >= ast.LPostfix
		p.open(wrap)
		p.printExpr(d.Target, ast.LPostfix-1, 0)
		p.print(d.Op.String())
		p.close(wrap)
	case *ast.EAwait:
		wrap := level >= ast.LPrefix
		p.open(wrap)
		p.print("await ")
		p.printExpr(d.Value, ast.LPrefix-1, 0)
		p.close(wrap)
	case *ast.EYield:
		wrap := level >= ast.LAssign
		p.open(wrap)
		p.print("yield")
		if d.Delegate {
			p.print("*")
		}
		if d.Value.Data != nil {
			p.print(" ")
			p.printExpr(d.Value, ast.LYield, 0)
		}
		p.close(wrap)
	case *ast.ESpread:
		p.print("...")
		p.printExpr(d.Value, ast.LComma, 0)
	case *ast.ESeq:
		wrap := level >= ast.LComma
		if wrap {
			flags &^= forbidIn
		}
		p.open(wrap)
		for i, item := range d.Exprs {
			if i > 0 {
				p.print(", ")
			}
			p.printExpr(item, ast.LComma, flags&forbidIn)
		}
		p.close(wrap)
	case *ast.ECond:
		wrap := level >= ast.LConditional
		if wrap {
			flags &^= forbidIn
		}
		p.open(wrap)
		p.printExpr(d.Test, ast.LConditional, flags&forbidIn)
		p.print(" ? ")
		p.printExpr(d.Yes, ast.LYield, 0)
		p.print(" : ")
		p.printExpr(d.No, ast.LYield, flags&forbidIn)
		p.close(wrap)
	case *ast.EAssign:
		wrap := level >= ast.LAssign
		if _, ok := d.Target.Data.(*ast.PObject); ok {
			wrap = wrap || p.w.Len() == p.stmtStart || p.w.Len() == p.arrowBodyStart
		}
		if wrap {
			flags &^= forbidIn
		}
		p.open(wrap)
		p.printPat(d.Target)
		p.print(" ")
		p.print(d.Op.String())
		p.print(" ")
		p.printExpr(d.Value, ast.LAssign-1, flags&forbidIn)
		p.close(wrap)
	case *ast.EBinary:
		p.printBinary(d, level, flags)
	default:
		panic(fmt.Sprintf("printer: unexpected expression %T", d))
	}
}

func (p *printer) printBinary(d *ast.EBinary, level ast.L, flags exprFlags) {
	opLevel := d.Op.Level()
	wrap := level >= opLevel || (d.Op == ast.BinIn && flags&forbidIn != 0)
	if wrap {
		flags &^= forbidIn
	}
	leftLevel, rightLevel := opLevel-1, opLevel
	if d.Op.IsRightAssociative() {
		leftLevel, rightLevel = opLevel, opLevel-1
		// "-x ** y" is a syntax error.
		switch l := d.Left.Data.(type) {
		case *ast.EUnary, *ast.EAwait:
			leftLevel = ast.LPrefix
		case *ast.ENumber:
			if l.Value < 0 || math.Signbit(l.Value) {
				leftLevel = ast.LPrefix
			}
		}
	}
	// "??" cannot be mixed with "||" or "&&" without parentheses.
	if d.Op == ast.BinNullishCoalescing {
		if isLogical(d.Left) {
			leftLevel = ast.LPrefix
		}
		if isLogical(d.Right) {
			rightLevel = ast.LPrefix
		}
	} else if d.Op == ast.BinLogicalOr || d.Op == ast.BinLogicalAnd {
		if isNullish(d.Left) {
			leftLevel = ast.LPrefix
		}
		if isNullish(d.Right) {
			rightLevel = ast.LPrefix
		}
	}
	p.open(wrap)
	p.printExpr(d.Left, leftLevel, flags&forbidIn)
	p.print(" ")
	p.print(d.Op.String())
	p.print(" ")
	p.printExpr(d.Right, rightLevel, flags&forbidIn)
	p.close(wrap)
}

func isLogical(e ast.Expr) bool {
	b, ok := e.Data.(*ast.EBinary)
	return ok && (b.Op == ast.BinLogicalOr || b.Op == ast.BinLogicalAnd)
}

func isNullish(e ast.Expr) bool {
	b, ok := e.Data.(*ast.EBinary)
	return ok && b.Op == ast.BinNullishCoalescing
}

func isBareInteger(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return false
	}
	return !strings.ContainsAny(formatNumber(v), ".e")
}

func (p *printer) printNumber(v float64, level ast.L) {
	if math.IsNaN(v) {
		p.print("NaN")
		return
	}
	negative := v < 0 || (v == 0 && math.Signbit(v))
	abs := math.Abs(v)
	if math.IsInf(v, 0) {
		// Infinity may be shadowed; 1 / 0 may not.
		wrap := level >= ast.LMultiply
		if negative {
			wrap = level >= ast.LPrefix
		}
		p.open(wrap)
		if negative {
			p.printSign("-")
			p.print("(1 / 0)")
		} else {
			p.print("1 / 0")
		}
		p.close(wrap)
		return
	}
	if !negative {
		p.print(formatNumber(abs))
		return
	}
	wrap := level >= ast.LPrefix
	p.open(wrap)
	p.printSign("-")
	p.print(formatNumber(abs))
	p.close(wrap)
}

func (p *printer) printArgs(args []ast.Expr) {
	p.print("(")
	for i, a := range args {
		if i > 0 {
			p.print(", ")
		}
		p.printExpr(a, ast.LComma, 0)
	}
	p.print(")")
}

func (p *printer) printObject(d *ast.EObject) {
	if len(d.Props) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.w.Newline()
	p.w.IndentPush()
	for i, prop := range d.Props {
		p.printProperty(prop)
		if i < len(d.Props)-1 {
			p.print(",")
		}
		p.w.Newline()
	}
	p.w.IndentPop()
	p.print("}")
}

func (p *printer) printProperty(prop ast.Property) {
	switch prop.Kind {
	case ast.PropSpread:
		p.print("...")
		p.printExpr(prop.Value, ast.LComma, 0)
		return
	case ast.PropMethod, ast.PropGetter, ast.PropSetter:
		fn, ok := prop.Value.Data.(*ast.EFunction)
		if !ok {
			panic(fmt.Sprintf("printer: object method value is %T", prop.Value.Data))
		}
		p.printMethod(prop.Kind, prop.Key, prop.Computed, &fn.Fn)
		return
	}
	if !prop.Computed {
		if id, ok := prop.Value.Data.(*ast.EIdent); ok && keyName(prop.Key) == id.Ident.Name {
			p.printIdent(id.Ident)
			return
		}
	}
	p.printKey(prop.Key, prop.Computed)
	p.print(": ")
	p.printExpr(prop.Value, ast.LComma, 0)
}

// keyName returns the spelling of a non-computed string key, or "".
func keyName(key ast.Expr) string {
	if s, ok := key.Data.(*ast.EString); ok && ast.IsIdentifierName(s.Value) {
		return s.Value
	}
	return ""
}

func (p *printer) printKey(key ast.Expr, computed bool) {
	if computed {
		p.print("[")
		p.printExpr(key, ast.LComma, 0)
		p.print("]")
		return
	}
	switch k := key.Data.(type) {
	case *ast.EString:
		if ast.IsIdentifierName(k.Value) {
			p.print(k.Value)
			return
		}
		p.print(quoteString(k.Value))
	case *ast.ENumber:
		p.printNumber(k.Value, ast.LLowest)
	default:
		p.print("[")
		p.printExpr(key, ast.LComma, 0)
		p.print("]")
	}
}

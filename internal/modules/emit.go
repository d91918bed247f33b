package modules

import (
	"slices"

	"lowerjs/internal/ast"
	"lowerjs/internal/source"
)

var nospan = source.NoSpan

// DefineProperty builds Object.defineProperty(target, key, descriptor).
func DefineProperty(target, key, descriptor ast.Expr) ast.Expr {
	return ast.Call(nospan, ast.MemberChain(nospan, "Object", "defineProperty"), target, key, descriptor)
}

// DefineESModule builds
//
//	Object.defineProperty(exports, "__esModule", { value: true });
func DefineESModule(exports ast.Ident) ast.Stmt {
	desc := ast.Object(nospan, ast.Prop(nospan, "value", ast.Bool(nospan, true)))
	return ast.ExprStmt(DefineProperty(ast.IdentExpr(exports), ast.Str(nospan, "__esModule"), desc))
}

// InitializeToUndefined builds exports.a = exports.b = void 0 for names in
// order.
func InitializeToUndefined(exports ast.Ident, names []string) ast.Expr {
	rhs := ast.Undefined(nospan)
	for _, name := range slices.Backward(names) {
		rhs = ast.AssignTo(nospan, ast.Member(nospan, ast.IdentExpr(exports), name), rhs)
	}
	return rhs
}

func UseStrict() ast.Stmt {
	return ast.Stmt{Data: &ast.SDirective{Value: "use strict"}}
}

// HasUseStrict reports whether the prologue starts with "use strict".
func HasUseStrict(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	d, ok := stmts[0].Data.(*ast.SDirective)
	return ok && d.Value == "use strict"
}

// MakeDescriptor builds { enumerable: true, get: function () { return get; } }.
func MakeDescriptor(get ast.Expr) ast.Expr {
	getter := ast.FuncExpr(nospan, nil, []ast.Stmt{ast.Return(nospan, get)})
	return ast.Object(nospan,
		ast.Prop(nospan, "enumerable", ast.Bool(nospan, true)),
		ast.Prop(nospan, "get", getter),
	)
}

// ExportGetter builds Object.defineProperty(exports, name, descriptor) for
// a live re-export.
func ExportGetter(exports ast.Ident, name string, get ast.Expr) ast.Stmt {
	return ast.ExprStmt(DefineProperty(ast.IdentExpr(exports), ast.Str(nospan, name), MakeDescriptor(get)))
}

// ExportAssign chains exports.name = ... for every name onto value. The
// first name ends up innermost, so it is assigned first.
func ExportAssign(exports ast.Ident, names []string, value ast.Expr) ast.Expr {
	for _, name := range names {
		value = ast.AssignTo(value.Span, ast.Member(value.Span, ast.IdentExpr(exports), name), value)
	}
	return value
}

// ExportNamesObject builds { a: true, b: true } listing explicit exports.
func ExportNamesObject(names []string) ast.Expr {
	props := make([]ast.Property, 0, len(names))
	for _, name := range names {
		props = append(props, ast.Prop(nospan, name, ast.Bool(nospan, true)))
	}
	return ast.Object(nospan, props...)
}

// ReadOnlyError builds the expression-position throw of an assignment to an
// imported binding:
//
//	function () { throw new Error("\"name\" is read-only."); }()
func ReadOnlyError(span source.Span, name string) ast.Expr {
	msg := ast.Str(span, `"`+name+`" is read-only.`)
	throw := ast.Stmt{Span: span, Data: &ast.SThrow{Value: ast.New(span, ast.IdentExpr(ast.QuoteIdent(span, "Error")), msg)}}
	return ast.Call(span, ast.FuncExpr(span, nil, []ast.Stmt{throw}))
}

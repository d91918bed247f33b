package modules

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// DynamicImporter replaces a one-argument import() call. Each output format
// brings its own.
type DynamicImporter interface {
	DynamicImport(span source.Span, args []ast.Expr) ast.Expr
}

// DynamicImportFunc adapts a function to DynamicImporter.
type DynamicImportFunc func(span source.Span, args []ast.Expr) ast.Expr

func (f DynamicImportFunc) DynamicImport(span source.Span, args []ast.Expr) ast.Expr {
	return f(span, args)
}

// CommonJSImport lowers import(x) to
//
//	Promise.resolve().then(function () {
//	  return _interopRequireWildcard(require(x));
//	})
//
// Wildcard is nil under no_interop. Used records whether a call was lowered,
// so the caller knows to emit the helper.
type CommonJSImport struct {
	Require  ast.Ident
	Wildcard *ast.Ident
	Used     bool
}

func (c *CommonJSImport) DynamicImport(span source.Span, args []ast.Expr) ast.Expr {
	c.Used = true
	module := ast.Call(span, ast.IdentExpr(c.Require), args...)
	if c.Wildcard != nil {
		module = ast.Call(span, ast.IdentExpr(*c.Wildcard), module)
	}
	resolved := ast.Call(span, ast.MemberChain(span, "Promise", "resolve"))
	then := ast.Member(span, resolved, "then")
	return ast.Call(span, then, ast.FuncExpr(span, nil, []ast.Stmt{ast.Return(span, module)}))
}

// AMDImport lowers import(x) to
//
//	new Promise(function (resolve, reject) {
//	  require([x], function (m) {
//	    resolve(_interopRequireWildcard(m));
//	  }, reject);
//	})
//
// where require is the loader's local require passed to the factory.
type AMDImport struct {
	Alloc    *hygiene.Allocator
	Require  ast.Ident
	Wildcard *ast.Ident
	Used     bool
}

func (a *AMDImport) DynamicImport(span source.Span, args []ast.Expr) ast.Expr {
	a.Used = true
	resolve := ast.NewPrivateIdent(a.Alloc, span, "resolve")
	reject := ast.NewPrivateIdent(a.Alloc, span, "reject")
	m := ast.NewPrivateIdent(a.Alloc, span, "m")

	value := ast.IdentExpr(m)
	if a.Wildcard != nil {
		value = ast.Call(span, ast.IdentExpr(*a.Wildcard), value)
	}
	onLoad := ast.FuncExpr(span, ast.Params(m), []ast.Stmt{
		ast.ExprStmt(ast.Call(span, ast.IdentExpr(resolve), value)),
	})
	deps := ast.Expr{Span: span, Data: &ast.EArray{Items: args}}
	load := ast.Call(span, ast.IdentExpr(a.Require), deps, onLoad, ast.IdentExpr(reject))
	executor := ast.FuncExpr(span, ast.Params(resolve, reject), []ast.Stmt{ast.ExprStmt(load)})
	return ast.New(span, ast.IdentExpr(ast.QuoteIdent(span, "Promise")), executor)
}

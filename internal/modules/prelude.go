package modules

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
)

// SplitPrologue separates the leading directives of a body from the rest.
func SplitPrologue(stmts []ast.Stmt) (prologue, rest []ast.Stmt) {
	i := 0
	for i < len(stmts) {
		if _, ok := stmts[i].Data.(*ast.SDirective); !ok {
			break
		}
		i++
	}
	return stmts[:i], stmts[i:]
}

// StrictPrologue returns prologue with "use strict" in front when the
// configuration asks for it and it is missing.
func StrictPrologue(cfg Config, prologue []ast.Stmt) []ast.Stmt {
	if !cfg.StrictMode || HasUseStrict(prologue) {
		return prologue
	}
	return append([]ast.Stmt{UseStrict()}, prologue...)
}

// HasExports reports whether the module exports anything.
func (c *Collection) HasExports() bool {
	return len(c.Exports) > 0 || len(c.ExportAll) > 0
}

// NeedsExportNames reports whether wildcard re-exports have to skip
// explicitly exported names.
func (c *Collection) NeedsExportNames() bool {
	return len(c.ExportAll) > 0 && len(c.Exports) > 0
}

// Prelude builds the statements that set up the exports object before any
// dependency runs:
//
//	Object.defineProperty(exports, "__esModule", { value: true });
//	var _exportNames = { a: true, f: true };
//	exports.a = void 0;
//	exports.f = f;
//	Object.defineProperty(exports, "b", { enumerable: true, get: ... });
//
// The marker is left out under strict. exportNames must be non-nil exactly
// when NeedsExportNames holds.
func (c *Collection) Prelude(exports ast.Ident, exportNames *ast.Ident, strict bool) []ast.Stmt {
	if !c.HasExports() {
		return nil
	}
	var out []ast.Stmt
	if !strict {
		out = append(out, DefineESModule(exports))
	}
	if exportNames != nil {
		out = append(out, ast.Var(nospan, *exportNames, ExportNamesObject(c.ExportNames())))
	}

	var pending []string
	for _, e := range c.Exports {
		if e.Kind == ExportLocal || e.Kind == ExportValue {
			pending = append(pending, e.Name)
		}
	}
	if len(pending) > 0 {
		out = append(out, ast.ExprStmt(InitializeToUndefined(exports, pending)))
	}
	for _, e := range c.Exports {
		if e.Kind == ExportFunction {
			local := e.Local
			local.Span = nospan
			out = append(out, ast.ExprStmt(ExportAssign(exports, []string{e.Name}, ast.IdentExpr(local))))
		}
	}
	for _, e := range c.Exports {
		if e.Kind == ExportImport {
			out = append(out, ExportGetter(exports, e.Name, c.Scope.AccessSource(e.Source, e.Prop, nospan)))
		}
	}
	return out
}

// InteropCall wraps value in the interop helper src asks for. It returns
// value unchanged when no interop applies; helper reports which helper was
// used.
func (s *Scope) InteropCall(src string, value ast.Expr, def, wildcard ast.Ident) (out ast.Expr, helper *ast.Ident) {
	if s.cfg.NoInterop {
		return value, nil
	}
	w, ok := s.ImportKind(src)
	if !ok {
		return value, nil
	}
	fn := def
	if w {
		fn = wildcard
	}
	return ast.Call(value.Span, ast.IdentExpr(fn), value), &fn
}

// LazyAccessor builds the memoizing accessor of a lazily required module:
//
//	function _foo() {
//	  const data = value;
//	  _foo = function () { return data; };
//	  return data;
//	}
func LazyAccessor(alloc *hygiene.Allocator, acc ast.Ident, value ast.Expr) ast.Stmt {
	data := ast.NewPrivateIdent(alloc, nospan, "data")
	memo := ast.FuncExpr(nospan, nil, []ast.Stmt{ast.Return(nospan, ast.IdentExpr(data))})
	body := []ast.Stmt{
		ast.Local(nospan, ast.LocalConst, data, value),
		ast.ExprStmt(ast.Assign(nospan, ast.IdentPat(acc), memo)),
		ast.Return(nospan, ast.IdentExpr(data)),
	}
	name := acc
	return ast.Stmt{Data: &ast.SFunction{Fn: ast.Fn{Name: &name, Body: body}}}
}

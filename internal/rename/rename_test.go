package rename_test

import (
	"testing"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/printer"
	"lowerjs/internal/rename"
	"lowerjs/internal/resolver"
	"lowerjs/internal/source"
	"lowerjs/internal/testkit"
)

type fixture struct {
	prog  *ast.Program
	alloc *hygiene.Allocator
	res   resolver.Result
}

func setup(t *testing.T, src string) *fixture {
	t.Helper()
	prog, _ := testkit.Parse(t, "test.js", src)
	alloc := hygiene.NewAllocator()
	return &fixture{prog: prog, alloc: alloc, res: resolver.Resolve(prog, alloc)}
}

func (f *fixture) private(name string) ast.Ident {
	return ast.NewPrivateIdent(f.alloc, source.NoSpan, name)
}

func (f *fixture) appendExpr(e ast.Expr) {
	f.prog.Stmts = append(f.prog.Stmts, ast.ExprStmt(e))
}

func (f *fixture) rename(reserved ...string) (string, rename.Result) {
	res := rename.Rename(f.prog, rename.Options{Alloc: f.alloc, Module: f.res.Module, Reserved: reserved})
	return printer.Print(f.prog, printer.Options{}), res
}

func TestRenamePrivateAvoidsUserNames(t *testing.T) {
	f := setup(t, `var _m = 1;`)
	m := f.private("_m")
	f.appendExpr(ast.IdentExpr(m))
	out, res := f.rename()
	want := "var _m = 1;\n_m1;\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if res.Renamed[m.ID()] != "_m1" {
		t.Errorf("renamed = %v", res.Renamed)
	}
}

func TestRenameUserBindingShadowingGlobal(t *testing.T) {
	f := setup(t, `function f(exports) { return exports; }`)
	fn := f.prog.Stmts[0].Data.(*ast.SFunction)
	// a rewrite pass referencing the global from inside the function
	fn.Fn.Body = append(fn.Fn.Body, ast.ExprStmt(ast.MemberChain(source.NoSpan, "exports", "a")))
	out, _ := f.rename()
	want := "function f(exports1) {\n  return exports1;\n  exports.a;\n}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenamePrivatesAreDistinct(t *testing.T) {
	f := setup(t, `x;`)
	a, b := f.private("_tmp"), f.private("_tmp")
	f.appendExpr(ast.IdentExpr(a))
	f.appendExpr(ast.IdentExpr(b))
	f.appendExpr(ast.IdentExpr(a))
	out, _ := f.rename()
	want := "x;\n_tmp;\n_tmp1;\n_tmp;\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRenameKeepsShadowedUserNames(t *testing.T) {
	src := "let a = 1;\nfunction f(a) {\n  return a;\n}\n"
	f := setup(t, src)
	out, res := f.rename()
	if out != src {
		t.Errorf("got %q, want %q", out, src)
	}
	if len(res.Renamed) != 0 {
		t.Errorf("unexpected renames %v", res.Renamed)
	}
}

func TestRenameReserved(t *testing.T) {
	f := setup(t, `let require = 1;`)
	out, _ := f.rename("require")
	if out != "let require1 = 1;\n" {
		t.Errorf("got %q", out)
	}
}

func TestRenameShorthandProperty(t *testing.T) {
	f := setup(t, `let Object = 1; x = { Object };`)
	f.appendExpr(ast.Call(source.NoSpan, ast.MemberChain(source.NoSpan, "Object", "freeze")))
	out, _ := f.rename()
	want := "let Object1 = 1;\nx = {\n  Object: Object1\n};\nObject.freeze();\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

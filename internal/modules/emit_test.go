package modules_test

import (
	"strings"
	"testing"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/modules"
	"lowerjs/internal/printer"
	"lowerjs/internal/source"
)

func printStmts(stmts ...ast.Stmt) string {
	return printer.Print(&ast.Program{Stmts: stmts}, printer.Options{})
}

func TestEmitHeaders(t *testing.T) {
	tests := []struct {
		name string
		stmt ast.Stmt
		want string
	}{
		{"use strict", modules.UseStrict(), "\"use strict\";\n"},
		{"es module marker", modules.DefineESModule(exportsIdent),
			"Object.defineProperty(exports, \"__esModule\", {\n  value: true\n});\n"},
		{"initialize", ast.ExprStmt(modules.InitializeToUndefined(exportsIdent, []string{"a", "b", "default"})),
			"exports.a = exports.b = exports.default = void 0;\n"},
		{"assign chain", ast.ExprStmt(modules.ExportAssign(exportsIdent, []string{"x", "y"}, ast.Num(source.NoSpan, 1))),
			"exports.y = exports.x = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := printStmts(tt.stmt); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasUseStrict(t *testing.T) {
	if modules.HasUseStrict(nil) {
		t.Errorf("empty body has use strict")
	}
	if !modules.HasUseStrict([]ast.Stmt{modules.UseStrict()}) {
		t.Errorf("use strict not found")
	}
	other := ast.Stmt{Data: &ast.SDirective{Value: "use asm"}}
	if modules.HasUseStrict([]ast.Stmt{other, modules.UseStrict()}) {
		t.Errorf("only the first directive counts")
	}
}

func TestExportGetter(t *testing.T) {
	alloc := hygiene.NewAllocator()
	m := ast.NewPrivateIdent(alloc, source.NoSpan, "_m")
	got := printStmts(modules.ExportGetter(exportsIdent, "a", ast.Member(source.NoSpan, ast.IdentExpr(m), "b")))
	assertContains(t, got,
		`Object.defineProperty(exports, "a", {`,
		"enumerable: true,",
		"get: function() {\n    return _m.b;\n  }",
	)
}

func TestHandleExportAll(t *testing.T) {
	alloc := hygiene.NewAllocator()
	other := ast.NewPrivateIdent(alloc, source.NoSpan, "_other")
	names := ast.NewPrivateIdent(alloc, source.NoSpan, "_exportNames")

	got := printStmts(modules.HandleExportAll(alloc, exportsIdent, &names, other))
	assertContains(t, got,
		"Object.keys(_other).forEach(function(key) {",
		`if (key === "default" || key === "__esModule")`,
		"Object.prototype.hasOwnProperty.call(_exportNames, key)",
		"key in exports && exports[key] === _other[key]",
		"Object.defineProperty(exports, key, {",
		"return _other[key];",
	)

	got = printStmts(modules.HandleExportAll(alloc, exportsIdent, nil, other))
	if strings.Contains(got, "hasOwnProperty") {
		t.Errorf("export names check emitted without export names:\n%s", got)
	}
}

// Package amd lowers an ES module to an AMD define call:
//
//	define(["exports", "./foo"], function (_exports, _foo) {
//	  "use strict";
//	  ...
//	});
//
// Dependencies are loaded by the loader before the factory runs, so the lazy
// policy does not apply here.
package amd

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/helpers"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/modules"
	"lowerjs/internal/rename"
	"lowerjs/internal/resolver"
	"lowerjs/internal/source"
)

type Options struct {
	Config   modules.Config
	Alloc    *hygiene.Allocator
	Resolver modules.ImportResolver
	Base     string
}

var nospan = source.NoSpan

// Transform lowers prog into a program holding a single define call.
func Transform(prog *ast.Program, opts Options) (*ast.Program, error) {
	alloc := opts.Alloc
	if alloc == nil {
		alloc = hygiene.NewAllocator()
	}
	cfg := opts.Config
	cfg.Lazy = modules.Lazy{}

	res := resolver.Resolve(prog, alloc)
	scope := modules.NewScope(cfg, alloc)
	col, err := modules.Collect(prog, scope, alloc)
	if err != nil {
		return nil, err
	}

	exports := ast.NewPrivateIdent(alloc, nospan, "_exports")
	require := ast.NewPrivateIdent(alloc, nospan, "_require")
	interopDefault := ast.NewPrivateIdent(alloc, nospan, "_interopRequireDefault")
	interopWildcard := ast.NewPrivateIdent(alloc, nospan, "_interopRequireWildcard")

	dynamic := &modules.AMDImport{Alloc: alloc, Require: require}
	if !cfg.NoInterop {
		dynamic.Wildcard = &interopWildcard
	}
	body := col.Strip(prog.Stmts, exports)
	body = modules.NewRewriter(scope, alloc, exports, dynamic).Rewrite(body)
	prologue, body := modules.SplitPrologue(body)

	var (
		deps      []ast.Expr
		params    []ast.Ident
		sideDeps  []ast.Expr
		interop   []ast.Stmt
		exportAll []ast.Stmt
		used      = make(map[string]ast.Ident)
	)
	if dynamic.Used {
		deps = append(deps, ast.Str(nospan, "require"))
		params = append(params, require)
		if dynamic.Wildcard != nil {
			used[helpers.InteropRequireWildcard] = interopWildcard
		}
	}
	if col.HasExports() {
		deps = append(deps, ast.Str(nospan, "exports"))
		params = append(params, exports)
	}

	var exportNames *ast.Ident
	if col.NeedsExportNames() {
		id := ast.NewPrivateIdent(alloc, nospan, "_exportNames")
		exportNames = &id
	}
	reexport := make(map[string]bool, len(col.ExportAll))
	for _, src := range col.ExportAll {
		reexport[src] = true
	}

	for _, src := range scope.Sources() {
		resolved, err := modules.ResolveSpecifier(opts.Resolver, opts.Base, src)
		if err != nil {
			return nil, err
		}
		acc, ok := scope.Accessor(src)
		if !ok {
			sideDeps = append(sideDeps, ast.Str(nospan, resolved))
			continue
		}
		deps = append(deps, ast.Str(nospan, resolved))
		params = append(params, acc)
		wrapped, helper := scope.InteropCall(src, ast.IdentExpr(acc), interopDefault, interopWildcard)
		if helper != nil {
			if helper.ID() == interopDefault.ID() {
				used[helpers.InteropRequireDefault] = interopDefault
			} else {
				used[helpers.InteropRequireWildcard] = interopWildcard
			}
			interop = append(interop, ast.ExprStmt(ast.Assign(nospan, ast.IdentPat(acc), wrapped)))
		}
		if reexport[src] {
			exportAll = append(exportAll, modules.HandleExportAll(alloc, exports, exportNames, acc))
		}
	}
	deps = append(deps, sideDeps...)

	runtime, helperCtxt, err := helpers.Load(alloc, used)
	if err != nil {
		return nil, err
	}

	factory := modules.StrictPrologue(cfg, prologue)
	factory = append(factory, col.Prelude(exports, exportNames, cfg.Strict)...)
	factory = append(factory, runtime...)
	factory = append(factory, interop...)
	factory = append(factory, exportAll...)
	factory = append(factory, body...)

	var args []ast.Expr
	if cfg.ModuleID != "" {
		args = append(args, ast.Str(nospan, cfg.ModuleID))
	}
	args = append(args,
		ast.Expr{Data: &ast.EArray{Items: deps}},
		ast.FuncExpr(nospan, ast.Params(params...), factory),
	)
	define := ast.Call(nospan, ast.IdentExpr(ast.QuoteIdent(nospan, "define")), args...)

	out := &ast.Program{File: prog.File, Stmts: []ast.Stmt{ast.ExprStmt(define)}}
	var scoped []hygiene.Ctxt
	if !helperCtxt.IsRoot() {
		scoped = append(scoped, helperCtxt)
	}
	rename.Rename(out, rename.Options{Alloc: alloc, Module: res.Module, Scoped: scoped, Reserved: []string{"define", "require", "exports", "module"}})
	return out, nil
}

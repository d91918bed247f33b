// Package commonjs lowers an ES module to CommonJS:
//
//	"use strict";
//	Object.defineProperty(exports, "__esModule", { value: true });
//	exports.a = void 0;
//	var _foo = _interopRequireDefault(require("./foo"));
//	...body...
//
// Bindings are collected and rewritten by package modules; this package
// decides where the requires, interop helpers and export setup go.
package commonjs

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
	Config modules.Config
	// Alloc mints the contexts of the compilation. A fresh allocator is
	// used when nil.
	Alloc *hygiene.Allocator
	// Resolver maps specifiers for require calls; nil keeps them as written.
	Resolver modules.ImportResolver
	// Base identifies the module for the resolver, usually its path.
	Base string
}

// Reserved are the globals the lowered module relies on. User bindings with
// these names are renamed.
var Reserved = []string{"exports", "require", "module"}

type stage struct {
	opts    Options
	alloc   *hygiene.Allocator
	scope   *modules.Scope
	col     *modules.Collection
	exports ast.Ident
	require ast.Ident

	interopDefault  ast.Ident
	interopWildcard ast.Ident
	used            map[string]ast.Ident
	scoped          []hygiene.Ctxt
}

// Transform lowers prog. prog is consumed: its statements are reused in the
// returned program. On error nothing is returned.
func Transform(prog *ast.Program, opts Options) (*ast.Program, error) {
	alloc := opts.Alloc
	if alloc == nil {
		alloc = hygiene.NewAllocator()
	}
	res := resolver.Resolve(prog, alloc)
	scope := modules.NewScope(opts.Config, alloc)
	col, err := modules.Collect(prog, scope, alloc)
	if err != nil {
		return nil, err
	}

	st := &stage{
		opts:            opts,
		alloc:           alloc,
		scope:           scope,
		col:             col,
		exports:         ast.QuoteIdent(source.NoSpan, "exports"),
		require:         ast.QuoteIdent(source.NoSpan, "require"),
		interopDefault:  ast.NewPrivateIdent(alloc, source.NoSpan, "_interopRequireDefault"),
		interopWildcard: ast.NewPrivateIdent(alloc, source.NoSpan, "_interopRequireWildcard"),
		used:            make(map[string]ast.Ident),
	}
	out, err := st.lower(prog.Stmts)
	if err != nil {
		return nil, err
	}
	lowered := &ast.Program{File: prog.File, Stmts: out}
	rename.Rename(lowered, rename.Options{Alloc: alloc, Module: res.Module, Scoped: st.scoped, Reserved: Reserved})
	return lowered, nil
}

func (st *stage) lower(stmts []ast.Stmt) ([]ast.Stmt, error) {
	cfg := st.opts.Config
	dynamic := &modules.CommonJSImport{Require: st.require}
	if !cfg.NoInterop {
		dynamic.Wildcard = &st.interopWildcard
	}

	body := st.col.Strip(stmts, st.exports)
	body = modules.NewRewriter(st.scope, st.alloc, st.exports, dynamic).Rewrite(body)
	prologue, body := modules.SplitPrologue(body)

	var exportNames *ast.Ident
	if st.col.NeedsExportNames() {
		id := ast.NewPrivateIdent(st.alloc, source.NoSpan, "_exportNames")
		exportNames = &id
	}

	requires, err := st.requires(exportNames)
	if err != nil {
		return nil, err
	}
	if dynamic.Used && dynamic.Wildcard != nil {
		st.used[helpers.InteropRequireWildcard] = st.interopWildcard
	}
	runtime, helperCtxt, err := helpers.Load(st.alloc, st.used)
	if err != nil {
		return nil, err
	}
	if !helperCtxt.IsRoot() {
		st.scoped = append(st.scoped, helperCtxt)
	}

	out := modules.StrictPrologue(cfg, prologue)
	out = append(out, st.col.Prelude(st.exports, exportNames, cfg.Strict)...)
	out = append(out, runtime...)
	out = append(out, requires...)
	return append(out, body...), nil
}

// requires emits one statement per imported specifier, in import order. A
// wildcard re-export is copied right after its module is required.
func (st *stage) requires(exportNames *ast.Ident) ([]ast.Stmt, error) {
	reexport := make(map[string]bool, len(st.col.ExportAll))
	for _, src := range st.col.ExportAll {
		reexport[src] = true
	}

	var out []ast.Stmt
	for _, src := range st.scope.Sources() {
		call, err := modules.MakeRequireCall(st.opts.Resolver, st.opts.Base, st.require, src)
		if err != nil {
			return nil, err
		}
		acc, ok := st.scope.Accessor(src)
		if !ok {
			out = append(out, ast.ExprStmt(call))
			continue
		}
		value, helper := st.scope.InteropCall(src, call, st.interopDefault, st.interopWildcard)
		if helper != nil {
			st.useHelper(*helper)
		}
		if st.scope.IsLazy(src) {
			out = append(out, modules.LazyAccessor(st.alloc, acc, value))
		} else {
			out = append(out, ast.Var(source.NoSpan, acc, value))
		}
		if reexport[src] {
			out = append(out, modules.HandleExportAll(st.alloc, st.exports, exportNames, acc))
		}
	}
	return out, nil
}

func (st *stage) useHelper(id ast.Ident) {
	switch id.ID() {
	case st.interopDefault.ID():
		st.used[helpers.InteropRequireDefault] = id
	case st.interopWildcard.ID():
		st.used[helpers.InteropRequireWildcard] = id
	}
}

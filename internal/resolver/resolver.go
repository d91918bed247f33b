// Package resolver assigns lexical contexts to the identifiers of a parsed
// module.
//
// Every scope of the module gets its own context, minted below a per-module
// context, and every identifier occurrence is stamped with the context of the
// scope that declares it. Names that no scope declares keep hygiene.Root: they
// refer to globals. Identifiers that already carry a non-root context were
// synthesized by an earlier pass and are left alone.
package resolver

import (
	"slices"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
)

type Result struct {
	// Module is the context of top-level bindings; every user scope lies
	// below it.
	Module hygiene.Ctxt
	// Globals lists the unresolved names, sorted.
	Globals []string
	// Scopes counts the scopes created, the module scope included.
	Scopes int
}

type scope struct {
	parent *scope
	ctxt   hygiene.Ctxt
	names  map[string]hygiene.Ctxt
	isFunc bool
}

func (s *scope) declare(name string) {
	if _, ok := s.names[name]; !ok {
		s.names[name] = s.ctxt
	}
}

func (s *scope) lookup(name string) (hygiene.Ctxt, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.names[name]; ok {
			return c, true
		}
	}
	return hygiene.Root, false
}

// funcScope returns the scope var declarations hoist to.
func (s *scope) funcScope() *scope {
	cur := s
	for !cur.isFunc {
		cur = cur.parent
	}
	return cur
}

type resolver struct {
	alloc   *hygiene.Allocator
	globals map[string]struct{}
	scopes  int
}

// Resolve stamps every identifier of prog with its binding context.
func Resolve(prog *ast.Program, alloc *hygiene.Allocator) Result {
	r := &resolver{alloc: alloc, globals: make(map[string]struct{})}
	module := r.newScope(nil, true)
	r.declareBlock(prog.Stmts, module)
	r.walker(module).Stmts(prog.Stmts)

	globals := make([]string, 0, len(r.globals))
	for name := range r.globals {
		globals = append(globals, name)
	}
	slices.Sort(globals)
	return Result{Module: module.ctxt, Globals: globals, Scopes: r.scopes}
}

func (r *resolver) newScope(parent *scope, isFunc bool) *scope {
	ctxt := hygiene.Root
	if parent != nil {
		ctxt = parent.ctxt
	}
	r.scopes++
	return &scope{
		parent: parent,
		ctxt:   r.alloc.Fresh(ctxt),
		names:  make(map[string]hygiene.Ctxt),
		isFunc: isFunc,
	}
}

func (r *resolver) resolveIdent(id *ast.Ident, sc *scope) {
	if !id.Ctxt.IsRoot() {
		return
	}
	if c, ok := sc.lookup(id.Name); ok {
		id.Ctxt = c
		return
	}
	r.globals[id.Name] = struct{}{}
}

// walker resolves everything it visits against sc and hands the nodes that
// open a new scope to the dedicated handlers.
func (r *resolver) walker(sc *scope) *ast.Walker {
	return &ast.Walker{
		Ident: func(id *ast.Ident) { r.resolveIdent(id, sc) },
		Stmt:  func(s *ast.Stmt) bool { return r.enterStmt(s, sc) },
		Expr:  func(e *ast.Expr) bool { return r.enterExpr(e, sc) },
	}
}

func (r *resolver) block(stmts []ast.Stmt, parent *scope) {
	inner := r.newScope(parent, false)
	r.declareBlock(stmts, inner)
	r.walker(inner).Stmts(stmts)
}

func (r *resolver) enterStmt(s *ast.Stmt, sc *scope) bool {
	switch d := s.Data.(type) {
	case *ast.SBlock:
		r.block(d.Stmts, sc)
	case *ast.SFunction:
		if d.Fn.Name != nil {
			r.resolveIdent(d.Fn.Name, sc)
		}
		r.function(&d.Fn, sc)
	case *ast.SClass:
		if d.Class.Name != nil {
			r.resolveIdent(d.Class.Name, sc)
		}
		r.class(&d.Class, sc)
	case *ast.SFor:
		w := r.walker(r.loopScope(d.Init, sc))
		w.WalkStmt(&d.Init)
		w.WalkExpr(&d.Test)
		w.WalkExpr(&d.Update)
		w.WalkStmt(&d.Body)
	case *ast.SForIn:
		w := r.walker(r.loopScope(d.Init, sc))
		w.WalkStmt(&d.Init)
		w.WalkPat(&d.Target)
		w.WalkExpr(&d.Value)
		w.WalkStmt(&d.Body)
	case *ast.SForOf:
		w := r.walker(r.loopScope(d.Init, sc))
		w.WalkStmt(&d.Init)
		w.WalkPat(&d.Target)
		w.WalkExpr(&d.Value)
		w.WalkStmt(&d.Body)
	case *ast.STry:
		r.block(d.Block, sc)
		if d.Catch != nil {
			cs := r.newScope(sc, false)
			for _, id := range ast.PatBindings(d.Catch.Param) {
				cs.declare(id.Name)
			}
			r.walker(cs).WalkPat(&d.Catch.Param)
			r.block(d.Catch.Body, cs)
		}
		if d.Finally != nil {
			r.block(d.Finally.Stmts, sc)
		}
	case *ast.SSwitch:
		r.walker(sc).WalkExpr(&d.Test)
		inner := r.newScope(sc, false)
		for i := range d.Cases {
			r.declareBlock(d.Cases[i].Body, inner)
		}
		w := r.walker(inner)
		for i := range d.Cases {
			w.WalkExpr(&d.Cases[i].Test)
			w.Stmts(d.Cases[i].Body)
		}
	default:
		return true
	}
	return false
}

func (r *resolver) enterExpr(e *ast.Expr, sc *scope) bool {
	switch d := e.Data.(type) {
	case *ast.EFunction:
		outer := sc
		if d.Fn.Name != nil {
			outer = r.newScope(sc, false)
			outer.declare(d.Fn.Name.Name)
			r.resolveIdent(d.Fn.Name, outer)
		}
		r.function(&d.Fn, outer)
	case *ast.EArrow:
		fs := r.params(d.Params, d.Rest, sc)
		r.declareBlock(d.Body, fs)
		w := r.walker(fs)
		r.walkParams(w, d.Params, &d.Rest)
		w.Stmts(d.Body)
		w.WalkExpr(&d.ExprBody)
	case *ast.EClass:
		outer := sc
		if d.Class.Name != nil {
			outer = r.newScope(sc, false)
			outer.declare(d.Class.Name.Name)
			r.resolveIdent(d.Class.Name, outer)
		}
		r.class(&d.Class, outer)
	default:
		return true
	}
	return false
}

// loopScope opens the scope of a for statement whose head declares with let
// or const; var heads were hoisted already.
func (r *resolver) loopScope(init ast.Stmt, sc *scope) *scope {
	local, ok := init.Data.(*ast.SLocal)
	if !ok || local.Kind == ast.LocalVar {
		return sc
	}
	inner := r.newScope(sc, false)
	for _, id := range ast.DeclBindings(init) {
		inner.declare(id.Name)
	}
	return inner
}

func (r *resolver) params(params []ast.Param, rest ast.Pat, sc *scope) *scope {
	fs := r.newScope(sc, true)
	for _, p := range params {
		for _, id := range ast.PatBindings(p.Binding) {
			fs.declare(id.Name)
		}
	}
	for _, id := range ast.PatBindings(rest) {
		fs.declare(id.Name)
	}
	return fs
}

func (r *resolver) walkParams(w *ast.Walker, params []ast.Param, rest *ast.Pat) {
	for i := range params {
		w.WalkPat(&params[i].Binding)
		w.WalkExpr(&params[i].Default)
	}
	w.WalkPat(rest)
}

func (r *resolver) function(fn *ast.Fn, sc *scope) {
	fs := r.params(fn.Params, fn.Rest, sc)
	r.declareBlock(fn.Body, fs)
	w := r.walker(fs)
	r.walkParams(w, fn.Params, &fn.Rest)
	w.Stmts(fn.Body)
}

// class resolves the heritage, computed keys and member bodies in sc.
func (r *resolver) class(c *ast.Class, sc *scope) {
	w := r.walker(sc)
	w.WalkExpr(&c.Extends)
	for i := range c.Members {
		m := &c.Members[i]
		if m.Computed {
			w.WalkExpr(&m.Key)
		}
		w.WalkExpr(&m.Value)
	}
}

// declareBlock declares the lexical bindings of a statement list in block and
// hoists every var below it to the enclosing function scope.
func (r *resolver) declareBlock(stmts []ast.Stmt, block *scope) {
	fn := block.funcScope()
	for i := range stmts {
		r.declareStmt(stmts[i], block, fn)
	}
}

func (r *resolver) declareStmt(s ast.Stmt, block, fn *scope) {
	switch d := s.Data.(type) {
	case *ast.SLocal:
		target := block
		if d.Kind == ast.LocalVar {
			target = fn
		}
		for _, id := range ast.DeclBindings(s) {
			target.declare(id.Name)
		}
	case *ast.SFunction, *ast.SClass:
		for _, id := range ast.DeclBindings(s) {
			block.declare(id.Name)
		}
	case *ast.SImport:
		for _, spec := range d.Specifiers {
			block.declare(spec.Local.Name)
		}
	case *ast.SExportDecl:
		r.declareStmt(d.Decl, block, fn)
	case *ast.SExportDefault:
		r.declareStmt(d.Decl, block, fn)
	default:
		hoistVars(s, fn)
	}
}

// hoistVars declares the var bindings nested in control statements. It does
// not enter functions.
func hoistVars(s ast.Stmt, fn *scope) {
	switch d := s.Data.(type) {
	case *ast.SLocal:
		if d.Kind == ast.LocalVar {
			for _, id := range ast.DeclBindings(s) {
				fn.declare(id.Name)
			}
		}
	case *ast.SIf:
		hoistVars(d.Yes, fn)
		hoistVars(d.No, fn)
	case *ast.SBlock:
		for _, st := range d.Stmts {
			hoistVars(st, fn)
		}
	case *ast.SFor:
		hoistVars(d.Init, fn)
		hoistVars(d.Body, fn)
	case *ast.SForIn:
		hoistVars(d.Init, fn)
		hoistVars(d.Body, fn)
	case *ast.SForOf:
		hoistVars(d.Init, fn)
		hoistVars(d.Body, fn)
	case *ast.SWhile:
		hoistVars(d.Body, fn)
	case *ast.SDoWhile:
		hoistVars(d.Body, fn)
	case *ast.STry:
		for _, st := range d.Block {
			hoistVars(st, fn)
		}
		if d.Catch != nil {
			for _, st := range d.Catch.Body {
				hoistVars(st, fn)
			}
		}
		if d.Finally != nil {
			for _, st := range d.Finally.Stmts {
				hoistVars(st, fn)
			}
		}
	case *ast.SSwitch:
		for _, c := range d.Cases {
			for _, st := range c.Body {
				hoistVars(st, fn)
			}
		}
	}
}

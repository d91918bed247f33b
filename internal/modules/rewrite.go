package modules

import (
	"fmt"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// Rewriter replaces references to imports and keeps exported locals live.
// One Rewriter serves one module; it is not safe for concurrent use.
//
// Rules, in the order they are tried:
//   - top-level this reads as undefined;
//   - a read of an imported binding becomes a property read on its accessor;
//   - import(x) is handed to the DynamicImporter;
//   - a call of an imported binding drops the accessor as receiver: (0, _m.f)();
//   - member accesses only rewrite their object and computed key;
//   - ++/-- of an exported local also assigns every export of it;
//   - a write to an imported binding evaluates the value and then throws;
//   - a write to an exported local is chained into its exports;
//   - destructuring into exported locals is followed by export updates.
type Rewriter struct {
	scope   *Scope
	alloc   *hygiene.Allocator
	exports ast.Ident
	dynamic DynamicImporter

	topLevel bool
	frame    *frame
}

// frame collects the temporaries of one function body.
type frame struct {
	temps []ast.Ident
}

// NewRewriter builds a rewriter writing exports through the exports
// binding. dynamic may be nil, in which case import() is left alone.
func NewRewriter(scope *Scope, alloc *hygiene.Allocator, exports ast.Ident, dynamic DynamicImporter) *Rewriter {
	return &Rewriter{scope: scope, alloc: alloc, exports: exports, dynamic: dynamic}
}

// Rewrite rewrites a stripped module body and returns it with the
// declaration of any module-level temporaries prepended.
func (r *Rewriter) Rewrite(stmts []ast.Stmt) []ast.Stmt {
	r.topLevel = true
	r.frame = &frame{}
	out := r.stmts(stmts)
	return withTemps(out, r.frame.temps)
}

// RewriteExpr rewrites a single expression as if it stood at module top
// level. Temporaries it needs are declared by the next Rewrite call or
// reported by Temps.
func (r *Rewriter) RewriteExpr(e *ast.Expr) {
	if r.frame == nil {
		r.frame = &frame{}
		r.topLevel = true
	}
	r.expr(e, true)
}

// Temps returns the module-level temporaries minted so far.
func (r *Rewriter) Temps() []ast.Ident {
	if r.frame == nil {
		return nil
	}
	return r.frame.temps
}

func (r *Rewriter) temp(name string) ast.Ident {
	id := ast.NewPrivateIdent(r.alloc, source.NoSpan, name)
	r.frame.temps = append(r.frame.temps, id)
	return id
}

// withTemps declares temps with a single var after the prologue of body.
func withTemps(body []ast.Stmt, temps []ast.Ident) []ast.Stmt {
	if len(temps) == 0 {
		return body
	}
	decls := make([]ast.Decl, len(temps))
	for i, id := range temps {
		decls[i] = ast.Decl{Binding: ast.IdentPat(id)}
	}
	decl := ast.Stmt{Data: &ast.SLocal{Kind: ast.LocalVar, Decls: decls}}
	at := 0
	for at < len(body) {
		if _, ok := body[at].Data.(*ast.SDirective); !ok {
			break
		}
		at++
	}
	out := make([]ast.Stmt, 0, len(body)+1)
	out = append(out, body[:at]...)
	out = append(out, decl)
	return append(out, body[at:]...)
}

func (r *Rewriter) stmts(list []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(list))
	for i := range list {
		st := list[i]
		r.stmt(&st)
		out = append(out, st)
		out = append(out, r.declUpdates(st)...)
	}
	return out
}

// body rewrites a nested single statement, wrapping it in a block when
// export updates have to follow it.
func (r *Rewriter) body(s *ast.Stmt) {
	if s.Data == nil {
		return
	}
	r.stmt(s)
	if ups := r.declUpdates(*s); len(ups) > 0 {
		*s = ast.Stmt{Span: s.Span, Data: &ast.SBlock{Stmts: append([]ast.Stmt{*s}, ups...)}}
	}
}

// declUpdates returns "exports.x = x;" for every exported binding declared
// by st.
func (r *Rewriter) declUpdates(st ast.Stmt) []ast.Stmt {
	switch st.Data.(type) {
	case *ast.SLocal, *ast.SClass:
	default:
		return nil
	}
	var out []ast.Stmt
	for _, id := range ast.DeclBindings(st) {
		if names := r.scope.Exported(id.ID()); len(names) > 0 {
			out = append(out, ast.ExprStmt(ExportAssign(r.exports, names, ast.IdentExpr(id))))
		}
	}
	return out
}

func (r *Rewriter) stmt(s *ast.Stmt) {
	switch d := s.Data.(type) {
	case *ast.SExpr:
		r.expr(&d.Value, false)
	case *ast.SDirective, *ast.SBreak, *ast.SContinue, *ast.SEmpty:
	case *ast.SLocal:
		r.local(d)
	case *ast.SFunction:
		r.function(&d.Fn)
	case *ast.SClass:
		r.class(&d.Class)
	case *ast.SReturn:
		r.expr(&d.Value, true)
	case *ast.SThrow:
		r.expr(&d.Value, true)
	case *ast.SIf:
		r.expr(&d.Test, true)
		r.body(&d.Yes)
		r.body(&d.No)
	case *ast.SBlock:
		d.Stmts = r.stmts(d.Stmts)
	case *ast.SFor:
		r.forInit(&d.Init)
		r.expr(&d.Test, true)
		r.expr(&d.Update, false)
		r.body(&d.Body)
	case *ast.SForIn:
		r.expr(&d.Value, true)
		r.forHead(&d.Init, &d.Target, &d.Body)
	case *ast.SForOf:
		r.expr(&d.Value, true)
		r.forHead(&d.Init, &d.Target, &d.Body)
	case *ast.SWhile:
		r.expr(&d.Test, true)
		r.body(&d.Body)
	case *ast.SDoWhile:
		r.body(&d.Body)
		r.expr(&d.Test, true)
	case *ast.STry:
		d.Block = r.stmts(d.Block)
		if d.Catch != nil {
			r.pat(&d.Catch.Param)
			d.Catch.Body = r.stmts(d.Catch.Body)
		}
		if d.Finally != nil {
			d.Finally.Stmts = r.stmts(d.Finally.Stmts)
		}
	case *ast.SSwitch:
		r.expr(&d.Test, true)
		for i := range d.Cases {
			r.expr(&d.Cases[i].Test, true)
			d.Cases[i].Body = r.stmts(d.Cases[i].Body)
		}
	case *ast.SImport, *ast.SExportDecl, *ast.SExportDefault, *ast.SExportNamed, *ast.SExportAll:
		panic(fmt.Sprintf("modules: %T reached the rewriter; Strip the module first", d))
	default:
		panic(fmt.Sprintf("modules: unexpected statement %T", d))
	}
}

func (r *Rewriter) local(d *ast.SLocal) {
	for i := range d.Decls {
		r.pat(&d.Decls[i].Binding)
		r.expr(&d.Decls[i].Value, true)
	}
}

// forInit rewrites a classic for head. Exported var bindings are assigned
// to their exports inside the declarator: var i = exports.i = 0.
func (r *Rewriter) forInit(init *ast.Stmt) {
	local, ok := init.Data.(*ast.SLocal)
	if !ok {
		if e, ok := init.Data.(*ast.SExpr); ok {
			r.expr(&e.Value, false)
		}
		return
	}
	r.local(local)
	for i := range local.Decls {
		decl := &local.Decls[i]
		id, ok := decl.Binding.Data.(*ast.PIdent)
		if !ok || decl.Value.Data == nil {
			continue
		}
		if names := r.scope.Exported(id.Ident.ID()); len(names) > 0 {
			decl.Value = ExportAssign(r.exports, names, decl.Value)
		}
	}
}

// forHead rewrites the head of a for-in or for-of loop. A target that
// writes to imported or exported bindings is moved into the body:
//
//	for (const _value of xs) { a = _value; ... }
//
// so that the write goes through the assignment rules.
func (r *Rewriter) forHead(init *ast.Stmt, target *ast.Pat, body *ast.Stmt) {
	if local, ok := init.Data.(*ast.SLocal); ok {
		r.local(local)
		r.body(body)
		if ups := r.declUpdates(*init); len(ups) > 0 {
			*body = prepend(*body, ups...)
		}
		return
	}
	if !r.writesModuleBinding(*target) {
		r.assignTarget(target)
		r.body(body)
		return
	}
	value := ast.NewPrivateIdent(r.alloc, target.Span, "_value")
	assign := ast.Assign(target.Span, *target, ast.IdentExpr(value))
	r.expr(&assign, false)
	r.body(body)
	*init = ast.Local(target.Span, ast.LocalConst, value, ast.Expr{})
	*target = ast.Pat{}
	*body = prepend(*body, ast.ExprStmt(assign))
}

func prepend(body ast.Stmt, stmts ...ast.Stmt) ast.Stmt {
	if b, ok := body.Data.(*ast.SBlock); ok {
		b.Stmts = append(stmts, b.Stmts...)
		return body
	}
	return ast.Stmt{Span: body.Span, Data: &ast.SBlock{Stmts: append(stmts, body)}}
}

// writesModuleBinding reports whether a target pattern assigns an imported
// or exported binding.
func (r *Rewriter) writesModuleBinding(p ast.Pat) bool {
	for _, id := range ast.PatBindings(p) {
		if _, ok := r.scope.Lookup(id.ID()); ok {
			return true
		}
		if len(r.scope.Exported(id.ID())) > 0 {
			return true
		}
	}
	return false
}

func (r *Rewriter) enterFunction() (restore func()) {
	top, fr := r.topLevel, r.frame
	r.topLevel = false
	r.frame = &frame{}
	return func() { r.topLevel, r.frame = top, fr }
}

func (r *Rewriter) function(fn *ast.Fn) {
	restore := r.enterFunction()
	defer restore()
	r.params(fn.Params, &fn.Rest)
	fn.Body = withTemps(r.stmts(fn.Body), r.frame.temps)
}

// arrow keeps the enclosing this but gets its own temporaries.
func (r *Rewriter) arrow(a *ast.EArrow, span source.Span) {
	fr := r.frame
	r.frame = &frame{}
	defer func() { r.frame = fr }()
	r.params(a.Params, &a.Rest)
	if a.ExprBody.Data == nil {
		a.Body = withTemps(r.stmts(a.Body), r.frame.temps)
		return
	}
	r.expr(&a.ExprBody, true)
	if len(r.frame.temps) > 0 {
		a.Body = withTemps([]ast.Stmt{ast.Return(span, a.ExprBody)}, r.frame.temps)
		a.ExprBody = ast.Expr{}
	}
}

func (r *Rewriter) params(params []ast.Param, rest *ast.Pat) {
	for i := range params {
		r.pat(&params[i].Binding)
		r.expr(&params[i].Default, true)
	}
	r.pat(rest)
}

// class evaluates the heritage and computed keys in the enclosing scope;
// member bodies and field initializers see the instance as this.
func (r *Rewriter) class(c *ast.Class) {
	r.expr(&c.Extends, true)
	for i := range c.Members {
		m := &c.Members[i]
		if m.Computed {
			r.expr(&m.Key, true)
		}
		if m.Kind == ast.MemberField {
			top := r.topLevel
			r.topLevel = false
			r.expr(&m.Value, true)
			r.topLevel = top
			continue
		}
		r.expr(&m.Value, true)
	}
}

// pat rewrites the expressions inside a binding pattern: defaults, computed
// keys and member targets. Bound names are left alone.
func (r *Rewriter) pat(p *ast.Pat) {
	switch d := p.Data.(type) {
	case nil, *ast.PIdent, *ast.PMissing:
	case *ast.PArray:
		for i := range d.Items {
			r.pat(&d.Items[i].Value)
			r.expr(&d.Items[i].Default, true)
		}
		r.pat(&d.Rest)
	case *ast.PObject:
		for i := range d.Props {
			pp := &d.Props[i]
			if pp.Computed {
				r.expr(&pp.Key, true)
			}
			r.pat(&pp.Value)
			r.expr(&pp.Default, true)
		}
		r.pat(&d.Rest)
	case *ast.PExpr:
		r.expr(&d.Value, true)
	default:
		panic(fmt.Sprintf("modules: unexpected pattern %T", d))
	}
}

// assignTarget rewrites the expressions inside a destructuring assignment
// target and returns the exported locals it writes, in source order. The
// target must not write an import; see importTarget.
func (r *Rewriter) assignTarget(p *ast.Pat) []ast.Ident {
	var exported []ast.Ident
	var walk func(p *ast.Pat)
	walk = func(p *ast.Pat) {
		switch d := p.Data.(type) {
		case nil, *ast.PMissing:
		case *ast.PIdent:
			if len(r.scope.Exported(d.Ident.ID())) > 0 {
				exported = append(exported, d.Ident)
			}
		case *ast.PArray:
			for i := range d.Items {
				walk(&d.Items[i].Value)
				r.expr(&d.Items[i].Default, true)
			}
			walk(&d.Rest)
		case *ast.PObject:
			for i := range d.Props {
				pp := &d.Props[i]
				if pp.Computed {
					r.expr(&pp.Key, true)
				}
				walk(&pp.Value)
				r.expr(&pp.Default, true)
			}
			walk(&d.Rest)
		case *ast.PExpr:
			r.expr(&d.Value, true)
		default:
			panic(fmt.Sprintf("modules: unexpected pattern %T", d))
		}
	}
	walk(p)
	return exported
}

// importTarget returns the first imported name a destructuring target
// writes.
func (r *Rewriter) importTarget(p ast.Pat) (ast.Ident, bool) {
	for _, id := range ast.PatBindings(p) {
		if _, ok := r.scope.Lookup(id.ID()); ok {
			return id, true
		}
	}
	return ast.Ident{}, false
}

func (r *Rewriter) expr(e *ast.Expr, used bool) {
	switch d := e.Data.(type) {
	case nil:
	case *ast.ESuper, *ast.ENumber, *ast.EString, *ast.EBoolean, *ast.ENull, *ast.EUndefined, *ast.EMissing:
	case *ast.EThis:
		if r.topLevel {
			*e = ast.Undefined(e.Span)
		}
	case *ast.EIdent:
		if acc, ok := r.scope.AccessExpr(d.Ident); ok {
			*e = acc
		}
	case *ast.EArray:
		for i := range d.Items {
			r.expr(&d.Items[i], true)
		}
	case *ast.EObject:
		for i := range d.Props {
			p := &d.Props[i]
			if p.Computed {
				r.expr(&p.Key, true)
			}
			r.expr(&p.Value, true)
			if _, still := p.Value.Data.(*ast.EIdent); p.Shorthand && !still {
				p.Shorthand = false
			}
		}
	case *ast.EFunction:
		r.function(&d.Fn)
	case *ast.EArrow:
		r.arrow(d, e.Span)
	case *ast.EClass:
		r.class(&d.Class)
	case *ast.ECall:
		r.call(d)
	case *ast.ENew:
		r.expr(&d.Target, true)
		for i := range d.Args {
			r.expr(&d.Args[i], true)
		}
	case *ast.EDot:
		r.expr(&d.Target, true)
	case *ast.EIndex:
		r.expr(&d.Target, true)
		r.expr(&d.Index, true)
	case *ast.EImportCall:
		for i := range d.Args {
			r.expr(&d.Args[i], true)
		}
		if len(d.Args) == 1 && r.dynamic != nil && !r.scope.cfg.IgnoreDynamic {
			*e = r.dynamic.DynamicImport(e.Span, d.Args)
		}
	case *ast.EUnary:
		r.expr(&d.Value, true)
	case *ast.EUpdate:
		r.update(e, d, used)
	case *ast.EBinary:
		r.expr(&d.Left, true)
		r.expr(&d.Right, true)
	case *ast.EAssign:
		r.assign(e, d, used)
	case *ast.ESeq:
		for i := range d.Exprs {
			r.expr(&d.Exprs[i], used && i == len(d.Exprs)-1)
		}
	case *ast.ECond:
		r.expr(&d.Test, true)
		r.expr(&d.Yes, used)
		r.expr(&d.No, used)
	case *ast.ESpread:
		r.expr(&d.Value, true)
	case *ast.EAwait:
		r.expr(&d.Value, true)
	case *ast.EYield:
		r.expr(&d.Value, true)
	default:
		panic(fmt.Sprintf("modules: unexpected expression %T", d))
	}
}

// call strips the accessor receiver from calls of imported functions:
// f() must not see _m as this.
func (r *Rewriter) call(d *ast.ECall) {
	if id, ok := d.Target.Data.(*ast.EIdent); ok {
		if acc, ok := r.scope.AccessExpr(id.Ident); ok {
			if _, member := acc.Data.(*ast.EDot); member {
				acc = ast.Expr{Span: acc.Span, Data: &ast.ESeq{Exprs: []ast.Expr{ast.Num(acc.Span, 0), acc}}}
			}
			d.Target = acc
		}
	} else {
		r.expr(&d.Target, true)
	}
	for i := range d.Args {
		r.expr(&d.Args[i], true)
	}
}

// update handles ++ and -- on identifiers.
func (r *Rewriter) update(e *ast.Expr, d *ast.EUpdate, used bool) {
	id, ok := d.Target.Data.(*ast.EIdent)
	if !ok {
		r.expr(&d.Target, true)
		return
	}
	span := e.Span
	local := id.Ident
	if acc, ok := r.scope.AccessExpr(local); ok {
		// The old value is still read before the write fails.
		*e = ast.Seq(span, ast.Unary(span, ast.UnPos, acc), ReadOnlyError(span, local.Name))
		return
	}
	names := r.scope.Exported(local.ID())
	if len(names) == 0 {
		return
	}
	one := ast.Num(span, 1)
	if d.Prefix || !used {
		next := ast.Binary(span, d.Op.Binary(), ast.Unary(span, ast.UnPos, ast.IdentExpr(local)), one)
		*e = ExportAssign(r.exports, names, ast.Assign(span, ast.IdentPat(local), next))
		return
	}
	old := r.temp("_tmp")
	next := ast.Binary(span, d.Op.Binary(), ast.IdentExpr(old), one)
	*e = ast.Seq(span,
		ast.Assign(span, ast.IdentPat(old), ast.Unary(span, ast.UnPos, ast.IdentExpr(local))),
		ExportAssign(r.exports, names, ast.Assign(span, ast.IdentPat(local), next)),
		ast.IdentExpr(old),
	)
}

func (r *Rewriter) assign(e *ast.Expr, d *ast.EAssign, used bool) {
	span := e.Span
	switch t := d.Target.Data.(type) {
	case *ast.PIdent:
		r.expr(&d.Value, true)
		local := t.Ident
		if acc, ok := r.scope.AccessExpr(local); ok {
			*e = readOnlyAssign(span, d.Op, acc, d.Value, local.Name)
			return
		}
		if names := r.scope.Exported(local.ID()); len(names) > 0 {
			*e = ExportAssign(r.exports, names, *e)
		}
		return
	case *ast.PExpr:
		r.expr(&t.Value, true)
		r.expr(&d.Value, true)
		return
	}

	// a pattern that writes an import assigns nothing: the value is
	// evaluated once, then the write throws
	if id, ok := r.importTarget(d.Target); ok {
		r.expr(&d.Value, true)
		*e = ast.Seq(span, d.Value, ReadOnlyError(span, id.Name))
		return
	}
	exported := r.assignTarget(&d.Target)
	r.expr(&d.Value, true)
	if len(exported) == 0 {
		return
	}
	updates := make([]ast.Expr, 0, len(exported)+2)
	if used {
		res := r.temp("_tmp")
		updates = append(updates, ast.Assign(span, ast.IdentPat(res), *e))
		for _, id := range exported {
			updates = append(updates, ExportAssign(r.exports, r.scope.Exported(id.ID()), ast.IdentExpr(id)))
		}
		updates = append(updates, ast.IdentExpr(res))
	} else {
		updates = append(updates, *e)
		for _, id := range exported {
			updates = append(updates, ExportAssign(r.exports, r.scope.Exported(id.ID()), ast.IdentExpr(id)))
		}
	}
	*e = ast.Expr{Span: span, Data: &ast.ESeq{Exprs: updates}}
}

// readOnlyAssign reproduces a write to an import: the operands are
// evaluated as the original assignment would, then the write throws.
// Logical assignments only throw when they would have assigned.
func readOnlyAssign(span source.Span, op ast.AssignOp, current, value ast.Expr, name string) ast.Expr {
	fail := ast.Seq(span, value, ReadOnlyError(span, name))
	switch op {
	case ast.AssignEq:
		return fail
	case ast.AssignLogicalAnd, ast.AssignLogicalOr, ast.AssignNullish:
		bin, _ := op.Binary()
		return ast.Binary(span, bin, current, fail)
	default:
		bin, _ := op.Binary()
		return ast.Seq(span, ast.Binary(span, bin, current, value), ReadOnlyError(span, name))
	}
}

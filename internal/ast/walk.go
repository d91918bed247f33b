package ast

import "fmt"

// Walker visits a tree in source order. Each hook is optional. The Expr, Stmt
// and Pat hooks run before the children and may replace the node in place;
// returning false skips the children. Ident runs for every identifier
// occurrence that names a binding: references, declarations, import and
// export locals. Property names and non-computed keys are not identifiers.
type Walker struct {
	Expr  func(*Expr) bool
	Stmt  func(*Stmt) bool
	Pat   func(*Pat) bool
	Ident func(*Ident)
}

func (w *Walker) Program(p *Program) {
	w.Stmts(p.Stmts)
}

func (w *Walker) Stmts(stmts []Stmt) {
	for i := range stmts {
		w.WalkStmt(&stmts[i])
	}
}

func (w *Walker) ident(id *Ident) {
	if w.Ident != nil {
		w.Ident(id)
	}
}

func (w *Walker) fn(f *Fn) {
	if f.Name != nil {
		w.ident(f.Name)
	}
	w.params(f.Params, &f.Rest)
	w.Stmts(f.Body)
}

func (w *Walker) params(params []Param, rest *Pat) {
	for i := range params {
		w.WalkPat(&params[i].Binding)
		w.WalkExpr(&params[i].Default)
	}
	w.WalkPat(rest)
}

func (w *Walker) class(c *Class) {
	if c.Name != nil {
		w.ident(c.Name)
	}
	w.WalkExpr(&c.Extends)
	for i := range c.Members {
		m := &c.Members[i]
		if m.Computed {
			w.WalkExpr(&m.Key)
		}
		w.WalkExpr(&m.Value)
	}
}

func (w *Walker) WalkStmt(s *Stmt) {
	if s.Data == nil {
		return
	}
	if w.Stmt != nil && !w.Stmt(s) {
		return
	}
	switch d := s.Data.(type) {
	case *SExpr:
		w.WalkExpr(&d.Value)
	case *SDirective, *SBreak, *SContinue, *SEmpty:
	case *SLocal:
		for i := range d.Decls {
			w.WalkPat(&d.Decls[i].Binding)
			w.WalkExpr(&d.Decls[i].Value)
		}
	case *SFunction:
		w.fn(&d.Fn)
	case *SClass:
		w.class(&d.Class)
	case *SReturn:
		w.WalkExpr(&d.Value)
	case *SThrow:
		w.WalkExpr(&d.Value)
	case *SIf:
		w.WalkExpr(&d.Test)
		w.WalkStmt(&d.Yes)
		w.WalkStmt(&d.No)
	case *SBlock:
		w.Stmts(d.Stmts)
	case *SFor:
		w.WalkStmt(&d.Init)
		w.WalkExpr(&d.Test)
		w.WalkExpr(&d.Update)
		w.WalkStmt(&d.Body)
	case *SForIn:
		w.WalkStmt(&d.Init)
		w.WalkPat(&d.Target)
		w.WalkExpr(&d.Value)
		w.WalkStmt(&d.Body)
	case *SForOf:
		w.WalkStmt(&d.Init)
		w.WalkPat(&d.Target)
		w.WalkExpr(&d.Value)
		w.WalkStmt(&d.Body)
	case *SWhile:
		w.WalkExpr(&d.Test)
		w.WalkStmt(&d.Body)
	case *SDoWhile:
		w.WalkStmt(&d.Body)
		w.WalkExpr(&d.Test)
	case *STry:
		w.Stmts(d.Block)
		if d.Catch != nil {
			w.WalkPat(&d.Catch.Param)
			w.Stmts(d.Catch.Body)
		}
		if d.Finally != nil {
			w.Stmts(d.Finally.Stmts)
		}
	case *SSwitch:
		w.WalkExpr(&d.Test)
		for i := range d.Cases {
			w.WalkExpr(&d.Cases[i].Test)
			w.Stmts(d.Cases[i].Body)
		}
	case *SImport:
		for i := range d.Specifiers {
			w.ident(&d.Specifiers[i].Local)
		}
	case *SExportDecl:
		w.WalkStmt(&d.Decl)
	case *SExportDefault:
		w.WalkExpr(&d.Value)
		w.WalkStmt(&d.Decl)
	case *SExportNamed:
		if !d.HasSource {
			for i := range d.Specifiers {
				w.ident(&d.Specifiers[i].Local)
			}
		}
	case *SExportAll:
	default:
		panic(fmt.Sprintf("ast: unexpected statement %T", d))
	}
}

func (w *Walker) WalkExpr(e *Expr) {
	if e.Data == nil {
		return
	}
	if w.Expr != nil && !w.Expr(e) {
		return
	}
	switch d := e.Data.(type) {
	case *EThis, *ESuper, *ENumber, *EString, *EBoolean, *ENull, *EUndefined, *EMissing:
	case *EIdent:
		w.ident(&d.Ident)
	case *EArray:
		for i := range d.Items {
			w.WalkExpr(&d.Items[i])
		}
	case *EObject:
		for i := range d.Props {
			p := &d.Props[i]
			if p.Computed {
				w.WalkExpr(&p.Key)
			}
			w.WalkExpr(&p.Value)
		}
	case *EFunction:
		w.fn(&d.Fn)
	case *EArrow:
		w.params(d.Params, &d.Rest)
		w.Stmts(d.Body)
		w.WalkExpr(&d.ExprBody)
	case *EClass:
		w.class(&d.Class)
	case *ECall:
		w.WalkExpr(&d.Target)
		for i := range d.Args {
			w.WalkExpr(&d.Args[i])
		}
	case *ENew:
		w.WalkExpr(&d.Target)
		for i := range d.Args {
			w.WalkExpr(&d.Args[i])
		}
	case *EDot:
		w.WalkExpr(&d.Target)
	case *EIndex:
		w.WalkExpr(&d.Target)
		w.WalkExpr(&d.Index)
	case *EImportCall:
		for i := range d.Args {
			w.WalkExpr(&d.Args[i])
		}
	case *EUnary:
		w.WalkExpr(&d.Value)
	case *EUpdate:
		w.WalkExpr(&d.Target)
	case *EBinary:
		w.WalkExpr(&d.Left)
		w.WalkExpr(&d.Right)
	case *EAssign:
		w.WalkPat(&d.Target)
		w.WalkExpr(&d.Value)
	case *ESeq:
		for i := range d.Exprs {
			w.WalkExpr(&d.Exprs[i])
		}
	case *ECond:
		w.WalkExpr(&d.Test)
		w.WalkExpr(&d.Yes)
		w.WalkExpr(&d.No)
	case *ESpread:
		w.WalkExpr(&d.Value)
	case *EAwait:
		w.WalkExpr(&d.Value)
	case *EYield:
		w.WalkExpr(&d.Value)
	default:
		panic(fmt.Sprintf("ast: unexpected expression %T", d))
	}
}

func (w *Walker) WalkPat(p *Pat) {
	if p.Data == nil {
		return
	}
	if w.Pat != nil && !w.Pat(p) {
		return
	}
	switch d := p.Data.(type) {
	case *PIdent:
		w.ident(&d.Ident)
	case *PArray:
		for i := range d.Items {
			w.WalkPat(&d.Items[i].Value)
			w.WalkExpr(&d.Items[i].Default)
		}
		w.WalkPat(&d.Rest)
	case *PObject:
		for i := range d.Props {
			pp := &d.Props[i]
			if pp.Computed {
				w.WalkExpr(&pp.Key)
			}
			w.WalkPat(&pp.Value)
			w.WalkExpr(&pp.Default)
		}
		w.WalkPat(&d.Rest)
	case *PExpr:
		w.WalkExpr(&d.Value)
	case *PMissing:
	default:
		panic(fmt.Sprintf("ast: unexpected pattern %T", d))
	}
}

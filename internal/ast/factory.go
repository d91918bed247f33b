package ast

import (
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// NewPrivateIdent mints an identifier that no user binding can capture: its
// context is fresh under Root. The renamer gives it a unique spelling if it
// ever collides with another binding.
func NewPrivateIdent(alloc *hygiene.Allocator, span source.Span, name string) Ident {
	return Ident{Span: span, Name: name, Ctxt: alloc.Fresh(hygiene.Root)}
}

// QuoteIdent builds an identifier resolving to the unresolved global of that
// name, e.g. require, exports or Object.
func QuoteIdent(span source.Span, name string) Ident {
	return Ident{Span: span, Name: name, Ctxt: hygiene.Root}
}

func IdentExpr(id Ident) Expr {
	return Expr{Span: id.Span, Data: &EIdent{Ident: id}}
}

func IdentPat(id Ident) Pat {
	return Pat{Span: id.Span, Data: &PIdent{Ident: id}}
}

func Str(span source.Span, value string) Expr {
	return Expr{Span: span, Data: &EString{Value: value}}
}

func Num(span source.Span, value float64) Expr {
	return Expr{Span: span, Data: &ENumber{Value: value}}
}

func Bool(span source.Span, value bool) Expr {
	return Expr{Span: span, Data: &EBoolean{Value: value}}
}

func Undefined(span source.Span) Expr {
	return Expr{Span: span, Data: &EUndefined{}}
}

// Member builds target.name.
func Member(span source.Span, target Expr, name string) Expr {
	return Expr{Span: span, Data: &EDot{Target: target, Name: name, NameSpan: span}}
}

// MemberChain builds root.a.b... from global names.
func MemberChain(span source.Span, root string, names ...string) Expr {
	e := IdentExpr(QuoteIdent(span, root))
	for _, n := range names {
		e = Member(span, e, n)
	}
	return e
}

func Call(span source.Span, target Expr, args ...Expr) Expr {
	return Expr{Span: span, Data: &ECall{Target: target, Args: args}}
}

func New(span source.Span, target Expr, args ...Expr) Expr {
	return Expr{Span: span, Data: &ENew{Target: target, Args: args}}
}

// Seq flattens nested sequences and returns a single expression when only one
// remains.
func Seq(span source.Span, exprs ...Expr) Expr {
	flat := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if s, ok := e.Data.(*ESeq); ok {
			flat = append(flat, s.Exprs...)
			continue
		}
		flat = append(flat, e)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Expr{Span: span, Data: &ESeq{Exprs: flat}}
}

// Assign builds target = value.
func Assign(span source.Span, target Pat, value Expr) Expr {
	return Expr{Span: span, Data: &EAssign{Op: AssignEq, Target: target, Value: value}}
}

// AssignTo builds expr = value where expr is an identifier or member access.
func AssignTo(span source.Span, target, value Expr) Expr {
	return Assign(span, ExprToTarget(target), value)
}

// ExprToTarget turns an identifier or member expression into a Pat.
func ExprToTarget(e Expr) Pat {
	if id, ok := e.Data.(*EIdent); ok {
		return IdentPat(id.Ident)
	}
	return Pat{Span: e.Span, Data: &PExpr{Value: e}}
}

func Binary(span source.Span, op BinaryOp, left, right Expr) Expr {
	return Expr{Span: span, Data: &EBinary{Op: op, Left: left, Right: right}}
}

func Unary(span source.Span, op UnaryOp, value Expr) Expr {
	return Expr{Span: span, Data: &EUnary{Op: op, Value: value}}
}

func FuncExpr(span source.Span, params []Param, body []Stmt) Expr {
	return Expr{Span: span, Data: &EFunction{Fn: Fn{Params: params, Body: body}}}
}

func ExprStmt(e Expr) Stmt {
	return Stmt{Span: e.Span, Data: &SExpr{Value: e}}
}

func Return(span source.Span, value Expr) Stmt {
	return Stmt{Span: span, Data: &SReturn{Value: value}}
}

// Var builds "var name = value"; a nil value leaves the binding uninitialized.
func Var(span source.Span, name Ident, value Expr) Stmt {
	return Local(span, LocalVar, name, value)
}

func Local(span source.Span, kind LocalKind, name Ident, value Expr) Stmt {
	return Stmt{Span: span, Data: &SLocal{Kind: kind, Decls: []Decl{{Binding: IdentPat(name), Value: value}}}}
}

// Params turns identifiers into simple formal parameters.
func Params(ids ...Ident) []Param {
	out := make([]Param, len(ids))
	for i, id := range ids {
		out[i] = Param{Binding: IdentPat(id)}
	}
	return out
}

// Object builds an object literal from ordered key/value pairs.
func Object(span source.Span, props ...Property) Expr {
	return Expr{Span: span, Data: &EObject{Props: props}}
}

// Prop builds a plain "key: value" member.
func Prop(span source.Span, key string, value Expr) Property {
	return Property{Span: span, Kind: PropInit, Key: Str(span, key), Value: value}
}

// IsIdentifierName reports whether s can be written as a bare property name.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '$' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

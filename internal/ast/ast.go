// Package ast defines the syntax tree shared by the parser, the rewrite
// passes and the printer.
//
// Every node family is a closed sum: a small wrapper struct carrying the
// position (Expr, Stmt, Pat) and a Data field holding one of the concrete
// node types of that family. The marker methods (isExpr, isStmt, isPat) are
// unexported, so no package outside ast can add a node kind, and passes
// dispatch with exhaustive type switches that panic on unknown kinds.
//
// Optional children use the "Data == nil" convention: an Expr, Stmt or Pat
// whose Data is nil is absent.
package ast

import (
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// Program is one parsed module.
type Program struct {
	File  source.FileID
	Stmts []Stmt
}

// Ident is one occurrence of an identifier. Two identifiers refer to the
// same binding only if both Name and Ctxt match.
type Ident struct {
	Span source.Span
	Name string
	Ctxt hygiene.Ctxt
}

// BindingID is the identity of an identifier, without position.
type BindingID struct {
	Name string
	Ctxt hygiene.Ctxt
}

// ID returns the binding identity of the identifier.
func (id Ident) ID() BindingID { return BindingID{Name: id.Name, Ctxt: id.Ctxt} }

func (id BindingID) String() string { return id.Name + id.Ctxt.String() }

// Expr is an expression node.
type Expr struct {
	Span source.Span
	Data E
}

// E is implemented by every expression kind.
type E interface{ isExpr() }

func (*EArray) isExpr()      {}
func (*EObject) isExpr()     {}
func (*EIdent) isExpr()      {}
func (*EThis) isExpr()       {}
func (*ESuper) isExpr()      {}
func (*ENumber) isExpr()     {}
func (*EString) isExpr()     {}
func (*EBoolean) isExpr()    {}
func (*ENull) isExpr()       {}
func (*EUndefined) isExpr()  {}
func (*EFunction) isExpr()   {}
func (*EArrow) isExpr()      {}
func (*EClass) isExpr()      {}
func (*ECall) isExpr()       {}
func (*ENew) isExpr()        {}
func (*EDot) isExpr()        {}
func (*EIndex) isExpr()      {}
func (*EImportCall) isExpr() {}
func (*EUnary) isExpr()      {}
func (*EUpdate) isExpr()     {}
func (*EBinary) isExpr()     {}
func (*EAssign) isExpr()     {}
func (*ESeq) isExpr()        {}
func (*ECond) isExpr()       {}
func (*ESpread) isExpr()     {}
func (*EMissing) isExpr()    {}
func (*EAwait) isExpr()      {}
func (*EYield) isExpr()      {}

// EArray is an array literal. Holes are EMissing, spread elements ESpread.
type EArray struct {
	Items []Expr
}

// EObject is an object literal.
type EObject struct {
	Props []Property
}

// PropertyKind distinguishes object literal members.
type PropertyKind uint8

const (
	PropInit PropertyKind = iota
	PropMethod
	PropGetter
	PropSetter
	PropSpread
)

// Property is one object literal member. For methods, getters and setters
// Value holds an EFunction; for spreads Key is absent.
type Property struct {
	Span      source.Span
	Kind      PropertyKind
	Key       Expr
	Computed  bool
	Shorthand bool
	Value     Expr
}

type EIdent struct {
	Ident Ident
}

type EThis struct{}

// ESuper only appears as the target of EDot, EIndex or ECall.
type ESuper struct{}

type ENumber struct {
	Value float64
}

type EString struct {
	Value string
}

type EBoolean struct {
	Value bool
}

type ENull struct{}

// EUndefined is printed as "void 0".
type EUndefined struct{}

// Param is one formal parameter.
type Param struct {
	Binding Pat
	Default Expr
}

// Fn is the shared part of function declarations, expressions and methods.
type Fn struct {
	Name        *Ident
	Params      []Param
	Rest        Pat
	Body        []Stmt
	IsAsync     bool
	IsGenerator bool
}

type EFunction struct {
	Fn Fn
}

// EArrow is an arrow function. ExprBody is set for concise bodies, in which
// case Body is empty.
type EArrow struct {
	Params   []Param
	Rest     Pat
	Body     []Stmt
	ExprBody Expr
	IsAsync  bool
}

// MemberKind distinguishes class members.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
	MemberField
)

// ClassMember is a method, accessor or field. Methods and accessors keep an
// EFunction in Value; fields keep the optional initializer.
type ClassMember struct {
	Span     source.Span
	Kind     MemberKind
	Static   bool
	Key      Expr
	Computed bool
	Value    Expr
}

type Class struct {
	Name    *Ident
	Extends Expr
	Members []ClassMember
}

type EClass struct {
	Class Class
}

type ECall struct {
	Target Expr
	Args   []Expr
}

type ENew struct {
	Target Expr
	Args   []Expr
}

// EDot is a non-computed member access; Name is never rewritten as a binding.
type EDot struct {
	Target   Expr
	Name     string
	NameSpan source.Span
}

type EIndex struct {
	Target Expr
	Index  Expr
}

// EImportCall is the call form of dynamic import: import(...args).
type EImportCall struct {
	Args []Expr
}

type EUnary struct {
	Op    UnaryOp
	Value Expr
}

type EUpdate struct {
	Op     UpdateOp
	Prefix bool
	Target Expr
}

type EBinary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// EAssign covers plain and compound assignment. Target is a PIdent, a
// destructuring pattern or a PExpr wrapping a member access.
type EAssign struct {
	Op     AssignOp
	Target Pat
	Value  Expr
}

type ESeq struct {
	Exprs []Expr
}

type ECond struct {
	Test Expr
	Yes  Expr
	No   Expr
}

type ESpread struct {
	Value Expr
}

type EMissing struct{}

type EAwait struct {
	Value Expr
}

type EYield struct {
	Value    Expr
	Delegate bool
}

// Stmt is a statement node.
type Stmt struct {
	Span source.Span
	Data S
}

// S is implemented by every statement kind.
type S interface{ isStmt() }

func (*SExpr) isStmt()          {}
func (*SDirective) isStmt()     {}
func (*SLocal) isStmt()         {}
func (*SFunction) isStmt()      {}
func (*SClass) isStmt()         {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*SIf) isStmt()            {}
func (*SBlock) isStmt()         {}
func (*SFor) isStmt()           {}
func (*SForIn) isStmt()         {}
func (*SForOf) isStmt()         {}
func (*SWhile) isStmt()         {}
func (*SDoWhile) isStmt()       {}
func (*STry) isStmt()           {}
func (*SSwitch) isStmt()        {}
func (*SBreak) isStmt()         {}
func (*SContinue) isStmt()      {}
func (*SEmpty) isStmt()         {}
func (*SImport) isStmt()        {}
func (*SExportDecl) isStmt()    {}
func (*SExportDefault) isStmt() {}
func (*SExportNamed) isStmt()   {}
func (*SExportAll) isStmt()     {}

type SExpr struct {
	Value Expr
}

// SDirective is a prologue string such as "use strict".
type SDirective struct {
	Value string
}

// LocalKind is the declaration keyword of an SLocal.
type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

func (k LocalKind) String() string {
	switch k {
	case LocalLet:
		return "let"
	case LocalConst:
		return "const"
	default:
		return "var"
	}
}

type Decl struct {
	Binding Pat
	Value   Expr
}

type SLocal struct {
	Kind  LocalKind
	Decls []Decl
}

type SFunction struct {
	Fn Fn
}

type SClass struct {
	Class Class
}

type SReturn struct {
	Value Expr
}

type SThrow struct {
	Value Expr
}

type SIf struct {
	Test Expr
	Yes  Stmt
	No   Stmt
}

type SBlock struct {
	Stmts []Stmt
}

// SFor is the classic three-clause loop. Init is an SLocal or an SExpr.
type SFor struct {
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// SForIn and SForOf iterate either into a fresh declaration (Init, an SLocal
// with one declarator and no initializer) or into an existing assignment
// target (Target). Exactly one of the two is set.
type SForIn struct {
	Init   Stmt
	Target Pat
	Value  Expr
	Body   Stmt
}

type SForOf struct {
	Init    Stmt
	Target  Pat
	Value   Expr
	Body    Stmt
	IsAwait bool
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type Catch struct {
	Span  source.Span
	Param Pat
	Body  []Stmt
}

type Finally struct {
	Span  source.Span
	Stmts []Stmt
}

type STry struct {
	Block   []Stmt
	Catch   *Catch
	Finally *Finally
}

// Case is one switch clause; a nil Test marks the default clause.
type Case struct {
	Span source.Span
	Test Expr
	Body []Stmt
}

type SSwitch struct {
	Test  Expr
	Cases []Case
}

type SBreak struct{}

type SContinue struct{}

type SEmpty struct{}

// ImportKind distinguishes import specifiers.
type ImportKind uint8

const (
	ImportDefault ImportKind = iota
	ImportNamespace
	ImportNamed
)

// ImportSpecifier is one binding of an import declaration. Imported is the
// exported name in the source module; it is empty for default and namespace
// specifiers and for named specifiers without "as".
type ImportSpecifier struct {
	Span     source.Span
	Kind     ImportKind
	Local    Ident
	Imported string
}

// ImportedName returns the name the specifier reads from the source module.
func (s ImportSpecifier) ImportedName() string {
	switch s.Kind {
	case ImportDefault:
		return "default"
	case ImportNamespace:
		return ""
	}
	if s.Imported != "" {
		return s.Imported
	}
	return s.Local.Name
}

// SImport is a static import declaration. A declaration without specifiers
// is a side-effect-only import.
type SImport struct {
	Source     string
	SourceSpan source.Span
	Specifiers []ImportSpecifier
}

// SExportDecl wraps an exported SLocal, SFunction or SClass.
type SExportDecl struct {
	Decl Stmt
}

// SExportDefault is "export default". Exactly one of Value and Decl is set;
// Decl is an SFunction or SClass whose name may be nil.
type SExportDefault struct {
	Value Expr
	Decl  Stmt
}

// ExportSpecifier names one export. Without a source module Local is a
// binding of this module; with one, Local.Name is the name read from it.
type ExportSpecifier struct {
	Span     source.Span
	Local    Ident
	Exported string
}

// SExportNamed is "export { ... }" or "export { ... } from".
type SExportNamed struct {
	Specifiers []ExportSpecifier
	Source     string
	SourceSpan source.Span
	HasSource  bool
}

// SExportAll is "export * from" or, with Alias set, "export * as Alias from".
type SExportAll struct {
	Source     string
	SourceSpan source.Span
	Alias      string
}

// Pat is a binding or assignment target.
type Pat struct {
	Span source.Span
	Data P
}

// P is implemented by every pattern kind.
type P interface{ isPat() }

func (*PIdent) isPat()   {}
func (*PArray) isPat()   {}
func (*PObject) isPat()  {}
func (*PExpr) isPat()    {}
func (*PMissing) isPat() {}

type PIdent struct {
	Ident Ident
}

type PatItem struct {
	Value   Pat
	Default Expr
}

type PArray struct {
	Items []PatItem
	Rest  Pat
}

type PatProp struct {
	Span      source.Span
	Key       Expr
	Computed  bool
	Shorthand bool
	Value     Pat
	Default   Expr
}

type PObject struct {
	Props []PatProp
	Rest  Pat
}

// PExpr is a member-access assignment target such as a.b or a[b].
type PExpr struct {
	Value Expr
}

// PMissing is an elided array pattern element.
type PMissing struct{}

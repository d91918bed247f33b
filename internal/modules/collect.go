package modules

import (
	"fmt"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// ExportKind says how an export is kept up to date.
type ExportKind uint8

const (
	// ExportLocal is assigned after its declaration and on every write.
	ExportLocal ExportKind = iota
	// ExportFunction is a hoisted function, assigned before the body runs.
	ExportFunction
	// ExportImport is a live getter reading from another module.
	ExportImport
	// ExportValue is "export default <expr>", assigned where it appears.
	ExportValue
)

func (k ExportKind) String() string {
	switch k {
	case ExportLocal:
		return "local"
	case ExportFunction:
		return "function"
	case ExportImport:
		return "import"
	case ExportValue:
		return "value"
	default:
		return fmt.Sprintf("ExportKind(%d)", uint8(k))
	}
}

// Export is one explicitly named export of the module.
type Export struct {
	Name string
	Kind ExportKind
	// Local is the exported binding of ExportLocal and ExportFunction.
	Local ast.Ident
	// Source and Prop locate the read of ExportImport; an empty Prop
	// exports the whole module.
	Source string
	Prop   string
	Span   source.Span
}

// Collection is the result of the binding-collection phase.
type Collection struct {
	Scope   *Scope
	Exports []Export
	// ExportAll lists the sources of "export * from" in order.
	ExportAll []string
	// HasModuleSyntax is set when the module has any import or export.
	HasModuleSyntax bool

	byName map[string]int
}

// ExportNames returns the explicit export names in order.
func (c *Collection) ExportNames() []string {
	out := make([]string, len(c.Exports))
	for i, e := range c.Exports {
		out[i] = e.Name
	}
	return out
}

// Export returns the export called name.
func (c *Collection) Export(name string) (Export, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Export{}, false
	}
	return c.Exports[i], true
}

func (c *Collection) add(e Export) error {
	if _, dup := c.byName[e.Name]; dup {
		return &UnsupportedError{Span: e.Span, Shape: fmt.Sprintf("duplicate export %q", e.Name)}
	}
	c.byName[e.Name] = len(c.Exports)
	c.Exports = append(c.Exports, e)
	if e.Kind == ExportLocal || e.Kind == ExportFunction {
		c.Scope.AddExport(e.Local.ID(), e.Name)
	}
	return nil
}

// Collect fills scope from the top-level declarations of prog. Imports are
// recorded first so that exports may name bindings imported further down.
// Anonymous default-exported functions and classes are given a private name
// in place.
func Collect(prog *ast.Program, scope *Scope, alloc *hygiene.Allocator) (*Collection, error) {
	c := &Collection{Scope: scope, byName: make(map[string]int)}
	for i := range prog.Stmts {
		st := &prog.Stmts[i]
		declareTopLevel(scope, *st)
		if d, ok := st.Data.(*ast.SImport); ok {
			c.HasModuleSyntax = true
			scope.InsertImport(d)
		}
	}
	for i := range prog.Stmts {
		if err := c.collectExport(&prog.Stmts[i], alloc); err != nil {
			return nil, err
		}
	}
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection) collectExport(st *ast.Stmt, alloc *hygiene.Allocator) error {
	scope := c.Scope
	switch d := st.Data.(type) {
	case *ast.SExportDecl:
		c.HasModuleSyntax = true
		kind := ExportLocal
		if _, ok := d.Decl.Data.(*ast.SFunction); ok {
			kind = ExportFunction
		}
		for _, id := range ast.DeclBindings(d.Decl) {
			if err := c.add(Export{Name: id.Name, Kind: kind, Local: id, Span: id.Span}); err != nil {
				return err
			}
		}
	case *ast.SExportDefault:
		c.HasModuleSyntax = true
		if d.Decl.Data == nil {
			return c.add(Export{Name: "default", Kind: ExportValue, Span: st.Span})
		}
		switch decl := d.Decl.Data.(type) {
		case *ast.SFunction:
			if decl.Fn.Name == nil {
				id := ast.NewPrivateIdent(alloc, st.Span, "_default")
				decl.Fn.Name = &id
			}
			return c.add(Export{Name: "default", Kind: ExportFunction, Local: *decl.Fn.Name, Span: st.Span})
		case *ast.SClass:
			if decl.Class.Name == nil {
				id := ast.NewPrivateIdent(alloc, st.Span, "_default")
				decl.Class.Name = &id
			}
			return c.add(Export{Name: "default", Kind: ExportLocal, Local: *decl.Class.Name, Span: st.Span})
		default:
			return &UnsupportedError{Span: st.Span, Shape: fmt.Sprintf("export default of %T", decl)}
		}
	case *ast.SExportNamed:
		c.HasModuleSyntax = true
		if d.HasSource {
			scope.ImportToExport(d.Source, d.SourceSpan, len(d.Specifiers) > 0)
			hasNonDefault := false
			for _, spec := range d.Specifiers {
				scope.noteReExport(d.Source, spec.Local.Name, hasNonDefault)
				hasNonDefault = hasNonDefault || spec.Local.Name != "default"
				e := Export{Name: spec.Exported, Kind: ExportImport, Source: d.Source, Prop: spec.Local.Name, Span: spec.Span}
				if err := c.add(e); err != nil {
					return err
				}
			}
			return nil
		}
		for _, spec := range d.Specifiers {
			if err := c.exportLocal(spec); err != nil {
				return err
			}
		}
	case *ast.SExportAll:
		c.HasModuleSyntax = true
		scope.ImportToExport(d.Source, d.SourceSpan, true)
		if d.Alias != "" {
			scope.noteReExport(d.Source, "", false)
			return c.add(Export{Name: d.Alias, Kind: ExportImport, Source: d.Source, Span: st.Span})
		}
		scope.ForceEager(d.Source)
		c.ExportAll = append(c.ExportAll, d.Source)
	}
	return nil
}

func (c *Collection) exportLocal(spec ast.ExportSpecifier) error {
	if ref, ok := c.Scope.Lookup(spec.Local.ID()); ok {
		return c.add(Export{Name: spec.Exported, Kind: ExportImport, Source: ref.Source, Prop: ref.Prop, Span: spec.Span})
	}
	if spec.Local.Ctxt.IsRoot() {
		return &UnsupportedError{Span: spec.Span, Shape: fmt.Sprintf("export of undeclared binding %q", spec.Local.Name)}
	}
	// hoisted function declarations are exported from the prelude
	kind := ExportLocal
	if k, _ := c.Scope.Declared(spec.Local.ID()); k == DeclFunction {
		kind = ExportFunction
	}
	return c.add(Export{Name: spec.Exported, Kind: kind, Local: spec.Local, Span: spec.Span})
}

// noteReExport records the interop a re-export of prop from src needs, the
// same way an import of it would. hasNonDefault tells whether an earlier
// specifier of the same declaration named something other than default.
func (s *Scope) noteReExport(src, prop string, hasNonDefault bool) {
	switch prop {
	case "":
		if src != HelperModule {
			s.importKind[src] = true
		}
	case "default":
		if _, ok := s.importKind[src]; !ok {
			s.importKind[src] = hasNonDefault
		}
	default:
		if _, ok := s.importKind[src]; ok {
			s.importKind[src] = true
		}
	}
}

// declareTopLevel records the bindings a top-level statement declares,
// including var declarations nested in blocks.
func declareTopLevel(scope *Scope, st ast.Stmt) {
	switch d := st.Data.(type) {
	case *ast.SExportDecl:
		declareTopLevel(scope, d.Decl)
		return
	case *ast.SExportDefault:
		if d.Decl.Data != nil {
			declareTopLevel(scope, d.Decl)
		}
		return
	case *ast.SLocal:
		kind := DeclMutable
		if d.Kind == ast.LocalConst {
			kind = DeclConst
		}
		for _, id := range ast.DeclBindings(st) {
			scope.Declare(id, kind)
		}
		return
	case *ast.SFunction:
		for _, id := range ast.DeclBindings(st) {
			scope.Declare(id, DeclFunction)
		}
		return
	case *ast.SClass:
		for _, id := range ast.DeclBindings(st) {
			scope.Declare(id, DeclMutable)
		}
		return
	}
	w := ast.Walker{
		Stmt: func(s *ast.Stmt) bool {
			switch d := s.Data.(type) {
			case *ast.SLocal:
				if d.Kind == ast.LocalVar {
					for _, id := range ast.DeclBindings(*s) {
						scope.Declare(id, DeclMutable)
					}
				}
				return false
			case *ast.SFunction, *ast.SClass:
				return false
			}
			return true
		},
		Expr: func(*ast.Expr) bool { return false },
	}
	w.WalkStmt(&st)
}

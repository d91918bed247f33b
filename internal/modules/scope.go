package modules

import (
	"fmt"
	"slices"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/source"
)

// HelperModule is the specifier of the compiler's own runtime helpers.
// Namespace imports of it never ask for interop.
const HelperModule = "@lowerjs/helpers"

// ImportRef says where an imported binding reads from. Prop is empty for a
// namespace binding and "default" for a default import.
type ImportRef struct {
	Source string
	Prop   string
}

// Scope is the binding table of one module. It is filled by the collection
// phase and read by the rewriter and the output format stages.
type Scope struct {
	cfg   Config
	alloc *hygiene.Allocator

	// sources keeps specifiers in first-import order.
	sources []string
	// imports maps a specifier to its accessor; nil means side effects only.
	imports map[string]*ast.Ident
	// importKind: true asks for wildcard interop, false for default interop,
	// absent for none.
	importKind map[string]bool
	idents     map[ast.BindingID]ImportRef
	declared   map[ast.BindingID]declInfo
	exported   map[ast.BindingID][]string
	eager      map[string]struct{}
}

func NewScope(cfg Config, alloc *hygiene.Allocator) *Scope {
	return &Scope{
		cfg:        cfg,
		alloc:      alloc,
		imports:    make(map[string]*ast.Ident),
		importKind: make(map[string]bool),
		idents:     make(map[ast.BindingID]ImportRef),
		declared:   make(map[ast.BindingID]declInfo),
		exported:   make(map[ast.BindingID][]string),
		eager:      make(map[string]struct{}),
	}
}

func (s *Scope) Config() Config { return s.cfg }

func (s *Scope) entry(src string) (*ast.Ident, bool) {
	acc, ok := s.imports[src]
	if !ok {
		s.sources = append(s.sources, src)
		s.imports[src] = nil
	}
	return acc, ok
}

func (s *Scope) mint(src string, span source.Span) *ast.Ident {
	id := ast.NewPrivateIdent(s.alloc, span, LocalNameForSrc(src))
	s.imports[src] = &id
	return &id
}

// InsertImport records the bindings of one import declaration.
func (s *Scope) InsertImport(d *ast.SImport) {
	src := d.Source
	if len(d.Specifiers) == 0 {
		s.entry(src)
		return
	}
	if len(d.Specifiers) == 1 && d.Specifiers[0].Kind == ast.ImportNamespace {
		s.insertNamespace(src, d.Specifiers[0].Local)
		return
	}

	if acc, _ := s.entry(src); acc == nil {
		s.mint(src, d.SourceSpan)
	}
	hasNonDefault := false
	for _, spec := range d.Specifiers {
		switch spec.Kind {
		case ast.ImportNamespace:
			s.insertNamespace(src, spec.Local)
		case ast.ImportDefault:
			s.idents[spec.Local.ID()] = ImportRef{Source: src, Prop: "default"}
			if _, ok := s.importKind[src]; !ok {
				s.importKind[src] = false
			}
		case ast.ImportNamed:
			name := spec.ImportedName()
			s.idents[spec.Local.ID()] = ImportRef{Source: src, Prop: name}
			if name == "default" {
				if _, ok := s.importKind[src]; !ok {
					s.importKind[src] = hasNonDefault
				}
				continue
			}
			hasNonDefault = true
			// Named access only upgrades an interop request that exists.
			if _, ok := s.importKind[src]; ok {
				s.importKind[src] = true
			}
		}
	}
}

// insertNamespace binds local to the whole module. The user's alias
// replaces any accessor minted earlier for the same specifier.
func (s *Scope) insertNamespace(src string, local ast.Ident) {
	s.entry(src)
	s.idents[local.ID()] = ImportRef{Source: src}
	acc := local
	s.imports[src] = &acc
	if src != HelperModule {
		s.importKind[src] = true
	}
}

// ImportToExport records src as a re-export source. With ensure set it
// makes sure src has an accessor and returns it.
func (s *Scope) ImportToExport(src string, span source.Span, ensure bool) (ast.Ident, bool) {
	acc, _ := s.entry(src)
	if !ensure {
		return ast.Ident{}, false
	}
	if acc == nil {
		acc = s.mint(src, span)
	}
	return *acc, true
}

// Sources lists every imported specifier in first-import order.
func (s *Scope) Sources() []string { return s.sources }

// Accessor returns the accessor of src, if one was minted.
func (s *Scope) Accessor(src string) (ast.Ident, bool) {
	acc := s.imports[src]
	if acc == nil {
		return ast.Ident{}, false
	}
	return *acc, true
}

// ImportKind reports the interop src asks for: wildcard is true for
// namespace interop; ok is false when no interop is needed.
func (s *Scope) ImportKind(src string) (wildcard, ok bool) {
	wildcard, ok = s.importKind[src]
	return wildcard, ok
}

// Lookup returns the import a binding refers to.
func (s *Scope) Lookup(id ast.BindingID) (ImportRef, bool) {
	ref, ok := s.idents[id]
	return ref, ok
}

// IsLazy applies the lazy policy unless src was forced eager.
func (s *Scope) IsLazy(src string) bool {
	if _, ok := s.eager[src]; ok {
		return false
	}
	return s.cfg.Lazy.IsLazy(src)
}

// ForceEager keeps src out of the lazy policy. Wildcard re-export sources
// must have run before their keys are copied.
func (s *Scope) ForceEager(src string) {
	s.eager[src] = struct{}{}
}

// AccessSource builds the read of prop on src's accessor at span: _m.prop,
// _m().prop when lazy, or the bare accessor when prop is empty.
func (s *Scope) AccessSource(src, prop string, span source.Span) ast.Expr {
	acc := s.imports[src]
	if acc == nil {
		panic(fmt.Sprintf("modules: no accessor for %q", src))
	}
	id := *acc
	id.Span = span
	obj := ast.IdentExpr(id)
	if s.IsLazy(src) {
		obj = ast.Call(span, obj)
	}
	if prop == "" {
		return obj
	}
	return ast.Member(span, obj, prop)
}

// AccessExpr returns the replacement of a read of id, if id is imported.
func (s *Scope) AccessExpr(id ast.Ident) (ast.Expr, bool) {
	ref, ok := s.idents[id.ID()]
	if !ok {
		return ast.Expr{}, false
	}
	return s.AccessSource(ref.Source, ref.Prop, id.Span), true
}

// DeclKind says what kind of statement declared a top-level binding.
type DeclKind uint8

const (
	DeclConst DeclKind = iota
	// DeclMutable is a var, let or class binding.
	DeclMutable
	// DeclFunction is a hoisted function declaration.
	DeclFunction
)

type declInfo struct {
	span source.Span
	kind DeclKind
}

// Declare records a top-level declaration. The first declaration of a
// binding wins.
func (s *Scope) Declare(id ast.Ident, kind DeclKind) {
	if _, ok := s.declared[id.ID()]; !ok {
		s.declared[id.ID()] = declInfo{span: id.Span, kind: kind}
	}
}

// Declared returns how id was declared at the top level.
func (s *Scope) Declared(id ast.BindingID) (DeclKind, bool) {
	d, ok := s.declared[id]
	return d.kind, ok
}

// AddExport makes name an export kept live from local. Names are kept in
// the order they were added.
func (s *Scope) AddExport(local ast.BindingID, name string) {
	if slices.Contains(s.exported[local], name) {
		return
	}
	s.exported[local] = append(s.exported[local], name)
}

// Exported returns the export names bound to local.
func (s *Scope) Exported(local ast.BindingID) []string {
	return s.exported[local]
}

// HasExportedBindings reports whether any local is exported.
func (s *Scope) HasExportedBindings() bool { return len(s.exported) > 0 }

// Validate checks the table invariants: every imported binding reads from a
// specifier with an accessor, and no binding is both imported and declared.
func (s *Scope) Validate() error {
	ids := make([]ast.BindingID, 0, len(s.idents))
	for id := range s.idents {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareBinding)
	for _, id := range ids {
		ref := s.idents[id]
		if s.imports[ref.Source] == nil {
			return fmt.Errorf("modules: binding %s reads from %q, which has no accessor", id, ref.Source)
		}
		if d, ok := s.declared[id]; ok {
			return &UnsupportedError{Span: d.span, Shape: fmt.Sprintf("redeclaration of imported binding %q", id.Name)}
		}
		if _, ok := s.exported[id]; ok {
			return fmt.Errorf("modules: imported binding %s is recorded as an exported local", id)
		}
	}
	return nil
}

func compareBinding(a, b ast.BindingID) int {
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	return int(a.Ctxt) - int(b.Ctxt)
}

// Package rename gives every binding of a lowered module its final spelling.
//
// Identity in the tree is (Name, Ctxt); printed source only has the name. The
// renamer makes the two agree:
//   - names with the root context are globals and are never changed;
//   - user bindings (contexts below the module context) keep their spelling
//     unless a global of the same name is referenced somewhere in the module,
//     in which case the binding could capture it;
//   - every other binding is private to the compiler and gets a spelling no
//     other binding or global in the module uses, by appending 1, 2, ...
//
// Different user bindings may share a spelling: they were correctly scoped in
// the input and no rewrite moves a user binding to another scope.
package rename

import (
	"strconv"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/token"
)

type Options struct {
	// Alloc is the allocator that minted the contexts of the module.
	Alloc *hygiene.Allocator
	// Module is the resolver's module context. With Root every non-root
	// binding counts as a user binding.
	Module hygiene.Ctxt
	// Scoped lists further contexts whose bindings are correctly scoped
	// already and keep their spelling like user bindings, e.g. the module
	// context of parsed runtime helpers.
	Scoped []hygiene.Ctxt
	// Reserved names are treated like referenced globals.
	Reserved []string
}

func (o Options) isUser(c hygiene.Ctxt) bool {
	if o.Module.IsRoot() || o.Alloc.IsDescendant(c, o.Module) {
		return true
	}
	for _, s := range o.Scoped {
		if o.Alloc.IsDescendant(c, s) {
			return true
		}
	}
	return false
}

// Result maps every binding whose spelling changed to its new name.
type Result struct {
	Renamed map[ast.BindingID]string
}

type binding struct {
	id   ast.BindingID
	user bool
}

// Rename rewrites identifier names in place.
func Rename(prog *ast.Program, opts Options) Result {
	taken := make(map[string]struct{})
	for _, name := range opts.Reserved {
		taken[name] = struct{}{}
	}

	var order []binding
	seen := make(map[ast.BindingID]bool)
	collect := ast.Walker{Ident: func(id *ast.Ident) {
		if id.Ctxt.IsRoot() {
			taken[id.Name] = struct{}{}
			return
		}
		key := id.ID()
		if seen[key] {
			return
		}
		seen[key] = true
		order = append(order, binding{id: key, user: opts.isUser(id.Ctxt)})
	}}
	collect.Program(prog)

	globals := make(map[string]struct{}, len(taken))
	for name := range taken {
		globals[name] = struct{}{}
	}

	final := make(map[ast.BindingID]string, len(order))
	// User spellings that do not shadow a global are kept and reserved first,
	// so a private name never takes a user's spelling.
	for _, b := range order {
		if !b.user {
			continue
		}
		if _, clash := globals[b.id.Name]; clash {
			continue
		}
		final[b.id] = b.id.Name
		taken[b.id.Name] = struct{}{}
	}
	renamed := make(map[ast.BindingID]string)
	for _, b := range order {
		if _, done := final[b.id]; done {
			continue
		}
		name := fresh(b.id.Name, taken)
		taken[name] = struct{}{}
		final[b.id] = name
		if name != b.id.Name {
			renamed[b.id] = name
		}
	}

	if len(renamed) > 0 {
		apply := ast.Walker{Ident: func(id *ast.Ident) {
			if name, ok := renamed[id.ID()]; ok {
				id.Name = name
			}
		}}
		apply.Program(prog)
	}
	return Result{Renamed: renamed}
}

func fresh(base string, taken map[string]struct{}) string {
	if _, used := taken[base]; !used && !token.IsReserved(base) {
		return base
	}
	for n := 1; ; n++ {
		name := base + strconv.Itoa(n)
		if _, used := taken[name]; !used {
			return name
		}
	}
}

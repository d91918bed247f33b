// Package helpers loads the interop helper functions that lowered modules
// call, as syntax trees ready to be spliced into a module body.
//
// The helpers are plain JavaScript embedded in the binary. Load parses the
// requested ones, resolves them with the caller's allocator and binds each
// helper's function name to the identifier the caller minted for it, so that
// calls emitted before the helpers were loaded refer to them.
package helpers

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/parser"
	"lowerjs/internal/resolver"
	"lowerjs/internal/source"
	runtimeembed "lowerjs/runtime"
)

const (
	InteropRequireDefault   = "interopRequireDefault"
	InteropRequireWildcard  = "interopRequireWildcard"
	GetRequireWildcardCache = "getRequireWildcardCache"
)

// order is the emission order; helpers are function declarations so it only
// matters for stable output.
var order = []string{InteropRequireDefault, GetRequireWildcardCache, InteropRequireWildcard}

var deps = map[string][]string{
	InteropRequireWildcard: {GetRequireWildcardCache},
}

var (
	loadOnce sync.Once
	sources  map[string][]byte
	loadErr  error
)

func readSources() (map[string][]byte, error) {
	loadOnce.Do(func() {
		fsys := runtimeembed.HelpersFS()
		paths, err := fs.Glob(fsys, "helpers/*.js")
		if err != nil {
			loadErr = err
			return
		}
		sources = make(map[string][]byte, len(paths))
		for _, p := range paths {
			b, err := fs.ReadFile(fsys, p)
			if err != nil {
				loadErr = fmt.Errorf("read helper %s: %w", p, err)
				return
			}
			name := strings.TrimSuffix(p[strings.LastIndexByte(p, '/')+1:], ".js")
			sources[name] = b
		}
	})
	return sources, loadErr
}

// Names lists the embedded helpers, sorted.
func Names() []string {
	src, err := readSources()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(src))
	for name := range src {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Closure returns names together with the helpers they call, in emission
// order.
func Closure(names ...string) []string {
	want := make(map[string]bool, len(names))
	var visit func(string)
	visit = func(n string) {
		if want[n] {
			return
		}
		want[n] = true
		for _, d := range deps[n] {
			visit(d)
		}
	}
	for _, n := range names {
		visit(n)
	}
	out := make([]string, 0, len(want))
	for _, n := range order {
		if want[n] {
			out = append(out, n)
			delete(want, n)
		}
	}
	// unknown names stay last so Load can report them
	rest := make([]string, 0, len(want))
	for n := range want {
		rest = append(rest, n)
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// Load returns the declarations of the helpers named by the keys of bind and
// of the helpers they depend on, together with the context the helper
// sources were resolved under. Each helper's function name, wherever it
// occurs, is replaced by bind[name]; dependencies not in bind get a private
// identifier of their own. Bindings local to the helpers lie below the
// returned context and are scoped correctly, so the renamer may keep their
// spelling.
func Load(alloc *hygiene.Allocator, bind map[string]ast.Ident) ([]ast.Stmt, hygiene.Ctxt, error) {
	if len(bind) == 0 {
		return nil, hygiene.Root, nil
	}
	src, err := readSources()
	if err != nil {
		return nil, hygiene.Root, err
	}
	names := make([]string, 0, len(bind))
	for n := range bind {
		names = append(names, n)
	}

	var text strings.Builder
	rebind := make(map[string]ast.Ident, len(bind))
	for _, n := range Closure(names...) {
		b, ok := src[n]
		if !ok {
			return nil, hygiene.Root, fmt.Errorf("unknown helper %q", n)
		}
		text.Write(b)
		text.WriteByte('\n')
		id, ok := bind[n]
		if !ok {
			id = ast.NewPrivateIdent(alloc, source.NoSpan, "_"+n)
		}
		rebind["_"+n] = id
	}

	fset := source.NewFileSet()
	file := fset.Get(fset.AddVirtual("lowerjs:helpers.js", []byte(text.String())))
	bag := diag.NewBag(16)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		return nil, hygiene.Root, errors.New("helpers: " + diag.FormatShort(bag.Items(), fset, false))
	}
	prog := res.Program
	module := resolver.Resolve(prog, alloc).Module

	w := ast.Walker{Ident: func(id *ast.Ident) {
		if id.Ctxt != module {
			return
		}
		if to, ok := rebind[id.Name]; ok {
			span := id.Span
			*id = to
			id.Span = span
		}
	}}
	w.Program(prog)
	return prog.Stmts, module, nil
}

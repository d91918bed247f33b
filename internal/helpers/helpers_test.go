package helpers_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/ast"
	"lowerjs/internal/helpers"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/printer"
	"lowerjs/internal/source"
)

func TestNames(t *testing.T) {
	want := []string{"getRequireWildcardCache", "interopRequireDefault", "interopRequireWildcard"}
	if diff := cmp.Diff(want, helpers.Names()); diff != "" {
		t.Errorf("helpers mismatch (-want +got):\n%s", diff)
	}
}

func TestClosure(t *testing.T) {
	got := helpers.Closure(helpers.InteropRequireWildcard, helpers.InteropRequireDefault)
	want := []string{"interopRequireDefault", "getRequireWildcardCache", "interopRequireWildcard"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closure mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBindsNames(t *testing.T) {
	alloc := hygiene.NewAllocator()
	wildcard := ast.NewPrivateIdent(alloc, source.NoSpan, "_interopRequireWildcard")
	stmts, module, err := helpers.Load(alloc, map[string]ast.Ident{helpers.InteropRequireWildcard: wildcard})
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(stmts))
	}
	fn, ok := stmts[1].Data.(*ast.SFunction)
	if !ok || fn.Fn.Name == nil {
		t.Fatalf("second statement is %T", stmts[1].Data)
	}
	if fn.Fn.Name.ID() != wildcard.ID() {
		t.Errorf("helper name %v, want %v", fn.Fn.Name.ID(), wildcard.ID())
	}

	// the cache helper gets a private context, shared by all its uses;
	// locals of the helpers lie below the returned module context
	var cache []ast.BindingID
	w := ast.Walker{Ident: func(id *ast.Ident) {
		switch {
		case id.Name == "_getRequireWildcardCache":
			cache = append(cache, id.ID())
		case id.Name == "obj" && !alloc.IsDescendant(id.Ctxt, module):
			t.Errorf("helper parameter %v is not below %v", id.ID(), module)
		}
	}}
	w.Stmts(stmts)
	if len(cache) < 3 {
		t.Fatalf("expected declaration, self-assignment and call, got %v", cache)
	}
	for _, id := range cache {
		if id != cache[0] || id.Ctxt.IsRoot() || alloc.IsDescendant(id.Ctxt, module) {
			t.Errorf("cache helper occurrences differ: %v", cache)
			break
		}
	}
}

func TestLoadPrints(t *testing.T) {
	alloc := hygiene.NewAllocator()
	def := ast.NewPrivateIdent(alloc, source.NoSpan, "_interopRequireDefault")
	stmts, _, err := helpers.Load(alloc, map[string]ast.Ident{helpers.InteropRequireDefault: def})
	if err != nil {
		t.Fatal(err)
	}
	out := printer.Print(&ast.Program{Stmts: stmts}, printer.Options{})
	if !strings.Contains(out, "function _interopRequireDefault(obj)") || !strings.Contains(out, "default: obj") {
		t.Errorf("unexpected helper output:\n%s", out)
	}
}

func TestLoadUnknown(t *testing.T) {
	alloc := hygiene.NewAllocator()
	_, _, err := helpers.Load(alloc, map[string]ast.Ident{"nope": ast.NewPrivateIdent(alloc, source.NoSpan, "_nope")})
	if err == nil || !strings.Contains(err.Error(), `unknown helper "nope"`) {
		t.Errorf("expected unknown helper error, got %v", err)
	}
}

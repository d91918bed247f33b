package resolver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/resolver"
	"lowerjs/internal/testkit"
)

// occurrences returns the contexts of every occurrence of name, in walk order.
func occurrences(prog *ast.Program, name string) []hygiene.Ctxt {
	var out []hygiene.Ctxt
	w := ast.Walker{Ident: func(id *ast.Ident) {
		if id.Name == name {
			out = append(out, id.Ctxt)
		}
	}}
	w.Program(prog)
	return out
}

func resolve(t *testing.T, src string) (*ast.Program, resolver.Result, *hygiene.Allocator) {
	t.Helper()
	prog, _ := testkit.Parse(t, "test.js", src)
	alloc := hygiene.NewAllocator()
	return prog, resolver.Resolve(prog, alloc), alloc
}

func allSame(cs []hygiene.Ctxt) bool {
	for _, c := range cs {
		if c != cs[0] {
			return false
		}
	}
	return len(cs) > 0
}

func TestResolveModuleBindings(t *testing.T) {
	prog, res, _ := resolve(t, `
import { a } from "./m";
export let b = a;
function f() { return a + b + g; }
`)
	for _, name := range []string{"a", "b", "f"} {
		cs := occurrences(prog, name)
		if !allSame(cs) || cs[0] != res.Module {
			t.Errorf("%s: contexts %v, want all %v", name, cs, res.Module)
		}
	}
	if diff := cmp.Diff([]string{"g"}, res.Globals); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
	if g := occurrences(prog, "g"); !g[0].IsRoot() {
		t.Errorf("global g resolved to %v", g[0])
	}
}

func TestResolveShadowing(t *testing.T) {
	prog, res, alloc := resolve(t, `
let x = 1;
function f(x) { return x; }
{ let x = 2; x; }
x;
`)
	cs := occurrences(prog, "x")
	// let x, param x, return x, block let x, block ref, module ref
	if len(cs) != 6 {
		t.Fatalf("expected 6 occurrences, got %v", cs)
	}
	if cs[0] != res.Module || cs[5] != res.Module {
		t.Errorf("module x resolved to %v and %v", cs[0], cs[5])
	}
	if cs[1] != cs[2] || cs[1] == res.Module {
		t.Errorf("parameter x: %v %v", cs[1], cs[2])
	}
	if cs[3] != cs[4] || cs[3] == res.Module || cs[3] == cs[1] {
		t.Errorf("block x: %v %v", cs[3], cs[4])
	}
	for _, c := range cs {
		if !alloc.IsDescendant(c, res.Module) {
			t.Errorf("context %v is not below the module context", c)
		}
	}
}

func TestResolveVarHoisting(t *testing.T) {
	prog, res, _ := resolve(t, `
function f() {
  if (c) { for (var i = 0; i < 2; i++) { var y = i; } }
  return y + i;
}
`)
	ys := occurrences(prog, "y")
	is := occurrences(prog, "i")
	if !allSame(ys) || ys[0] == res.Module || ys[0].IsRoot() {
		t.Errorf("y contexts %v", ys)
	}
	if !allSame(is) || is[0] != ys[0] {
		t.Errorf("i contexts %v, want all %v", is, ys[0])
	}
}

func TestResolveFunctionExpressionName(t *testing.T) {
	prog, res, _ := resolve(t, `
const g = function fact(n) { return n ? fact(n - 1) : 1; };
fact;
`)
	cs := occurrences(prog, "fact")
	if len(cs) != 3 {
		t.Fatalf("occurrences %v", cs)
	}
	if cs[0] != cs[1] || cs[0].IsRoot() {
		t.Errorf("inner name %v %v", cs[0], cs[1])
	}
	if !cs[2].IsRoot() {
		t.Errorf("outer reference resolved to %v", cs[2])
	}
	if diff := cmp.Diff([]string{"fact"}, res.Globals); diff != "" {
		t.Errorf("globals (-want +got):\n%s", diff)
	}
}

func TestResolveCatchAndLoops(t *testing.T) {
	prog, _, _ := resolve(t, `
try { f(); } catch ({ message: e }) { e; }
for (const k of ks) k;
for (let j = 0; j < 1; j++) j;
`)
	for _, name := range []string{"e", "k", "j"} {
		cs := occurrences(prog, name)
		if !allSame(cs) || cs[0].IsRoot() {
			t.Errorf("%s contexts %v", name, cs)
		}
	}
}

func TestResolveLeavesSynthesizedIdents(t *testing.T) {
	prog, _ := testkit.Parse(t, "test.js", `let a = 1;`)
	alloc := hygiene.NewAllocator()
	private := ast.NewPrivateIdent(alloc, prog.Stmts[0].Span, "a")
	prog.Stmts = append(prog.Stmts, ast.ExprStmt(ast.IdentExpr(private)))
	resolver.Resolve(prog, alloc)
	cs := occurrences(prog, "a")
	if cs[1] != private.Ctxt {
		t.Errorf("synthesized identifier was re-resolved to %v", cs[1])
	}
	if cs[0] == private.Ctxt {
		t.Errorf("user binding captured the synthesized context")
	}
}

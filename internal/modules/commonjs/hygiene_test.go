package commonjs_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"lowerjs/internal/ast"
	"lowerjs/internal/modules"
	"lowerjs/internal/modules/commonjs"
	"lowerjs/internal/printer"
	"lowerjs/internal/testkit"
)

// adversarial spellings: accessor names of the sources below, names of
// helpers and generated locals, and the globals lowered code relies on.
var adversarial = []string{
	"_m", "_m1", "_m2", "_lib", "_lib1", "_star", "_exports", "_require",
	"exports", "require", "module", "define", "Object", "Error", "WeakMap",
	"_interopRequireDefault", "_interopRequireWildcard", "_getRequireWildcardCache",
	"_exportNames", "_tmp", "_tmp1", "_default", "key", "data", "obj", "cache",
	"desc", "newObj", "_", "m", "resolve",
}

var hygieneSources = []string{"./m", "m", "./lib", "lib", "./exports", "./require"}

type hygieneCase struct {
	src  string
	deps map[string]string
	want map[string]testkit.Value
	// user lists every spelling the input declares, except namespace
	// aliases, which become the accessor of their module.
	user map[string]bool
}

func genHygieneCase(rng *rand.Rand) hygieneCase {
	c := hygieneCase{
		deps: make(map[string]string),
		want: make(map[string]testkit.Value),
		user: make(map[string]bool),
	}
	pool := rng.Perm(len(adversarial))
	take := func() string {
		name := adversarial[pool[0]]
		pool = pool[1:]
		return name
	}
	var b strings.Builder

	type importRead struct {
		local, expr, src string
	}
	var reads []importRead
	imported := make(map[string]bool)
	srcs := rng.Perm(len(hygieneSources))[:1+rng.IntN(3)]
	for _, si := range srcs {
		src := hygieneSources[si]
		c.deps[src] = fmt.Sprintf("exports.v = %q;", src)
		local := take()
		imported[local] = true
		switch rng.IntN(3) {
		case 0:
			fmt.Fprintf(&b, "import { v as %s } from %q;\n", local, src)
			reads = append(reads, importRead{local, local, src})
			c.user[local] = true
		case 1:
			fmt.Fprintf(&b, "import %s from %q;\n", local, src)
			reads = append(reads, importRead{local, local + ".v", src})
			c.user[local] = true
		default:
			fmt.Fprintf(&b, "import * as %s from %q;\n", local, src)
			reads = append(reads, importRead{local, local + ".v", src})
		}
	}
	if rng.IntN(3) == 0 {
		c.deps["./star"] = `exports.v = "./star"; exports.w = "w";`
		b.WriteString("export * from \"./star\";\n")
		c.want["v"] = "./star"
		c.want["w"] = "w"
	}

	for i := 0; i < 1+rng.IntN(3) && len(pool) > 4; i++ {
		name := take()
		c.user[name] = true
		fmt.Fprintf(&b, "const %s = %q;\nexport const u%d = %s;\n", name, name, i, name)
		c.want[fmt.Sprintf("u%d", i)] = name
	}

	// nested bindings may reuse any spelling that does not shadow an import
	var inner []string
	for _, name := range adversarial {
		if !imported[name] {
			inner = append(inner, name)
		}
	}
	for i, r := range reads {
		c.deps[r.src] = fmt.Sprintf("exports.v = %q;", r.src)
		perm := rng.Perm(len(inner))
		param, local := inner[perm[0]], inner[perm[1]]
		c.user[param], c.user[local] = true, true
		fmt.Fprintf(&b, "function f%d(%s) { const %s = \"s\"; return %s + %s + %s; }\n", i, param, local, local, param, r.expr)
		fmt.Fprintf(&b, "export const r%d = f%d(\"p\");\n", i, i)
		c.want[fmt.Sprintf("r%d", i)] = "sp" + r.src
	}

	if rng.IntN(2) == 0 {
		name := take()
		c.user[name] = true
		fmt.Fprintf(&b, "export let count = 0;\nconst %s = () => count++;\nexport const post = %s();\n", name, name)
		c.want["count"] = 1.0
		c.want["post"] = 0.0
	}
	c.src = b.String()
	return c
}

func TestHygieneRandomModules(t *testing.T) {
	n := 10000
	if testing.Short() {
		n = 500
	}
	rng := rand.New(rand.NewPCG(0x6c6f776572, 0x6a73))
	for i := 0; i < n; i++ {
		c := genHygieneCase(rng)
		if !checkHygieneCase(t, c) {
			t.Fatalf("case %d failed; input:\n%s", i, c.src)
		}
	}
}

func checkHygieneCase(t *testing.T, c hygieneCase) bool {
	t.Helper()
	prog, _ := testkit.Parse(t, "main.js", c.src)
	out, err := commonjs.Transform(prog, commonjs.Options{Config: modules.DefaultConfig()})
	if err != nil {
		t.Errorf("Transform: %v", err)
		return false
	}

	ok := true
	declared := make(map[string]bool)
	for _, st := range out.Stmts {
		for _, id := range ast.DeclBindings(st) {
			if declared[id.Name] {
				t.Errorf("top-level %q declared twice", id.Name)
				ok = false
			}
			declared[id.Name] = true
		}
	}
	// import locals are rewritten away, so a generated binding may reuse
	// their spelling
	input := make(map[string]bool)
	for _, st := range prog.Stmts {
		if imp, isImport := st.Data.(*ast.SImport); isImport {
			for _, spec := range imp.Specifiers {
				input[spec.Local.Name] = true
			}
			continue
		}
		if ed, isExport := st.Data.(*ast.SExportDecl); isExport {
			st = ed.Decl
		}
		for _, id := range ast.DeclBindings(st) {
			input[id.Name] = true
		}
	}
	for name := range declared {
		if !input[name] && c.user[name] {
			t.Errorf("generated binding %q reuses a user spelling", name)
			ok = false
		}
	}

	code := printer.Print(out, printer.Options{})
	in := testkit.NewInterp()
	for spec, src := range c.deps {
		in.AddModule(spec, src)
	}
	exports, err := in.Run("main.js", code)
	if err != nil {
		t.Errorf("run: %v\n%s", err, code)
		return false
	}
	for key, want := range c.want {
		got, err := in.Get(exports, key)
		if err != nil || got != want {
			t.Errorf("exports.%s = %v (%v), want %v\n%s", key, got, err, want, code)
			ok = false
		}
	}
	return ok
}

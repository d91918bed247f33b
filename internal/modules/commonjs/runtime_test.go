package commonjs_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/modules"
	"lowerjs/internal/testkit"
)

// execute lowers src, registers deps as CommonJS modules and runs the
// result as main.js.
func execute(t *testing.T, cfg modules.Config, src string, deps map[string]string) (*testkit.Interp, testkit.Value) {
	t.Helper()
	out := lower(t, cfg, src)
	in := testkit.NewInterp()
	for spec, code := range deps {
		in.AddModule(spec, code)
	}
	exports, err := in.Run("main.js", out)
	if err != nil {
		t.Fatalf("run lowered module: %v\n%s", err, out)
	}
	return in, exports
}

func read(t *testing.T, in *testkit.Interp, v testkit.Value, key string) testkit.Value {
	t.Helper()
	out, err := in.Get(v, key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return out
}

func callExport(t *testing.T, in *testkit.Interp, exports testkit.Value, name string, args ...testkit.Value) (testkit.Value, error) {
	t.Helper()
	return in.Call(read(t, in, exports, name), testkit.Undefined, args...)
}

func TestRuntimeEndToEnd(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(),
		`import { a } from "./m"; export let a2 = a; a2++;`,
		map[string]string{"./m": `exports.a = 1;`})
	if got := read(t, in, exports, "a2"); got != 2.0 {
		t.Errorf("exports.a2 = %v, want 2", got)
	}
	if got := read(t, in, exports, "__esModule"); got != true {
		t.Errorf("__esModule = %v", got)
	}
}

func TestRuntimeLiveExport(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(), `
		export let n = 0;
		export function inc() { n++; }
		export function reset(v) { n = v; }
		export function both() { [n] = [n + 10]; }
	`, nil)
	var seen []testkit.Value
	seen = append(seen, read(t, in, exports, "n"))
	for _, step := range []struct {
		fn   string
		args []testkit.Value
	}{
		{"inc", nil},
		{"inc", nil},
		{"reset", []testkit.Value{5.0}},
		{"both", nil},
	} {
		if _, err := callExport(t, in, exports, step.fn, step.args...); err != nil {
			t.Fatalf("%s: %v", step.fn, err)
		}
		seen = append(seen, read(t, in, exports, "n"))
	}
	want := []testkit.Value{0.0, 1.0, 2.0, 5.0, 15.0}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("export values (-want +got):\n%s", diff)
	}
}

func TestRuntimeExportListFunction(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(), `
		export { f, f as g, y as z };
		export const early = typeof f;
		function f() { return 7; }
		var y = 1;
	`, nil)
	for _, name := range []string{"f", "g"} {
		got, err := callExport(t, in, exports, name)
		if err != nil || got != 7.0 {
			t.Errorf("%s() = %v, %v; want 7", name, got, err)
		}
	}
	if got := read(t, in, exports, "z"); got != 1.0 {
		t.Errorf("z = %v, want 1", got)
	}
	if got := read(t, in, exports, "early"); got != "function" {
		t.Errorf("early = %v, want the hoisted function", got)
	}
}

func TestRuntimeLiveReExport(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(),
		`export { v, inc as bump } from "./m";`,
		map[string]string{"./m": `exports.v = 1; exports.inc = function () { exports.v++; };`})
	if _, err := callExport(t, in, exports, "bump"); err != nil {
		t.Fatal(err)
	}
	if got := read(t, in, exports, "v"); got != 2.0 {
		t.Errorf("re-exported v = %v, want 2", got)
	}
}

func TestRuntimeReadOnly(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"assign", `a = (hits++, 5);`},
		{"compound", `a += (hits++, 1);`},
		{"update", `hits++; a++;`},
		{"destructuring", `[hits, a] = [1, 2];`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `import { a } from "./m"; export let hits = 0; export function write() { ` + tt.body + ` }`
			in, exports := execute(t, modules.DefaultConfig(), src, map[string]string{"./m": `exports.a = 1;`})
			_, err := callExport(t, in, exports, "write")
			var thrown *testkit.Thrown
			if !errors.As(err, &thrown) {
				t.Fatalf("write did not throw: %v", err)
			}
			if got := thrown.Message(); got != `"a" is read-only.` {
				t.Errorf("message = %q", got)
			}
			m, err := in.Require("./m")
			if err != nil {
				t.Fatal(err)
			}
			if got := read(t, in, m, "a"); got != 1.0 {
				t.Errorf("imported module changed: a = %v", got)
			}
		})
	}
}

func TestRuntimeReadOnlyEvaluatesValue(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(),
		`import { a } from "./m"; export let hits = 0; export function write() { a = (hits = hits + 1); }`,
		map[string]string{"./m": `exports.a = 1;`})
	if _, err := callExport(t, in, exports, "write"); err == nil {
		t.Fatal("write did not throw")
	}
	if got := read(t, in, exports, "hits"); got != 1.0 {
		t.Errorf("right-hand side ran %v times, want once", got)
	}
}

func TestRuntimeReadOnlyDestructuringAssignsNothing(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(),
		`import { a } from "./m"; export let hits = 0; export let b = 0; export function write() { [b, a] = [(hits = hits + 1), 2]; }`,
		map[string]string{"./m": `exports.a = 1;`})
	if _, err := callExport(t, in, exports, "write"); err == nil {
		t.Fatal("write did not throw")
	}
	if got := read(t, in, exports, "hits"); got != 1.0 {
		t.Errorf("right-hand side ran %v times, want once", got)
	}
	if got := read(t, in, exports, "b"); got != 0.0 {
		t.Errorf("b = %v, want no partial assignment", got)
	}
}

func TestRuntimeLazyRequire(t *testing.T) {
	deps := map[string]string{
		"lib":   `exports.f = function () { return 42; };`,
		"./rel": `exports.g = 1;`,
	}
	src := `import { f } from "lib"; import { g } from "./rel"; export function run() { return f() + g; }`

	cfg := modules.DefaultConfig()
	cfg.Lazy = modules.Lazy{All: true}
	in, exports := execute(t, cfg, src, deps)
	if diff := cmp.Diff([]string{"./rel"}, in.Loaded()); diff != "" {
		t.Errorf("loaded before first use (-want +got):\n%s", diff)
	}
	got, err := callExport(t, in, exports, "run")
	if err != nil || got != 43.0 {
		t.Fatalf("run() = %v, %v", got, err)
	}
	if diff := cmp.Diff([]string{"./rel", "lib"}, in.Loaded()); diff != "" {
		t.Errorf("loaded after use (-want +got):\n%s", diff)
	}

	in, _ = execute(t, modules.DefaultConfig(), src, deps)
	if diff := cmp.Diff([]string{"lib", "./rel"}, in.Loaded()); diff != "" {
		t.Errorf("eager load order (-want +got):\n%s", diff)
	}
}

func TestRuntimeExportAll(t *testing.T) {
	in, exports := execute(t, modules.DefaultConfig(),
		`export * from "./other"; export const x = "mine";`,
		map[string]string{"./other": `
			exports.x = "theirs";
			exports.y = "y";
			exports.default = "d";
			exports.setY = function (v) { exports.y = v; };
		`})
	if got := read(t, in, exports, "x"); got != "mine" {
		t.Errorf("x = %v, want the explicit export", got)
	}
	if _, err := callExport(t, in, exports, "setY", "z"); err != nil {
		t.Fatal(err)
	}
	if got := read(t, in, exports, "y"); got != "z" {
		t.Errorf("y = %v, want the live value", got)
	}
	obj, ok := exports.(*testkit.Object)
	if !ok {
		t.Fatalf("exports is %T", exports)
	}
	for _, k := range obj.Keys() {
		if k == "default" {
			t.Errorf("default was re-exported: keys %v", obj.Keys())
		}
	}
}

func TestRuntimeInterop(t *testing.T) {
	deps := map[string]string{
		"./cjs": `module.exports = { a: 1, b: 2 };`,
		"./esm": `Object.defineProperty(exports, "__esModule", { value: true }); exports.default = 3; exports.a = 4;`,
		"./fn":  `"use strict"; module.exports = function () { return this === undefined; };`,
	}
	in, exports := execute(t, modules.DefaultConfig(), `
		import cjs from "./cjs";
		import esm, { a } from "./esm";
		import * as ns from "./cjs";
		import call from "./fn";
		export const fromCjs = cjs.b;
		export const fromEsm = esm + a;
		export const keys = Object.keys(ns).join(",");
		export const same = ns.default === cjs;
		export const unbound = call();
		export const top = typeof this;
	`, deps)
	want := map[string]testkit.Value{
		"fromCjs": 2.0,
		"fromEsm": 7.0,
		"keys":    "a,b,default",
		"same":    true,
		"unbound": true,
		"top":     "undefined",
	}
	for k, v := range want {
		if got := read(t, in, exports, k); got != v {
			t.Errorf("exports.%s = %v, want %v", k, got, v)
		}
	}
}

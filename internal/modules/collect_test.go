package modules_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/hygiene"
	"lowerjs/internal/modules"
	"lowerjs/internal/resolver"
	"lowerjs/internal/testkit"
)

func TestCollectExports(t *testing.T) {
	col, _ := collect(t, modules.DefaultConfig(), `
import { a } from "./a";
import * as ns from "./ns";
export let x = 1, y;
export function f() {}
export class C {}
export { a as reA, ns };
export { b as reB, default as reD } from "./b";
export * as all from "./c";
export * from "./d";
export default 1;
`)
	want := []struct {
		name string
		kind modules.ExportKind
		src  string
		prop string
	}{
		{"x", modules.ExportLocal, "", ""},
		{"y", modules.ExportLocal, "", ""},
		{"f", modules.ExportFunction, "", ""},
		{"C", modules.ExportLocal, "", ""},
		{"reA", modules.ExportImport, "./a", "a"},
		{"ns", modules.ExportImport, "./ns", ""},
		{"reB", modules.ExportImport, "./b", "b"},
		{"reD", modules.ExportImport, "./b", "default"},
		{"all", modules.ExportImport, "./c", ""},
		{"default", modules.ExportValue, "", ""},
	}
	if len(col.Exports) != len(want) {
		t.Fatalf("exports %v, want %d entries", col.ExportNames(), len(want))
	}
	for i, w := range want {
		got := col.Exports[i]
		if got.Name != w.name || got.Kind != w.kind || got.Source != w.src || got.Prop != w.prop {
			t.Errorf("export #%d = %s %s %q %q, want %s %s %q %q", i, got.Name, got.Kind, got.Source, got.Prop, w.name, w.kind, w.src, w.prop)
		}
	}
	if diff := cmp.Diff([]string{"./d"}, col.ExportAll); diff != "" {
		t.Errorf("export all mismatch (-want +got):\n%s", diff)
	}
	if !col.HasModuleSyntax {
		t.Errorf("HasModuleSyntax is false")
	}
	if e, ok := col.Export("f"); !ok || e.Local.Name != "f" {
		t.Errorf("Export(f) = %v, %v", e, ok)
	}
	if w, ok := col.Scope.ImportKind("./b"); !ok || !w {
		t.Errorf("mixed default and named re-export should ask for wildcard interop")
	}
	if w, ok := col.Scope.ImportKind("./c"); !ok || !w {
		t.Errorf("export * as should ask for wildcard interop")
	}
}

func TestCollectExportListKinds(t *testing.T) {
	col, _ := collect(t, modules.DefaultConfig(), `export { f, f as g, y as z, K }; function f() {} var y = 1; class K {}`)
	want := map[string]modules.ExportKind{
		"f": modules.ExportFunction,
		"g": modules.ExportFunction,
		"z": modules.ExportLocal,
		"K": modules.ExportLocal,
	}
	for name, kind := range want {
		e, ok := col.Export(name)
		if !ok || e.Kind != kind {
			t.Errorf("Export(%s) = %s, %v; want %s", name, e.Kind, ok, kind)
		}
	}
}

func TestCollectScript(t *testing.T) {
	col, _ := collect(t, modules.DefaultConfig(), `var a = 1; a++;`)
	if col.HasModuleSyntax || len(col.Exports) != 0 {
		t.Errorf("script collected as a module: %v", col.ExportNames())
	}
}

func TestCollectErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`export { nope };`, `export of undeclared binding "nope"`},
		{`export const a = 1; export { a };`, `duplicate export "a"`},
		{`export default 1; export default 2;`, `duplicate export "default"`},
		{`import { a } from "x"; var a;`, `redeclaration of imported binding "a"`},
	}
	for _, tt := range tests {
		prog, _ := testkit.Parse(t, "test.js", tt.src)
		alloc := hygiene.NewAllocator()
		resolver.Resolve(prog, alloc)
		_, err := modules.Collect(prog, modules.NewScope(modules.DefaultConfig(), alloc), alloc)
		var unsupported *modules.UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Errorf("Collect(%q) = %v, want an UnsupportedError", tt.src, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Collect(%q) = %q, want it to mention %q", tt.src, err, tt.want)
		}
	}
}

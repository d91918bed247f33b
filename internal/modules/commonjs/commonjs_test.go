package commonjs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/modules"
	"lowerjs/internal/modules/commonjs"
	"lowerjs/internal/printer"
	"lowerjs/internal/testkit"
)

func lower(t *testing.T, cfg modules.Config, src string) string {
	t.Helper()
	prog, _ := testkit.Parse(t, "test.js", src)
	out, err := commonjs.Transform(prog, commonjs.Options{Config: cfg})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return printer.Print(out, printer.Options{})
}

func assertContains(t *testing.T, got string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(got, p) {
			t.Errorf("output does not contain %q:\n%s", p, got)
		}
	}
}

func TestTransformLiveExport(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `import { a } from "./m"; export let a2 = a; a2++;`)
	want := `"use strict";
Object.defineProperty(exports, "__esModule", {
  value: true
});
exports.a2 = void 0;
var _m = require("./m");
let a2 = _m.a;
exports.a2 = a2;
exports.a2 = a2 = +a2 + 1;
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformInterop(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `import d from "./m"; import * as ns from "lib"; d(ns);`)
	assertContains(t, got,
		`var _m = _interopRequireDefault(require("./m"));`,
		`var ns = _interopRequireWildcard(require("lib"));`,
		"function _interopRequireDefault(obj) {",
		"function _interopRequireWildcard(obj) {",
		"function _getRequireWildcardCache() {",
		"(0, _m.default)(ns);",
	)
	if strings.Contains(got, "__esModule\", {\n  value") {
		t.Errorf("module without exports got the marker:\n%s", got)
	}

	cfg := modules.DefaultConfig()
	cfg.NoInterop = true
	got = lower(t, cfg, `import d from "./m"; d;`)
	assertContains(t, got, `var _m = require("./m");`, "_m.default;")
	if strings.Contains(got, "_interopRequire") {
		t.Errorf("no_interop still emitted helpers:\n%s", got)
	}
}

func TestTransformNamedImportNeedsNoInterop(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `import { a, b } from "lib"; a + b;`)
	assertContains(t, got, `var _lib = require("lib");`, "_lib.a + _lib.b;")
	if strings.Contains(got, "function _interop") {
		t.Errorf("named imports pulled in a helper:\n%s", got)
	}
}

func TestTransformExportAll(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `export * from "./other"; export const x = 1;`)
	assertContains(t, got,
		"var _exportNames = {\n  x: true\n};",
		"exports.x = void 0;",
		`var _other = require("./other");`,
		"Object.keys(_other).forEach(function(key) {",
		"Object.prototype.hasOwnProperty.call(_exportNames, key)",
		"const x = 1;\nexports.x = x;",
	)
	if i, j := strings.Index(got, "require(\"./other\")"), strings.Index(got, "Object.keys(_other)"); i < 0 || j < i {
		t.Errorf("export loop runs before the module is required:\n%s", got)
	}

	got = lower(t, modules.DefaultConfig(), `export * from "./other";`)
	if strings.Contains(got, "_exportNames") {
		t.Errorf("export names emitted without explicit exports:\n%s", got)
	}
}

func TestTransformReExports(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `export { b as c } from "./b"; export * as all from "./d";`)
	assertContains(t, got,
		"Object.defineProperty(exports, \"c\", {\n  enumerable: true,\n  get: function() {\n    return _b.b;\n  }\n});",
		"return _d;",
		`var _b = require("./b");`,
		`var _d = _interopRequireWildcard(require("./d"));`,
	)
}

func TestTransformFunctionExports(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `export function f() {} export default function () {}`)
	assertContains(t, got, "exports.f = f;", "exports.default = _default;", "function _default() {}")
	if strings.Contains(got, "void 0") {
		t.Errorf("hoisted functions initialized to undefined:\n%s", got)
	}
}

func TestTransformLazy(t *testing.T) {
	cfg := modules.DefaultConfig()
	cfg.Lazy = modules.Lazy{All: true}
	got := lower(t, cfg, `import { f } from "lib"; import { g } from "./rel"; f(); g();`)
	assertContains(t, got,
		"function _lib() {\n  const data = require(\"lib\");\n  _lib = function() {\n    return data;\n  };\n  return data;\n}",
		`var _rel = require("./rel");`,
		"(0, _lib().f)();",
		"(0, _rel.g)();",
	)
}

func TestTransformStrictFlags(t *testing.T) {
	cfg := modules.DefaultConfig()
	cfg.Strict = true
	got := lower(t, cfg, `export const a = 1;`)
	if strings.Contains(got, "__esModule") {
		t.Errorf("strict still emitted the marker:\n%s", got)
	}

	cfg = modules.DefaultConfig()
	cfg.StrictMode = false
	got = lower(t, cfg, `export const a = 1;`)
	if strings.Contains(got, "use strict") {
		t.Errorf("strict_mode=false still emitted use strict:\n%s", got)
	}

	got = lower(t, modules.DefaultConfig(), `"use strict"; import "x";`)
	if n := strings.Count(got, "use strict"); n != 1 {
		t.Errorf("use strict emitted %d times:\n%s", n, got)
	}
	assertContains(t, got, "\"use strict\";\nrequire(\"x\");\n")
}

func TestTransformHygiene(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `import { a } from "./m"; const _m = 1; a;`)
	assertContains(t, got, `var _m1 = require("./m");`, "const _m = 1;", "_m1.a;")

	got = lower(t, modules.DefaultConfig(), `let require = 1; import "x"; require;`)
	assertContains(t, got, `require("x");`, "let require1 = 1;", "require1;")
}

func TestTransformDynamicImport(t *testing.T) {
	got := lower(t, modules.DefaultConfig(), `export const load = () => import("./x");`)
	assertContains(t, got,
		"function _interopRequireWildcard(obj) {",
		"Promise.resolve().then(function() {\n  return _interopRequireWildcard(require(\"./x\"));\n})",
	)
}

func TestTransformResolver(t *testing.T) {
	prog, _ := testkit.Parse(t, "test.js", `import { a } from "./m"; import "missing"; a;`)
	cause := errors.New("no such module")
	opts := commonjs.Options{
		Config: modules.DefaultConfig(),
		Base:   "src/main.js",
		Resolver: modules.ImportResolverFunc(func(base, spec string) (string, error) {
			if spec == "missing" {
				return "", cause
			}
			return spec + ".js", nil
		}),
	}
	out, err := commonjs.Transform(prog, opts)
	var rerr *modules.ResolutionError
	if !errors.As(err, &rerr) || out != nil {
		t.Fatalf("Transform = %v, %v; want a resolution error and no output", out, err)
	}
	if rerr.Specifier != "missing" || rerr.Base != "src/main.js" || !errors.Is(err, cause) {
		t.Errorf("unexpected error %v", rerr)
	}

	prog, _ = testkit.Parse(t, "test.js", `import { a } from "./m"; a;`)
	out, err = commonjs.Transform(prog, opts)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, printer.Print(out, printer.Options{}), `var _m = require("./m.js");`)
}

func TestTransformUnsupported(t *testing.T) {
	prog, _ := testkit.Parse(t, "test.js", `export { missing };`)
	_, err := commonjs.Transform(prog, commonjs.Options{Config: modules.DefaultConfig()})
	var unsupported *modules.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
}

package modules_test

import (
	"errors"
	"strings"
	"testing"

	"lowerjs/internal/ast"
	"lowerjs/internal/modules"
	"lowerjs/internal/printer"
	"lowerjs/internal/source"
)

func TestLocalNameForSrc(t *testing.T) {
	tests := map[string]string{
		"lodash":           "_lodash",
		"./foo-bar":        "_fooBar",
		"./fooBar":         "_fooBar",
		"react-dom/client": "_client",
		"@scope/pkg.name":  "_pkgName",
		"./FOO":            "_foo",
		"./my-URL":         "_myUrl",
		"./":               "_module",
		"../../":           "_module",
		"./a1B":            "_a1B",
	}
	for src, want := range tests {
		if got := modules.LocalNameForSrc(src); got != want {
			t.Errorf("LocalNameForSrc(%q) = %q, want %q", src, got, want)
		}
	}
}

var errNotFound = errors.New("not found")

func TestMakeRequireCall(t *testing.T) {
	require := ast.QuoteIdent(source.NoSpan, "require")
	resolver := modules.ImportResolverFunc(func(base, spec string) (string, error) {
		if spec == "missing" {
			return "", errNotFound
		}
		return strings.TrimSuffix(base, "index.js") + strings.TrimPrefix(spec, "./") + ".js", nil
	})

	call, err := modules.MakeRequireCall(resolver, "src/index.js", require, "./util")
	if err != nil {
		t.Fatal(err)
	}
	if got := printer.PrintExpr(call, printer.Options{}); got != `require("src/util.js")` {
		t.Errorf("got %s", got)
	}

	call, err = modules.MakeRequireCall(nil, "src/index.js", require, "./util")
	if err != nil {
		t.Fatal(err)
	}
	if got := printer.PrintExpr(call, printer.Options{}); got != `require("./util")` {
		t.Errorf("without a resolver got %s", got)
	}

	_, err = modules.MakeRequireCall(resolver, "src/index.js", require, "missing")
	var rerr *modules.ResolutionError
	if !errors.As(err, &rerr) || rerr.Specifier != "missing" || rerr.Base != "src/index.js" {
		t.Fatalf("expected a resolution error, got %v", err)
	}
	if !errors.Is(err, errNotFound) {
		t.Errorf("resolution error does not wrap the cause")
	}
	if want := `failed to resolve import "missing" from src/index.js: not found`; err.Error() != want {
		t.Errorf("message %q, want %q", err.Error(), want)
	}
}

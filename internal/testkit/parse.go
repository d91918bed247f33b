package testkit

import (
	"testing"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/parser"
	"lowerjs/internal/source"
)

// Parse parses src as a module named name and fails the test on any
// diagnostic.
func Parse(tb testing.TB, name, src string) (*ast.Program, *source.File) {
	tb.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(100)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() > 0 {
		tb.Fatalf("parse %s:\n%s", name, diag.FormatShort(bag.Items(), fs, false))
	}
	return res.Program, file
}

// ParseErrors parses src and returns the short-form diagnostics it produced.
func ParseErrors(src string) []string {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte(src)))
	bag := diag.NewBag(100)
	parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID()+" "+d.Message)
	}
	return out
}

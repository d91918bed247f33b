package driver

import (
	"context"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/observ"
	"lowerjs/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Program *ast.Program
	Bag     *diag.Bag
}

// Parse reads and parses the file at path without lowering it.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	bag := diag.NewBag(maxDiagnostics)
	prog, err := parse(ctx, file, bag, observ.NewTimer(), Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return nil, err
	}
	return &ParseResult{FileSet: fs, File: file, Program: prog, Bag: bag}, nil
}

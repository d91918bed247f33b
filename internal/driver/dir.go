package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lowerjs/internal/diag"
	"lowerjs/internal/source"
	"lowerjs/internal/trace"
)

// SourceExts are the file extensions CompileDir picks up.
var SourceExts = []string{".js", ".mjs"}

// ListSources returns the module files under dir in lexical order. Hidden
// directories, node_modules and the directories in skip are not entered.
func ListSources(dir string, skip ...string) ([]string, error) {
	skipAbs := make([]string, 0, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipAbs = append(skipAbs, abs)
		}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && slices.Contains(skipAbs, abs) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(SourceExts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// CompileDir compiles files in parallel with up to opts.Jobs workers. One
// file failing does not stop the others: its Result carries the error and a
// diagnostic. The returned error is set only when the build itself could not
// run, such as on cancellation.
func CompileDir(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	fset := source.NewFileSet()
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Status: StatusQueued})
	}

	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = compileOne(gctx, fset, path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func compileOne(ctx context.Context, fset *source.FileSet, path string, opts Options) *Result {
	ctx, span := trace.Start(ctx, trace.ScopeModule, "module:"+path)
	started := time.Now()

	id, err := fset.Load(path)
	if err != nil {
		r := &Result{Path: path, FileSet: fset, Bag: diag.NewBag(maxDiagnostics(opts)), Err: err}
		r.Bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load file: "+err.Error()))
		emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End("load failed")
		return r
	}
	r, err := compileFile(ctx, fset, id, opts)
	if err != nil {
		file := fset.Get(id)
		r = &Result{Path: file.Path, FileSet: fset, File: file, Bag: diag.NewBag(maxDiagnostics(opts)), Err: err}
		r.Bag.Add(ErrorDiagnostic(err))
		span.End("failed")
		return r
	}
	status := "ok"
	switch {
	case r.Cached:
		status = "cached"
	case r.Bag.HasErrors():
		status = "syntax errors"
	}
	span.End(status)
	return r
}

// OutputPath maps a source file under root to its place under outDir.
// .mjs files become .js.
func OutputPath(root, outDir, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if filepath.Ext(rel) == ".mjs" {
		rel = strings.TrimSuffix(rel, ".mjs") + ".js"
	}
	return filepath.Join(outDir, rel), nil
}

// WriteOutput writes r.Code to its output path, creating directories.
func WriteOutput(root, outDir string, r *Result) (string, error) {
	dst, err := OutputPath(root, outDir, r.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	return dst, os.WriteFile(dst, []byte(r.Code), 0o644)
}

package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fortio.org/safecast"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/modules"
	"lowerjs/internal/modules/amd"
	"lowerjs/internal/modules/commonjs"
	"lowerjs/internal/observ"
	"lowerjs/internal/parser"
	"lowerjs/internal/printer"
	"lowerjs/internal/project"
	"lowerjs/internal/source"
	"lowerjs/internal/trace"
)

// Format is the module system of the output.
type Format string

const (
	FormatCommonJS Format = "commonjs"
	FormatAMD      Format = "amd"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "commonjs", "cjs":
		return FormatCommonJS, nil
	case "amd":
		return FormatAMD, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected commonjs|amd)", s)
}

type Options struct {
	Format Format
	Config modules.Config
	// Resolver rewrites specifiers; nil keeps them as written.
	Resolver       modules.ImportResolver
	Print          printer.Options
	MaxDiagnostics int
	// Jobs bounds the workers of CompileDir; 0 means GOMAXPROCS.
	Jobs     int
	Cache    *Cache
	Progress ProgressSink
}

// Result is the outcome of compiling one file. When Bag holds errors there
// is no Code.
type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	// Program is the lowered tree; nil for cache hits.
	Program *ast.Program
	Code    string
	Cached  bool
	Timing  observ.Report
	// Err is set by CompileDir when lowering failed; the error is also
	// reported in Bag.
	Err error
}

// Failed reports whether the file produced no output.
func (r *Result) Failed() bool {
	return r == nil || r.Err != nil || r.Bag.HasErrors()
}

// CompileSource compiles src as the module name. Syntax errors are reported
// in the result's Bag; lowering failures are returned as errors.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	return compileFile(ctx, fs, fs.AddVirtual(name, src), opts)
}

// CompileFile reads and compiles the file at path.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return compileFile(ctx, fs, id, opts)
}

// CompileProgram lowers an already parsed program, such as one decoded from
// JSON. The cache is not consulted.
func CompileProgram(ctx context.Context, name string, prog *ast.Program, opts Options) (*Result, error) {
	r := &Result{Path: name, Bag: diag.NewBag(maxDiagnostics(opts))}
	timer := observ.NewTimer()
	if err := lowerAndPrint(ctx, r, prog, timer, opts); err != nil {
		return nil, err
	}
	r.Timing = timer.Report()
	return r, nil
}

func compileFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	file := fs.Get(id)
	r := &Result{Path: file.Path, FileSet: fs, File: file, Bag: diag.NewBag(maxDiagnostics(opts))}
	started := time.Now()

	var key project.Digest
	if opts.Cache != nil {
		var err error
		if key, err = CacheKey(opts.Format, opts.Config, file.Path, file.Content); err != nil {
			return nil, err
		}
		entry, ok, err := opts.Cache.Get(key)
		if err != nil {
			trace.Point(ctx, trace.ScopeModule, "cache", "error: "+err.Error())
		} else if ok {
			trace.Point(ctx, trace.ScopeModule, "cache", "hit "+file.Path)
			r.Code, r.Cached = entry.Code, true
			emit(opts.Progress, Event{File: file.Path, Stage: StageCached, Status: StatusDone, Elapsed: time.Since(started)})
			return r, nil
		}
	}

	timer := observ.NewTimer()
	emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	prog, err := parse(ctx, file, r.Bag, timer, opts)
	if err != nil {
		return nil, err
	}
	if r.Bag.HasErrors() {
		r.Timing = timer.Report()
		emit(opts.Progress, Event{File: file.Path, Stage: StageParse, Status: StatusError, Elapsed: time.Since(started)})
		return r, nil
	}
	if err := lowerAndPrint(ctx, r, prog, timer, opts); err != nil {
		emit(opts.Progress, Event{File: file.Path, Stage: StageLower, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return nil, err
	}
	r.Timing = timer.Report()

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, Entry{Path: file.Path, Code: r.Code}); err != nil {
			trace.Point(ctx, trace.ScopeModule, "cache", "put failed: "+err.Error())
		}
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StagePrint, Status: StatusDone, Elapsed: time.Since(started)})
	return r, nil
}

func parse(ctx context.Context, file *source.File, bag *diag.Bag, timer *observ.Timer, opts Options) (*ast.Program, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics(opts))
	if err != nil {
		return nil, err
	}
	_, span := trace.Start(ctx, trace.ScopePass, "parse")
	idx := timer.Begin("parse")
	res := parser.ParseFile(file, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	})
	note := fmt.Sprintf("%d stmts", len(res.Program.Stmts))
	if res.Errors > 0 {
		note = fmt.Sprintf("%d errors", res.Errors)
	}
	timer.End(idx, note)
	span.WithExtra("file", file.Path).End(note)
	return res.Program, nil
}

func lowerAndPrint(ctx context.Context, r *Result, prog *ast.Program, timer *observ.Timer, opts Options) error {
	emit(opts.Progress, Event{File: r.Path, Stage: StageLower, Status: StatusWorking})
	_, span := trace.Start(ctx, trace.ScopePass, "lower")
	idx := timer.Begin("lower")
	out, err := lower(prog, r.Path, opts)
	if err != nil {
		timer.End(idx, "failed")
		span.End(err.Error())
		return fmt.Errorf("%s: %w", r.Path, err)
	}
	timer.End(idx, string(opts.Format))
	span.WithExtra("format", string(opts.Format)).End("")

	emit(opts.Progress, Event{File: r.Path, Stage: StagePrint, Status: StatusWorking})
	_, span = trace.Start(ctx, trace.ScopePass, "print")
	idx = timer.Begin("print")
	r.Program = out
	r.Code = printer.Print(out, opts.Print)
	timer.End(idx, fmt.Sprintf("%d bytes", len(r.Code)))
	span.End("")
	return nil
}

func lower(prog *ast.Program, base string, opts Options) (*ast.Program, error) {
	switch opts.Format {
	case FormatCommonJS, "":
		return commonjs.Transform(prog, commonjs.Options{Config: opts.Config, Resolver: opts.Resolver, Base: base})
	case FormatAMD:
		return amd.Transform(prog, amd.Options{Config: opts.Config, Resolver: opts.Resolver, Base: base})
	}
	return nil, fmt.Errorf("unknown output format %q", opts.Format)
}

func maxDiagnostics(opts Options) int {
	if opts.MaxDiagnostics <= 0 {
		return 100
	}
	return opts.MaxDiagnostics
}

// ErrorDiagnostic turns a lowering failure into a diagnostic so it can be
// reported next to syntax errors.
func ErrorDiagnostic(err error) diag.Diagnostic {
	var unsupported *modules.UnsupportedError
	if errors.As(err, &unsupported) {
		return diag.NewError(diag.ModUnsupported, unsupported.Span, unsupported.Error())
	}
	var resolution *modules.ResolutionError
	if errors.As(err, &resolution) {
		return diag.NewError(diag.ModResolve, source.NoSpan, resolution.Error())
	}
	return diag.NewError(diag.UnknownCode, source.NoSpan, err.Error())
}

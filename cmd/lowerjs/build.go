package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/driver"
	"lowerjs/internal/modules"
	"lowerjs/internal/observ"
	"lowerjs/internal/project"
	"lowerjs/internal/trace"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Lower a module file or every module under a directory",
	Long: `Build lowers one file to stdout, or every .js and .mjs file under a
directory into the output directory. Settings come from the nearest
lowerjs.toml (or lowerjs.yaml); flags override them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	addModuleFlags(buildCmd.Flags())
	f := buildCmd.Flags()
	f.StringP("out-dir", "o", "", "output directory (default [build].out_dir)")
	f.String("cache-path", "", "cache database (default in the user cache dir)")
	f.Bool("from-json", false, "read the input file as a JSON syntax tree")
	f.String("ui", "auto", "progress view for directory builds (auto|on|off)")
}

// addModuleFlags registers the flags applyBuildFlags reads.
func addModuleFlags(f *pflag.FlagSet) {
	f.String("format", "", "output module format (commonjs|amd)")
	f.String("manifest", "", "project file to use instead of searching for lowerjs.toml")
	f.String("config", "", "JSON file with the module config, applied over the manifest")
	f.Bool("strict", false, "omit the __esModule marker")
	f.Bool("strict-mode", true, `emit a "use strict" prologue`)
	f.String("lazy", "", "lazy requires: true, false or a comma-separated list of specifiers")
	f.Bool("no-interop", false, "require modules without interop helpers")
	f.Bool("ignore-dynamic", false, "leave import() calls untouched")
	f.String("module-id", "", "AMD module id")
	f.Int("jobs", 0, "max parallel workers for directories (0=auto)")
	f.Bool("cache", false, "reuse lowered output from the on-disk cache")
	f.Bool("resolve", false, "complete extensionless relative specifiers from disk")
}

func buildExecution(cmd *cobra.Command, args []string) (err error) {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() {
		if err != nil {
			dumpRing(cmd, tracer)
		}
	}()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	manifest, err := loadManifest(cmd, target, info.IsDir())
	if err != nil {
		return err
	}
	if err := applyBuildFlags(cmd, &manifest); err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts, err := driverOptions(manifest, maxDiagnostics)
	if err != nil {
		return err
	}
	if manifest.Build.Cache {
		cache, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer cache.Close()
		opts.Cache = cache
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "build")
	var results []*driver.Result
	if info.IsDir() {
		results, err = buildDir(ctx, cmd, target, manifest, opts)
	} else {
		results, err = buildFile(ctx, cmd, target, opts)
	}
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	span.WithExtra("files", fmt.Sprint(len(results))).End(fmt.Sprintf("%d failed", failed))
	if reportErr := report(cmd, results); reportErr != nil && err == nil {
		err = reportErr
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// loadManifest reads --manifest, or the project file found from target
// upwards, or falls back to the defaults.
func loadManifest(cmd *cobra.Command, target string, isDir bool) (project.Manifest, error) {
	path, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return project.Manifest{}, err
	}
	if path == "" {
		start := target
		if !isDir {
			start = filepath.Dir(target)
		}
		found, ok, err := project.Find(start)
		if err != nil {
			return project.Manifest{}, err
		}
		if !ok {
			return project.Default(), nil
		}
		path = found
	}
	return project.Load(path)
}

// applyBuildFlags overrides manifest settings with the flags that were set.
func applyBuildFlags(cmd *cobra.Command, m *project.Manifest) error {
	flags := cmd.Flags()
	if flags.Changed("config") {
		path, err := flags.GetString("config")
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		cfg, err := modules.DecodeConfig(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		m.Module.Config = cfg
	}

	cfg := &m.Module.Config
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"strict", &cfg.Strict},
		{"strict-mode", &cfg.StrictMode},
		{"no-interop", &cfg.NoInterop},
		{"ignore-dynamic", &cfg.IgnoreDynamic},
		{"cache", &m.Build.Cache},
		{"resolve", &m.Build.Resolve},
	} {
		if !flags.Changed(b.name) {
			continue
		}
		v, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		*b.dst = v
	}
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"format", &m.Module.Format},
		{"module-id", &cfg.ModuleID},
	} {
		if !flags.Changed(s.name) {
			continue
		}
		v, err := flags.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = v
	}
	if flags.Changed("lazy") {
		v, err := flags.GetString("lazy")
		if err != nil {
			return err
		}
		cfg.Lazy = parseLazy(v)
	}
	if flags.Changed("jobs") {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return err
		}
		m.Build.Jobs = v
	}
	return m.Validate()
}

// parseLazy reads --lazy: "true", "false" or a specifier list.
func parseLazy(v string) modules.Lazy {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "all":
		return modules.Lazy{All: true}
	case "", "false", "none":
		return modules.Lazy{}
	}
	var list []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return modules.LazyList(list...)
}

func driverOptions(m project.Manifest, maxDiagnostics int) (driver.Options, error) {
	format, err := driver.ParseFormat(m.Module.Format)
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		Format:         format,
		Config:         m.Module.Config,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           m.Build.Jobs,
	}
	if m.Build.Resolve {
		opts.Resolver = driver.FSResolver{}
	}
	return opts, nil
}

func openCache(cmd *cobra.Command) (*driver.Cache, error) {
	path, err := cmd.Flags().GetString("cache-path")
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = driver.DefaultCachePath(); err != nil {
			return nil, err
		}
	}
	return driver.OpenCache(path)
}

func buildFile(ctx context.Context, cmd *cobra.Command, path string, opts driver.Options) ([]*driver.Result, error) {
	var r *driver.Result
	fromJSON, err := cmd.Flags().GetBool("from-json")
	if err != nil {
		return nil, err
	}
	if fromJSON {
		r, err = compileJSON(ctx, path, opts)
		if err != nil {
			return nil, err
		}
	} else {
		results, err := driver.CompileDir(ctx, []string{path}, opts)
		if err != nil {
			return nil, err
		}
		r = results[0]
	}
	if r.Failed() {
		return []*driver.Result{r}, nil
	}

	if !cmd.Flags().Changed("out-dir") {
		_, err = io.WriteString(cmd.OutOrStdout(), r.Code)
		return []*driver.Result{r}, err
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return nil, err
	}
	if _, err := driver.WriteOutput(filepath.Dir(path), outDir, r); err != nil {
		return nil, err
	}
	return []*driver.Result{r}, nil
}

// compileJSON lowers a syntax tree produced by "lowerjs parse --json" or an
// external parser.
func compileJSON(ctx context.Context, path string, opts driver.Options) (*driver.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := ast.DecodeProgram(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	name := strings.TrimSuffix(path, ".json")
	r, err := driver.CompileProgram(ctx, name, prog, opts)
	if err != nil {
		r = &driver.Result{Path: name, Bag: diag.NewBag(max(opts.MaxDiagnostics, 1)), Err: err}
		r.Bag.Add(driver.ErrorDiagnostic(err))
	}
	return r, nil
}

func buildDir(ctx context.Context, cmd *cobra.Command, root string, m project.Manifest, opts driver.Options) ([]*driver.Result, error) {
	outDir := m.OutDir()
	if m.Path == "" {
		outDir = filepath.Join(root, m.Build.OutDir)
	}
	if cmd.Flags().Changed("out-dir") {
		var err error
		if outDir, err = cmd.Flags().GetString("out-dir"); err != nil {
			return nil, err
		}
	}
	files, err := driver.ListSources(root, outDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .js or .mjs files under %s", root)
	}

	progress, err := wantsProgressView(cmd, len(files))
	if err != nil {
		return nil, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	var results []*driver.Result
	if progress {
		display := make([]string, len(files))
		for i, f := range files {
			display[i] = displayPath(root, f)
		}
		results, err = compileDirWithUI(ctx, "lowerjs build", files, display, opts)
	} else {
		results, err = driver.CompileDir(ctx, files, opts)
	}
	if err != nil {
		return results, err
	}

	written := 0
	for _, r := range results {
		if r.Failed() {
			continue
		}
		if _, err := driver.WriteOutput(root, outDir, r); err != nil {
			return results, err
		}
		written++
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "lowered %d of %d files into %s\n", written, len(results), outDir)
	}
	return results, nil
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

// report prints diagnostics and, with --timings, the merged phase timings.
func report(cmd *cobra.Command, results []*driver.Result) error {
	style, err := diagStyleFor(cmd)
	if err != nil {
		return err
	}
	out := cmd.ErrOrStderr()
	for _, r := range results {
		if err := printDiagnostics(out, r, style); err != nil {
			return err
		}
	}

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings && len(results) > 0 {
		reports := make([]observ.Report, 0, len(results))
		for _, r := range results {
			reports = append(reports, r.Timing)
		}
		fmt.Fprintln(out, observ.Merge(reports...).Summary())
	}
	return nil
}

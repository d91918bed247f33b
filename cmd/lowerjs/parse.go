package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lowerjs/internal/ast"
	"lowerjs/internal/driver"
	"lowerjs/internal/hygiene"
	"lowerjs/internal/printer"
	"lowerjs/internal/resolver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file>",
	Short: "Parse a module and print its syntax tree",
	Long: `Parse prints the module back as source, as a JSON syntax tree that
"lowerjs build --from-json" accepts, or with the binding context of every
identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "source", "output format (source|json|contexts)")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "source", "json", "contexts":
	default:
		return fmt.Errorf("unsupported format %q (must be source, json or contexts)", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	_, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := driver.Parse(cmd.Context(), path, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Bag.Len() > 0 {
		style, err := diagStyleFor(cmd)
		if err != nil {
			return err
		}
		err = printDiagnostics(cmd.ErrOrStderr(), &driver.Result{
			Path:    path,
			FileSet: result.FileSet,
			Bag:     result.Bag,
		}, style)
		if err != nil {
			return err
		}
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s has syntax errors", path)
	}
	return printProgram(cmd.OutOrStdout(), result.Program, format)
}

func printProgram(w io.Writer, prog *ast.Program, format string) error {
	switch format {
	case "json":
		return ast.EncodeProgram(w, prog)
	case "contexts":
		res := resolver.Resolve(prog, hygiene.NewAllocator())
		if _, err := io.WriteString(w, printer.Print(prog, printer.Options{ShowContexts: true})); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "// %d scopes, globals: %v\n", res.Scopes, res.Globals)
		return err
	}
	_, err := io.WriteString(w, printer.Print(prog, printer.Options{}))
	return err
}

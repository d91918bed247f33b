package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lowerjs/internal/diag"
	"lowerjs/internal/diagfmt"
	"lowerjs/internal/driver"
)

type diagStyle struct {
	format string // pretty, short or json
	color  bool
}

func diagStyleFor(cmd *cobra.Command) (diagStyle, error) {
	format, err := cmd.Root().PersistentFlags().GetString("diag-format")
	if err != nil {
		return diagStyle{}, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json":
	default:
		return diagStyle{}, fmt.Errorf("invalid --diag-format %q (expected pretty|short|json)", format)
	}
	colorOn, err := useColor(cmd, os.Stderr)
	if err != nil {
		return diagStyle{}, err
	}
	return diagStyle{format: format, color: colorOn}, nil
}

func printDiagnostics(out io.Writer, r *driver.Result, style diagStyle) error {
	if r == nil || r.Bag == nil || r.Bag.Len() == 0 {
		return nil
	}
	r.Bag.Sort()
	// programs decoded from JSON have no source to point into
	if r.FileSet == nil {
		for _, d := range r.Bag.Items() {
			fmt.Fprintf(out, "%s: %s %s: %s\n", r.Path, d.Severity, d.Code.ID(), d.Message)
		}
		return nil
	}
	switch style.format {
	case "short":
		if s := diag.FormatShort(r.Bag.Items(), r.FileSet, true); s != "" {
			_, err := fmt.Fprintln(out, s)
			return err
		}
		return nil
	case "json":
		return diagfmt.JSON(out, r.Bag, r.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(out, r.Bag, r.FileSet, diagfmt.PrettyOpts{
		Color:     style.color,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	})
	return nil
}

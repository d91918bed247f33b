package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lowerjs/internal/diag"
	"lowerjs/internal/source"
)

type palette struct {
	err, warn, info, note, code, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		note:   color.New(color.FgCyan),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes each diagnostic of bag as
//
//	path:line:col: ERROR SYN2004: message
//	   3 | let x = ;
//	     |         ^
//
// followed by its notes. Call bag.Sort first for a stable order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := p.severity(d.Severity)
		fmt.Fprintf(w, "%s %s %s: %s\n",
			p.path.Sprint(location(fs, d.Primary, opts)),
			sev.Sprint(strings.ToUpper(d.Severity.String())),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		snippet(w, fs, d.Primary, opts, p, p.caret)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
			snippet(w, fs, n.Span, PrettyOpts{Width: opts.Width}, p, p.note)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>:"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d:", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// snippet prints the lines around sp with an underline below the first one.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette, mark *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	lines, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return
	}
	last := min(start.Line+ctx, lines)
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := clip(strings.ReplaceAll(f.GetLine(ln), "\t", "    "), opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		from := min(int(start.Col)-1, len(raw))
		to := len(raw)
		if end.Line == start.Line {
			to = min(max(int(end.Col)-1, from), len(raw))
		}
		pad := runewidth.StringWidth(strings.ReplaceAll(raw[:from], "\t", "    "))
		width := max(runewidth.StringWidth(raw[from:to]), 1)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad),
			mark.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

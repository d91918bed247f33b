package lexer

import (
	"lowerjs/internal/diag"
	"lowerjs/internal/source"
)

// Options configure a Lexer. A nil Reporter drops lexical errors; scanning
// continues either way.
type Options struct {
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

package lexer

import (
	"lowerjs/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии перед значимым
// токеном, запоминая, был ли перевод строки (нужно для ASI).
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\v', '\f', '\r':
			lx.cursor.Bump()
		case '\n':
			lx.cursor.Bump()
			lx.newline = true
		case '/':
			if !lx.skipComment() {
				return
			}
		default:
			if b >= utf8RuneSelf {
				r, _ := lx.peekRune()
				switch r {
				case '\u00a0', '\ufeff':
					lx.bumpRune()
					continue
				case '\u2028', '\u2029':
					lx.bumpRune()
					lx.newline = true
					continue
				}
			}
			return
		}
	}
}

// skipComment consumes // and /* */ comments. A block comment spanning lines
// counts as a line terminator.
func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			b := lx.cursor.Bump()
			if b == '\n' {
				lx.newline = true
			}
			if b == '*' && lx.cursor.Peek() == '/' {
				lx.cursor.Bump()
				return true
			}
		}
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		return true
	}
	return false
}

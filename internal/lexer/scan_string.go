package lexer

import (
	"strings"
	"unicode/utf8"

	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

// scanString сканирует '...' или "..." и декодирует escape-последовательности
// в Token.Value.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	var val strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Value: val.String()}
		case b == '\\':
			lx.scanEscape(&val)
		case b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			val.WriteByte(lx.cursor.Bump())
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape(val *strings.Builder) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	b := lx.cursor.Bump()
	switch b {
	case 'n':
		val.WriteByte('\n')
	case 't':
		val.WriteByte('\t')
	case 'r':
		val.WriteByte('\r')
	case 'b':
		val.WriteByte('\b')
	case 'f':
		val.WriteByte('\f')
	case 'v':
		val.WriteByte('\v')
	case '0':
		if isDec(lx.cursor.Peek()) {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "octal escapes are not supported")
		}
		val.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		r, ok := lx.hexDigits(2)
		if !ok {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid \\x escape")
			return
		}
		val.WriteRune(r)
	case 'u':
		var r rune
		ok := false
		if lx.cursor.Eat('{') {
			for isHex(lx.cursor.Peek()) && r <= utf8.MaxRune {
				r = r<<4 | hexVal(lx.cursor.Bump())
				ok = true
			}
			ok = ok && lx.cursor.Eat('}') && r <= utf8.MaxRune
		} else {
			r, ok = lx.hexDigits(4)
		}
		if !ok {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid \\u escape")
			return
		}
		val.WriteRune(r)
	case 0:
		lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	default:
		if b >= utf8RuneSelf {
			lx.cursor.Off--
			r, _ := lx.peekRune()
			lx.bumpRune()
			if r != '\u2028' && r != '\u2029' {
				val.WriteRune(r)
			}
			return
		}
		val.WriteByte(b)
	}
}

func (lx *Lexer) hexDigits(n int) (rune, bool) {
	var r rune
	for range n {
		b := lx.cursor.Peek()
		if !isHex(b) {
			return 0, false
		}
		lx.cursor.Bump()
		r = r<<4 | hexVal(b)
	}
	return r, true
}

func hexVal(b byte) rune {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0')
	case b >= 'a' && b <= 'f':
		return rune(b-'a') + 10
	default:
		return rune(b-'A') + 10
	}
}

package lexer

import (
	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.0, .5, 1e-3, 1_000.
// Значение вычисляет парсер; здесь только границы токена.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digits := func(ok func(byte) bool) {
		for b := lx.cursor.Peek(); ok(b) || b == '_'; b = lx.cursor.Peek() {
			lx.cursor.Bump()
		}
	}

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			digits(func(b byte) bool { return b == '0' || b == '1' })
			return lx.finishNumber(start)
		case 'o', 'O':
			lx.cursor.Bump()
			lx.cursor.Bump()
			digits(func(b byte) bool { return b >= '0' && b <= '7' })
			return lx.finishNumber(start)
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			digits(isHex)
			return lx.finishNumber(start)
		}
	}

	digits(isDec)
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		digits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		digits(isDec)
	}
	return lx.finishNumber(start)
}

func (lx *Lexer) finishNumber(start Mark) token.Token {
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		// 10n, 3in, 0x1g: literal glued to an identifier
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		msg := "identifier directly after number"
		if b == 'n' {
			msg = "bigint literals are not supported"
		}
		lx.errLex(diag.LexBadNumber, sp, msg)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.NumberLit, Span: sp, Text: lx.text(sp)}
}

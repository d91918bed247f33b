package lexer

import (
	"lowerjs/internal/diag"
	"lowerjs/internal/token"
)

// Жадность: сначала длинные последовательности, затем короткие.
var operators = []struct {
	text string
	kind token.Kind
}{
	{">>>=", token.UShrAssign},
	{"...", token.DotDotDot},
	{"===", token.EqEqEq},
	{"!==", token.BangEqEq},
	{"**=", token.StarStarAssign},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{">>>", token.UShr},
	{"&&=", token.AndAndAssign},
	{"||=", token.OrOrAssign},
	{"??=", token.QuestionQuestionAssign},
	{"=>", token.FatArrow},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{">>", token.Shr},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"??", token.QuestionQuestion},
	{"**", token.StarStar},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
}

var single = map[byte]token.Kind{
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	';': token.Semicolon, ',': token.Comma,
	'.': token.Dot, ':': token.Colon,
	'?': token.Question, '#': token.Hash,
	'+': token.Plus, '-': token.Minus,
	'*': token.Star, '/': token.Slash,
	'%': token.Percent, '<': token.Lt,
	'>': token.Gt, '&': token.Amp,
	'|': token.Pipe, '^': token.Caret,
	'!': token.Bang, '~': token.Tilde,
	'=': token.Assign, '`': token.Backtick,
	'@': token.At,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	// "?." followed by a digit is a conditional with a number: a?.5:b
	if lx.cursor.Peek() == '?' && lx.cursor.PeekAt(1) == '.' && !isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return emit(token.QuestionDot)
	}
	for _, op := range operators {
		if lx.try(op.text) {
			return emit(op.kind)
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := single[ch]; ok {
		tok := emit(k)
		if k == token.Backtick {
			lx.errLex(diag.LexUnsupportedSyntax, tok.Span, "template literals are not supported")
		}
		return tok
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected character "+lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

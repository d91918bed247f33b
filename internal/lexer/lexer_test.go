package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"lowerjs/internal/diag"
	"lowerjs/internal/lexer"
	"lowerjs/internal/source"
	"lowerjs/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return out
}

func lexAll(input string) ([]token.Token, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.js", []byte(input)))
	rep := &testReporter{}
	toks := lexer.New(file, lexer.Options{Reporter: rep}).All()
	return toks[:len(toks)-1], rep
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	tokens, rep := lexAll(input)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), rep.messages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func TestImportDeclaration(t *testing.T) {
	expectTokens(t, `import def, { a as b } from "./m";`,
		token.KwImport, token.Ident, token.Comma, token.LBrace, token.Ident, token.Ident,
		token.Ident, token.RBrace, token.Ident, token.StringLit, token.Semicolon)
}

func TestGreedyOperators(t *testing.T) {
	expectTokens(t, "a >>>= b >>> c >> d > e",
		token.Ident, token.UShrAssign, token.Ident, token.UShr, token.Ident,
		token.Shr, token.Ident, token.Gt, token.Ident)
	expectTokens(t, "x ??= y ?? z?.w",
		token.Ident, token.QuestionQuestionAssign, token.Ident, token.QuestionQuestion,
		token.Ident, token.QuestionDot, token.Ident)
	expectTokens(t, "a?.5:b",
		token.Ident, token.Question, token.NumberLit, token.Colon, token.Ident)
	expectTokens(t, "(...xs) => x ** 2",
		token.LParen, token.DotDotDot, token.Ident, token.RParen, token.FatArrow,
		token.Ident, token.StarStar, token.NumberLit)
}

func TestIdentifiers(t *testing.T) {
	toks := expectTokens(t, "$el _priv ünïcode x1 yield let",
		token.Ident, token.Ident, token.Ident, token.Ident, token.Ident, token.Ident)
	if toks[2].Text != "ünïcode" {
		t.Fatalf("unicode identifier text: %q", toks[2].Text)
	}
	expectTokens(t, "this super typeof instanceof", token.KwThis, token.KwSuper, token.KwTypeof, token.KwInstanceof)
}

func TestNumbers(t *testing.T) {
	for _, in := range []string{"0", "123", "1_000", "0x1F", "0b101", "0o17", "1.5", ".5", "1e3", "2.5E-3", "5."} {
		toks := expectTokens(t, in, token.NumberLit)
		if toks[0].Text != in {
			t.Errorf("%q lexed as %q", in, toks[0].Text)
		}
	}
	_, rep := lexAll("10n")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBadNumber {
		t.Fatalf("expected bigint rejection, got %v", rep.messages())
	}
}

func TestStringValues(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`"plain"`, "plain"},
		{`'single "quoted"'`, `single "quoted"`},
		{`"a\nb\tc"`, "a\nb\tc"},
		{`"\x41B\u{43}"`, "ABC"},
		{`"\'\"\\"`, `'"\`},
		{"\"line\\\ncont\"", "linecont"},
	}
	for _, tc := range cases {
		toks := expectTokens(t, tc.in, token.StringLit)
		if toks[0].Value != tc.want {
			t.Errorf("%s: got %q, want %q", tc.in, toks[0].Value, tc.want)
		}
		if toks[0].Text != tc.in {
			t.Errorf("%s: text %q must be the raw source", tc.in, toks[0].Text)
		}
	}
}

func TestStringErrors(t *testing.T) {
	cases := map[string]diag.Code{
		`"open`:         diag.LexUnterminatedString,
		"\"a\nb\"":      diag.LexUnterminatedString,
		`"\xZZ"`:        diag.LexBadEscape,
		`"\u{FFFFFFF}"`: diag.LexBadEscape,
	}
	for in, code := range cases {
		_, rep := lexAll(in)
		if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != code {
			t.Errorf("%q: expected %s, got %v", in, code.ID(), rep.messages())
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	toks, _ := lexAll("a\nb /* x\n */ c // tail\nd /* same */ e")
	want := []bool{false, true, true, true, false}
	for i, tok := range toks {
		if tok.NewlineBefore != want[i] {
			t.Errorf("token %d (%s): NewlineBefore=%v", i, tok.Text, tok.NewlineBefore)
		}
	}
}

func TestUnsupportedSyntax(t *testing.T) {
	_, rep := lexAll("`tpl`")
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnsupportedSyntax {
		t.Fatalf("template literal must be reported, got %v", rep.messages())
	}
	_, rep = lexAll("/* never closed")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("unterminated comment must be reported, got %v", rep.messages())
	}
}

func TestSpansMatchText(t *testing.T) {
	src := `export const answer = 42; // done`
	toks, _ := lexAll(src)
	for _, tok := range toks {
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v covers %q, text is %q", tok.Span, got, tok.Text)
		}
	}
}

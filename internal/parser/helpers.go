package parser

import (
	"lowerjs/internal/diag"
	"lowerjs/internal/source"
	"lowerjs/internal/token"
)

// lexReporter routes lexical errors through the parser so they count toward
// MaxErrors.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, _ []diag.Note) {
	r.p.report(code, sev, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

// fail reports an error at sp and abandons the current top-level statement.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevError, sp, msg)
	panic(bailout{})
}

// failHere reports at the current token. An Invalid token was already
// reported by the lexer, so only unwinding happens then.
func (p *Parser) failHere(code diag.Code, msg string) {
	tok := p.peek()
	if tok.Kind == token.Invalid {
		panic(bailout{})
	}
	if tok.Kind == token.EOF {
		msg += ", got end of file"
	} else {
		msg += ", got \"" + tok.Text + "\""
	}
	p.fail(code, tok.Span, msg)
}

// expect потребляет токен вида k, а если его нет, сообщает ошибку с кодом code.
func (p *Parser) expect(k token.Kind, code diag.Code) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.failHere(code, "expected \""+k.String()+"\"")
	return token.Token{}
}

// expectWord consumes a contextual keyword such as "from" or "as".
func (p *Parser) expectWord(word string) token.Token {
	if p.atWord(word) {
		return p.advance()
	}
	p.failHere(diag.SynUnexpectedToken, "expected \""+word+"\"")
	return token.Token{}
}

// semicolon applies automatic semicolon insertion.
func (p *Parser) semicolon() {
	if p.eat(token.Semicolon) {
		return
	}
	tok := p.peek()
	if tok.Kind == token.RBrace || tok.Kind == token.EOF || tok.NewlineBefore {
		return
	}
	p.failHere(diag.SynExpectSemicolon, "expected \";\"")
}

// bindingIdent consumes an identifier usable as a binding name.
func (p *Parser) bindingIdent() token.Token {
	tok := p.peek()
	if tok.Kind != token.Ident {
		p.failHere(diag.SynExpectIdentifier, "expected identifier")
	}
	return p.advance()
}

// withFunction runs body inside a fresh function context.
func (p *Parser) withFunction(isAsync, isGenerator bool, body func()) {
	saved, savedIn, savedDepth := p.fn, p.noIn, p.depth
	p.fn = fnContext{inFunction: true, isAsync: isAsync, isGenerator: isGenerator}
	p.noIn = false
	p.depth++
	body()
	p.fn, p.noIn, p.depth = saved, savedIn, savedDepth
}

// allowIn re-enables the "in" operator inside brackets of a for header.
func (p *Parser) allowIn(body func()) {
	saved := p.noIn
	p.noIn = false
	body()
	p.noIn = saved
}

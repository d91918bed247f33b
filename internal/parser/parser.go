package parser

import (
	"slices"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/lexer"
	"lowerjs/internal/source"
	"lowerjs/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	Program *ast.Program
	Errors  uint
}

// fnContext описывает ближайшую объемлющую функцию.
type fnContext struct {
	inFunction  bool
	isAsync     bool
	isGenerator bool
}

// Parser — состояние парсера на один файл. Токены лексируются целиком заранее:
// распознавание стрелочных функций смотрит вперёд до парной скобки.
type Parser struct {
	file   *source.File
	toks   []token.Token
	pos    int
	opts   Options
	errors uint
	fn     fnContext
	noIn   bool
	depth  int // statement nesting; import/export only at depth 0
}

// bailout unwinds the current top-level statement after a reported error.
type bailout struct{}

// ParseFile — входная точка для разбора одного модуля. Все идентификаторы
// получают корневой контекст; настоящие контексты расставляет internal/resolver.
func ParseFile(file *source.File, opts Options) Result {
	p := &Parser{file: file, opts: opts}
	p.toks = lexer.New(file, lexer.Options{Reporter: lexReporter{p}}).All()
	prog := &ast.Program{File: file.ID}
	prog.Stmts = p.parseTopLevel()
	return Result{Program: prog, Errors: p.errors}
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.toks[p.pos].Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.toks[p.pos].Kind)
}

// atWord checks a contextual keyword.
func (p *Parser) atWord(word string) bool { return p.toks[p.pos].Is(word) }

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// prevSpan is the span of the last consumed token.
func (p *Parser) prevSpan() source.Span {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}

// spanFrom covers everything from start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.prevSpan())
}

// parseTopLevel — основной цикл: разбираем инструкции до EOF и после ошибки
// восстанавливаемся на границе инструкции.
func (p *Parser) parseTopLevel() []ast.Stmt {
	var out []ast.Stmt
	prologue := true
	for !p.at(token.EOF) {
		startPos := p.pos
		st, ok := p.parseTopItem(prologue)
		if !ok {
			p.resync(startPos)
			continue
		}
		if _, isDir := st.Data.(*ast.SDirective); !isDir {
			prologue = false
		}
		out = append(out, st)
	}
	return out
}

func (p *Parser) parseTopItem(prologue bool) (st ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			p.fn, p.noIn, p.depth = fnContext{}, false, 0
			ok = false
		}
	}()
	if prologue {
		if d, isDir := p.tryDirective(); isDir {
			return d, true
		}
	}
	return p.parseStatement(), true
}

// resync — восстановление после ошибки: прокручиваем до ';' на нулевой
// глубине скобок или до токена с переводом строки перед ним.
func (p *Parser) resync(startPos int) {
	depth := 0
	for i := startPos; i < p.pos; i++ {
		switch p.toks[i].Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			depth--
		}
	}
	if p.pos == startPos {
		p.advance()
	}
	for !p.at(token.EOF) {
		tok := p.peek()
		if depth <= 0 && tok.NewlineBefore && startsStatement(tok.Kind) {
			return
		}
		p.advance()
		switch tok.Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			depth--
			if depth < 0 {
				depth = 0
			}
		case token.Semicolon:
			if depth <= 0 {
				return
			}
		}
	}
}

func startsStatement(k token.Kind) bool {
	switch k {
	case token.KwImport, token.KwExport, token.KwVar, token.KwConst, token.KwFunction, token.KwClass,
		token.KwIf, token.KwFor, token.KwWhile, token.KwDo, token.KwReturn, token.KwThrow,
		token.KwTry, token.KwSwitch, token.Ident:
		return true
	}
	return false
}

// makeIdent turns an identifier token into an ast.Ident with the root context.
func makeIdent(tok token.Token) ast.Ident {
	return ast.Ident{Span: tok.Span, Name: tok.Text}
}

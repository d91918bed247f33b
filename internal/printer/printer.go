package printer

import (
	"fmt"

	"lowerjs/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// ShowContexts appends the lexical context to every non-root identifier,
	// e.g. "a#3". The output is for inspection only and is not valid source.
	ShowContexts bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

type exprFlags uint8

const (
	forbidCall exprFlags = 1 << iota
	forbidIn
)

type printer struct {
	w   *Writer
	opt Options

	// Offsets at which an expression would be misparsed as a declaration or
	// block if it began with "{", "function" or "class".
	stmtStart          int
	exportDefaultStart int
	arrowBodyStart     int
}

// Print renders the program as source text, one statement per line.
func Print(prog *ast.Program, opt Options) string {
	p := newPrinter(opt)
	if prog != nil {
		for _, s := range prog.Stmts {
			p.printStmt(s)
		}
	}
	return p.w.String()
}

// PrintExpr renders a single expression.
func PrintExpr(e ast.Expr, opt Options) string {
	p := newPrinter(opt)
	p.printExpr(e, ast.LLowest, 0)
	return p.w.String()
}

func newPrinter(opt Options) *printer {
	opt = opt.withDefaults()
	return &printer{
		w:                  newWriter(opt),
		opt:                opt,
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowBodyStart:     -1,
	}
}

func (p *printer) print(s string) { p.w.WriteString(s) }

func (p *printer) semicolonLine() {
	p.print(";")
	p.w.Newline()
}

func (p *printer) printIdent(id ast.Ident) {
	p.print(id.Name)
	if p.opt.ShowContexts && !id.Ctxt.IsRoot() {
		p.print(id.Ctxt.String())
	}
}

func (p *printer) printStmt(s ast.Stmt) {
	if s.Data == nil {
		return
	}
	p.w.writeIndent()
	switch d := s.Data.(type) {
	case *ast.SExpr:
		p.stmtStart = p.w.Len()
		p.printExpr(d.Value, ast.LLowest, 0)
		p.semicolonLine()
	case *ast.SDirective:
		p.print(quoteString(d.Value))
		p.semicolonLine()
	case *ast.SLocal:
		p.printLocal(d, 0)
		p.semicolonLine()
	case *ast.SFunction:
		p.printFn(&d.Fn, "function")
		p.w.Newline()
	case *ast.SClass:
		p.printClass(&d.Class)
		p.w.Newline()
	case *ast.SReturn:
		p.print("return")
		if d.Value.Data != nil {
			p.print(" ")
			p.printExpr(d.Value, ast.LLowest, 0)
		}
		p.semicolonLine()
	case *ast.SThrow:
		p.print("throw ")
		p.printExpr(d.Value, ast.LLowest, 0)
		p.semicolonLine()
	case *ast.SIf:
		p.printIf(d)
		p.w.Newline()
	case *ast.SBlock:
		p.printBlock(d.Stmts)
		p.w.Newline()
	case *ast.SFor:
		p.print("for (")
		switch init := d.Init.Data.(type) {
		case *ast.SLocal:
			p.printLocal(init, forbidIn)
		case *ast.SExpr:
			p.printExpr(init.Value, ast.LLowest, forbidIn)
		}
		p.print(";")
		if d.Test.Data != nil {
			p.print(" ")
			p.printExpr(d.Test, ast.LLowest, 0)
		}
		p.print(";")
		if d.Update.Data != nil {
			p.print(" ")
			p.printExpr(d.Update, ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(d.Body)
	case *ast.SForIn:
		p.print("for (")
		p.printForHead(d.Init, d.Target)
		p.print(" in ")
		p.printExpr(d.Value, ast.LLowest, 0)
		p.print(")")
		p.printBody(d.Body)
	case *ast.SForOf:
		p.print("for ")
		if d.IsAwait {
			p.print("await ")
		}
		p.print("(")
		p.printForHead(d.Init, d.Target)
		p.print(" of ")
		p.printExpr(d.Value, ast.LComma, 0)
		p.print(")")
		p.printBody(d.Body)
	case *ast.SWhile:
		p.print("while (")
		p.printExpr(d.Test, ast.LLowest, 0)
		p.print(")")
		p.printBody(d.Body)
	case *ast.SDoWhile:
		p.print("do")
		if blk, ok := d.Body.Data.(*ast.SBlock); ok {
			p.print(" ")
			p.printBlock(blk.Stmts)
			p.print(" ")
		} else {
			p.w.Newline()
			p.w.IndentPush()
			p.printStmt(d.Body)
			p.w.IndentPop()
		}
		p.print("while (")
		p.printExpr(d.Test, ast.LLowest, 0)
		p.print(")")
		p.semicolonLine()
	case *ast.STry:
		p.print("try ")
		p.printBlock(d.Block)
		if d.Catch != nil {
			p.print(" catch ")
			if d.Catch.Param.Data != nil {
				p.print("(")
				p.printPat(d.Catch.Param)
				p.print(") ")
			}
			p.printBlock(d.Catch.Body)
		}
		if d.Finally != nil {
			p.print(" finally ")
			p.printBlock(d.Finally.Stmts)
		}
		p.w.Newline()
	case *ast.SSwitch:
		p.print("switch (")
		p.printExpr(d.Test, ast.LLowest, 0)
		p.print(") {")
		p.w.Newline()
		p.w.IndentPush()
		for _, c := range d.Cases {
			if c.Test.Data != nil {
				p.print("case ")
				p.printExpr(c.Test, ast.LLowest, 0)
				p.print(":")
			} else {
				p.print("default:")
			}
			p.w.Newline()
			p.w.IndentPush()
			for _, st := range c.Body {
				p.printStmt(st)
			}
			p.w.IndentPop()
		}
		p.w.IndentPop()
		p.print("}")
		p.w.Newline()
	case *ast.SBreak:
		p.print("break")
		p.semicolonLine()
	case *ast.SContinue:
		p.print("continue")
		p.semicolonLine()
	case *ast.SEmpty:
		p.semicolonLine()
	case *ast.SImport:
		p.printImport(d)
	case *ast.SExportDecl:
		p.print("export ")
		p.printStmt(d.Decl)
	case *ast.SExportDefault:
		p.print("export default ")
		if d.Decl.Data != nil {
			p.printStmt(d.Decl)
			return
		}
		p.exportDefaultStart = p.w.Len()
		p.printExpr(d.Value, ast.LComma, 0)
		p.semicolonLine()
	case *ast.SExportNamed:
		p.print("export {")
		for i, spec := range d.Specifiers {
			if i > 0 {
				p.print(",")
			}
			p.print(" ")
			p.printModuleName(spec.Local.Name, spec.Local)
			if spec.Exported != "" && spec.Exported != spec.Local.Name {
				p.print(" as ")
				p.printModuleName(spec.Exported, ast.Ident{})
			}
		}
		if len(d.Specifiers) > 0 {
			p.print(" ")
		}
		p.print("}")
		if d.HasSource {
			p.print(" from ")
			p.print(quoteString(d.Source))
		}
		p.semicolonLine()
	case *ast.SExportAll:
		p.print("export *")
		if d.Alias != "" {
			p.print(" as ")
			p.printModuleName(d.Alias, ast.Ident{})
		}
		p.print(" from ")
		p.print(quoteString(d.Source))
		p.semicolonLine()
	default:
		panic(fmt.Sprintf("printer: unexpected statement %T", d))
	}
}

// printModuleName prints an import or export name, quoting it when it is not
// an identifier name. A non-zero id is printed with its context.
func (p *printer) printModuleName(name string, id ast.Ident) {
	if !ast.IsIdentifierName(name) {
		p.print(quoteString(name))
		return
	}
	if id.Name == name {
		p.printIdent(id)
		return
	}
	p.print(name)
}

func (p *printer) printImport(d *ast.SImport) {
	p.print("import ")
	if len(d.Specifiers) == 0 {
		p.print(quoteString(d.Source))
		p.semicolonLine()
		return
	}
	first := true
	var named []ast.ImportSpecifier
	for _, spec := range d.Specifiers {
		switch spec.Kind {
		case ast.ImportDefault:
			if !first {
				p.print(", ")
			}
			p.printIdent(spec.Local)
			first = false
		case ast.ImportNamespace:
			if !first {
				p.print(", ")
			}
			p.print("* as ")
			p.printIdent(spec.Local)
			first = false
		default:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if !first {
			p.print(", ")
		}
		p.print("{")
		for i, spec := range named {
			if i > 0 {
				p.print(",")
			}
			p.print(" ")
			if spec.Imported != "" && spec.Imported != spec.Local.Name {
				p.printModuleName(spec.Imported, ast.Ident{})
				p.print(" as ")
			}
			p.printIdent(spec.Local)
		}
		p.print(" }")
	}
	p.print(" from ")
	p.print(quoteString(d.Source))
	p.semicolonLine()
}

func (p *printer) printLocal(d *ast.SLocal, flags exprFlags) {
	p.print(d.Kind.String())
	p.print(" ")
	for i, decl := range d.Decls {
		if i > 0 {
			p.print(", ")
		}
		p.printPat(decl.Binding)
		if decl.Value.Data != nil {
			p.print(" = ")
			p.printExpr(decl.Value, ast.LComma, flags)
		}
	}
}

func (p *printer) printForHead(init ast.Stmt, target ast.Pat) {
	if local, ok := init.Data.(*ast.SLocal); ok {
		p.printLocal(local, forbidIn)
		return
	}
	p.printPat(target)
}

func (p *printer) printIf(d *ast.SIf) {
	p.print("if (")
	p.printExpr(d.Test, ast.LLowest, 0)
	p.print(")")
	if d.No.Data == nil {
		p.printBody(d.Yes)
		return
	}
	// With an else branch the consequent is always a block, so a nested if
	// cannot capture it.
	p.print(" ")
	if blk, ok := d.Yes.Data.(*ast.SBlock); ok {
		p.printBlock(blk.Stmts)
	} else {
		p.printBlock([]ast.Stmt{d.Yes})
	}
	p.print(" else")
	switch no := d.No.Data.(type) {
	case *ast.SIf:
		p.print(" ")
		p.printIf(no)
	case *ast.SBlock:
		p.print(" ")
		p.printBlock(no.Stmts)
	default:
		p.print(" ")
		p.printBlock([]ast.Stmt{d.No})
	}
}

// printBody prints the body of a control statement after its header.
func (p *printer) printBody(body ast.Stmt) {
	if blk, ok := body.Data.(*ast.SBlock); ok {
		p.print(" ")
		p.printBlock(blk.Stmts)
		p.w.Newline()
		return
	}
	if body.Data == nil {
		p.semicolonLine()
		return
	}
	p.w.Newline()
	p.w.IndentPush()
	p.printStmt(body)
	p.w.IndentPop()
}

// printBlock prints "{ ... }" without a trailing newline.
func (p *printer) printBlock(stmts []ast.Stmt) {
	p.print("{")
	if len(stmts) == 0 {
		p.print("}")
		return
	}
	p.w.Newline()
	p.w.IndentPush()
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.w.IndentPop()
	p.print("}")
}

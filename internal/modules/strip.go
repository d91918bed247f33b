package modules

import (
	"lowerjs/internal/ast"
)

// Strip turns the module body into plain statements: imports and export
// lists are dropped, exported declarations lose the export keyword and
// "export default <expr>" becomes an assignment to exports.default.
// Collect must have run on the same statements.
func (c *Collection) Strip(stmts []ast.Stmt, exports ast.Ident) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, st := range stmts {
		switch d := st.Data.(type) {
		case *ast.SImport, *ast.SExportNamed, *ast.SExportAll:
			continue
		case *ast.SExportDecl:
			out = append(out, d.Decl)
		case *ast.SExportDefault:
			if d.Decl.Data != nil {
				out = append(out, d.Decl)
				continue
			}
			target := ast.Member(st.Span, ast.IdentExpr(exports), "default")
			out = append(out, ast.Stmt{Span: st.Span, Data: &ast.SExpr{Value: ast.AssignTo(st.Span, target, d.Value)}})
		default:
			out = append(out, st)
		}
	}
	return out
}

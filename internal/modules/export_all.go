package modules

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/hygiene"
)

// HandleExportAll builds the loop that re-exports every key of imported:
//
//	Object.keys(_foo).forEach(function (key) {
//	  if (key === "default" || key === "__esModule") return;
//	  if (Object.prototype.hasOwnProperty.call(_exportNames, key)) return;
//	  if (key in exports && exports[key] === _foo[key]) return;
//	  Object.defineProperty(exports, key, {
//	    enumerable: true,
//	    get: function () {
//	      return _foo[key];
//	    }
//	  });
//	});
//
// The _exportNames check is left out when exportNames is nil.
func HandleExportAll(alloc *hygiene.Allocator, exports ast.Ident, exportNames *ast.Ident, imported ast.Ident) ast.Stmt {
	key := ast.NewPrivateIdent(alloc, nospan, "key")
	keyExpr := func() ast.Expr { return ast.IdentExpr(key) }
	index := func(obj ast.Ident) ast.Expr {
		return ast.Expr{Data: &ast.EIndex{Target: ast.IdentExpr(obj), Index: keyExpr()}}
	}
	eq := func(l, r ast.Expr) ast.Expr { return ast.Binary(nospan, ast.BinStrictEq, l, r) }
	skipIf := func(test ast.Expr) ast.Stmt {
		return ast.Stmt{Data: &ast.SIf{Test: test, Yes: ast.Stmt{Data: &ast.SReturn{}}}}
	}

	body := []ast.Stmt{
		skipIf(ast.Binary(nospan, ast.BinLogicalOr,
			eq(keyExpr(), ast.Str(nospan, "default")),
			eq(keyExpr(), ast.Str(nospan, "__esModule")))),
	}
	if exportNames != nil {
		hasOwn := ast.MemberChain(nospan, "Object", "prototype", "hasOwnProperty", "call")
		body = append(body, skipIf(ast.Call(nospan, hasOwn, ast.IdentExpr(*exportNames), keyExpr())))
	}
	body = append(body,
		skipIf(ast.Binary(nospan, ast.BinLogicalAnd,
			ast.Binary(nospan, ast.BinIn, keyExpr(), ast.IdentExpr(exports)),
			eq(index(exports), index(imported)))),
		ast.ExprStmt(DefineProperty(ast.IdentExpr(exports), keyExpr(), MakeDescriptor(index(imported)))),
	)

	keys := ast.Call(nospan, ast.MemberChain(nospan, "Object", "keys"), ast.IdentExpr(imported))
	forEach := ast.Member(nospan, keys, "forEach")
	return ast.ExprStmt(ast.Call(nospan, forEach, ast.FuncExpr(nospan, ast.Params(key), body)))
}

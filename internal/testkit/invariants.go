package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lowerjs/internal/ast"
	"lowerjs/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) every top-level statement span is non-empty and lies within the file content
// 2) top-level statements appear in source order and do not overlap
// 3) every identifier occurrence lies inside the statement that contains it
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, st := range prog.Stmts {
		sp := st.Span
		if sp.End <= sp.Start {
			// a lone ";" still spans one byte
			return fmt.Errorf("empty statement span #%d: %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("statement span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("statement span end beyond content: %d > %d", sp.End, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("statement #%d span %v overlaps previous %v", i, sp, prev)
		}
		prev = sp

		var bad error
		w := ast.Walker{Ident: func(id *ast.Ident) {
			if bad != nil || id.Span.IsZero() {
				return
			}
			if id.Span.Start < sp.Start || id.Span.End > sp.End {
				bad = fmt.Errorf("identifier %q span %v is outside statement span %v", id.Name, id.Span, sp)
			}
		}}
		w.WalkStmt(&prog.Stmts[i])
		if bad != nil {
			return bad
		}
	}
	return nil
}

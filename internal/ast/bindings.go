package ast

// PatBindings returns the identifiers a binding pattern declares, in source
// order. Member targets (PExpr) declare nothing.
func PatBindings(p Pat) []Ident {
	var out []Ident
	collectPat(p, &out)
	return out
}

func collectPat(p Pat, out *[]Ident) {
	switch d := p.Data.(type) {
	case *PIdent:
		*out = append(*out, d.Ident)
	case *PArray:
		for _, it := range d.Items {
			collectPat(it.Value, out)
		}
		collectPat(d.Rest, out)
	case *PObject:
		for _, pp := range d.Props {
			collectPat(pp.Value, out)
		}
		collectPat(d.Rest, out)
	}
}

// DeclBindings returns the names declared by a declaration statement: every
// binding of an SLocal, or the name of a function or class.
func DeclBindings(s Stmt) []Ident {
	switch d := s.Data.(type) {
	case *SLocal:
		var out []Ident
		for _, decl := range d.Decls {
			collectPat(decl.Binding, &out)
		}
		return out
	case *SFunction:
		if d.Fn.Name != nil {
			return []Ident{*d.Fn.Name}
		}
	case *SClass:
		if d.Class.Name != nil {
			return []Ident{*d.Class.Name}
		}
	}
	return nil
}

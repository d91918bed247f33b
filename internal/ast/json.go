package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"lowerjs/internal/source"
)

// Nodes are encoded as {"span":...,"type":"EIdent","data":{...}} so that a
// tree produced by an external parser can be fed to the pipeline and a parsed
// tree can be dumped for inspection.

type nodeJSON struct {
	Span source.Span     `json:"span"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func registry[T any](ctors ...func() T) map[string]func() T {
	m := make(map[string]func() T, len(ctors))
	for _, c := range ctors {
		m[kindName(c())] = c
	}
	return m
}

func kindName(v any) string {
	return reflect.TypeOf(v).Elem().Name()
}

var exprKinds = registry(
	func() E { return &EArray{} },
	func() E { return &EObject{} },
	func() E { return &EIdent{} },
	func() E { return &EThis{} },
	func() E { return &ESuper{} },
	func() E { return &ENumber{} },
	func() E { return &EString{} },
	func() E { return &EBoolean{} },
	func() E { return &ENull{} },
	func() E { return &EUndefined{} },
	func() E { return &EFunction{} },
	func() E { return &EArrow{} },
	func() E { return &EClass{} },
	func() E { return &ECall{} },
	func() E { return &ENew{} },
	func() E { return &EDot{} },
	func() E { return &EIndex{} },
	func() E { return &EImportCall{} },
	func() E { return &EUnary{} },
	func() E { return &EUpdate{} },
	func() E { return &EBinary{} },
	func() E { return &EAssign{} },
	func() E { return &ESeq{} },
	func() E { return &ECond{} },
	func() E { return &ESpread{} },
	func() E { return &EMissing{} },
	func() E { return &EAwait{} },
	func() E { return &EYield{} },
)

var stmtKinds = registry(
	func() S { return &SExpr{} },
	func() S { return &SDirective{} },
	func() S { return &SLocal{} },
	func() S { return &SFunction{} },
	func() S { return &SClass{} },
	func() S { return &SReturn{} },
	func() S { return &SThrow{} },
	func() S { return &SIf{} },
	func() S { return &SBlock{} },
	func() S { return &SFor{} },
	func() S { return &SForIn{} },
	func() S { return &SForOf{} },
	func() S { return &SWhile{} },
	func() S { return &SDoWhile{} },
	func() S { return &STry{} },
	func() S { return &SSwitch{} },
	func() S { return &SBreak{} },
	func() S { return &SContinue{} },
	func() S { return &SEmpty{} },
	func() S { return &SImport{} },
	func() S { return &SExportDecl{} },
	func() S { return &SExportDefault{} },
	func() S { return &SExportNamed{} },
	func() S { return &SExportAll{} },
)

var patKinds = registry(
	func() P { return &PIdent{} },
	func() P { return &PArray{} },
	func() P { return &PObject{} },
	func() P { return &PExpr{} },
	func() P { return &PMissing{} },
)

func marshalNode(span source.Span, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{Span: span, Type: kindName(data), Data: raw})
}

func unmarshalNode[T any](b []byte, kinds map[string]func() T) (source.Span, T, error) {
	var zero T
	var n nodeJSON
	if err := json.Unmarshal(b, &n); err != nil {
		return source.Span{}, zero, err
	}
	ctor, ok := kinds[n.Type]
	if !ok {
		return source.Span{}, zero, fmt.Errorf("ast: unknown node type %q", n.Type)
	}
	data := ctor()
	if len(n.Data) > 0 {
		if err := json.Unmarshal(n.Data, data); err != nil {
			return source.Span{}, zero, fmt.Errorf("ast: %s: %w", n.Type, err)
		}
	}
	return n.Span, data, nil
}

func (e Expr) MarshalJSON() ([]byte, error) {
	if e.Data == nil {
		return []byte("null"), nil
	}
	return marshalNode(e.Span, e.Data)
}

func (e *Expr) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*e = Expr{}
		return nil
	}
	span, data, err := unmarshalNode(b, exprKinds)
	if err != nil {
		return err
	}
	*e = Expr{Span: span, Data: data}
	return nil
}

func (s Stmt) MarshalJSON() ([]byte, error) {
	if s.Data == nil {
		return []byte("null"), nil
	}
	return marshalNode(s.Span, s.Data)
}

func (s *Stmt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Stmt{}
		return nil
	}
	span, data, err := unmarshalNode(b, stmtKinds)
	if err != nil {
		return err
	}
	*s = Stmt{Span: span, Data: data}
	return nil
}

func (p Pat) MarshalJSON() ([]byte, error) {
	if p.Data == nil {
		return []byte("null"), nil
	}
	return marshalNode(p.Span, p.Data)
}

func (p *Pat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Pat{}
		return nil
	}
	span, data, err := unmarshalNode(b, patKinds)
	if err != nil {
		return err
	}
	*p = Pat{Span: span, Data: data}
	return nil
}

// EncodeProgram writes the program as indented JSON.
func EncodeProgram(w io.Writer, p *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// DecodeProgram reads a program written by EncodeProgram or by an external
// producer of the same format.
func DecodeProgram(r io.Reader) (*Program, error) {
	var p Program
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("ast: decode program: %w", err)
	}
	return &p, nil
}

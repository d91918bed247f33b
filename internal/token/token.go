package token

import (
	"lowerjs/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Value is the decoded content of a string literal.
	Value string
	// NewlineBefore is set when a line terminator separates the token from
	// the previous one.
	NewlineBefore bool
}

// IsIdentName reports whether the token may serve as a property name:
// identifiers and reserved words alike.
func (t Token) IsIdentName() bool {
	return t.Kind == Ident || t.Kind.IsKeyword()
}

// Is reports whether the token is the identifier spelled word. Used for
// contextual keywords.
func (t Token) Is(word string) bool {
	return t.Kind == Ident && t.Text == word
}

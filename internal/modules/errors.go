package modules

import (
	"fmt"

	"lowerjs/internal/source"
)

// UnsupportedError reports a module shape the collection phase cannot lower.
// It means the parser let through something it should have rejected.
type UnsupportedError struct {
	Span  source.Span
	Shape string
}

func (e *UnsupportedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "unsupported module shape: " + e.Shape
}

// ResolutionError is returned when an ImportResolver cannot map a specifier.
type ResolutionError struct {
	Base      string
	Specifier string
	Err       error
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Base == "" {
		return fmt.Sprintf("failed to resolve import %q: %v", e.Specifier, e.Err)
	}
	return fmt.Sprintf("failed to resolve import %q from %s: %v", e.Specifier, e.Base, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

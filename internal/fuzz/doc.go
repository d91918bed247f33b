// Package fuzztests holds Go fuzz harnesses for the source -> lexer ->
// parser -> lowering pipeline. They guard against panics and hangs on
// arbitrary input and check that lowered output parses again.
package fuzztests

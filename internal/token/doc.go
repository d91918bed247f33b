// Package token defines lexical token kinds for the supported JavaScript
// subset.
// Invariants:
//   - Token.Text is the exact source slice for the token (string literals
//     keep their quotes; the decoded value lives in Token.Value).
//   - Token.Span matches Text exactly.
//   - Contextual words (as, from, of, get, set, static, async, await, yield,
//     let) are Ident tokens; the parser recognizes them by Text.
//   - Comments and whitespace never reach the token stream; a token records
//     only whether a line terminator preceded it, which is what automatic
//     semicolon insertion needs.
package token

// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// Producers emit through a Reporter so that storage and rendering stay
// decoupled: BagReporter collects into a Bag, DedupReporter filters repeated
// findings, and internal/diagfmt renders the result for humans.
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form (LEX1001).
//   - Message – short and actionable.
//   - Primary – the source.Span pointing at the problem.
//   - Notes – optional secondary spans with extra context.
//
// Engine failures that abort a compilation (resolution failures, unsupported
// tree shapes) are Go errors, not diagnostics; see internal/modules.
package diag

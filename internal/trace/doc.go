// Package trace records what the lowerjs driver is doing while it compiles.
//
// Spans mark the boundaries of a build (driver scope), of each compilation
// phase (pass scope: parse, resolve, lower, rename, print) and of each file
// in a directory build (module scope). The CLI enables it with
//
//	lowerjs build --trace=- --trace-level=phase src/
//
// Events go to a StreamTracer (text or NDJSON, written as they happen), to a
// RingTracer that keeps the most recent events for a dump after a failure,
// or to both through a MultiTracer. When tracing is off every call lands on
// Nop.
//
// The tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lower", parent)
//	defer span.End("")
package trace

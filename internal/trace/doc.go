// Package trace is the logging layer of stencil: structured spans and
// point events describing what the expander is doing.
//
// # Usage
//
//	stencil expand --trace=- --trace-level=phase templates/
//
// # Tracers
//
//   - Nop: tracing disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory, dumped on panic
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// The level selects which scopes are emitted. Phase shows driver and pass
// boundaries (lex, tree, declare, instantiate, apply, format, cache),
// detail adds one span per file and per template, debug adds individual
// annotation rewrites.
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "declare", parentID)
//	defer span.End("")
package trace

// Package trace records spans around loading, compiling and executing
// scripts, to diagnose slow sections and scripts that never return.
//
// # Usage
//
//	easel run --trace=- --trace-level=section script.eel
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (text, NDJSON or Chrome)
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope up to its own granularity:
//
//   - LevelPhase: ScopeCommand and ScopePhase (segment, compile pass)
//   - LevelSection: adds ScopeSection (compile/exec of one section)
//   - LevelDebug: adds ScopeHost (host function calls)
//
// LevelError records nothing while running; the ring is dumped when a
// command fails.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "segment", 0)
//	defer span.End("")
package trace

// Package types provides shared data structures for the studytrace backend.
//
// This package defines core types used across all engine components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Session: One continuous study attempt between start and stop/discard
//   - ActivityCounters: Per-session passive interaction accumulators
//   - DistractionEvent: One interval of inferred non-engagement
//   - MLDataPoint: Exported per-session feature record
//   - SessionLogRecord: Durable per-session log entry
//
// Signal Types:
//   - Signal: Closed tagged variant for passive interaction signals
//   - SignalVisibility, SignalKeyPress, ...: The accepted signal kinds
//
// State Management:
//   - SessionState: Lifecycle state enum (idle, active, on_break)
//   - BreakKind, BreakState: Spaced-break scheduler state
//   - FocusLevel: Classification enum (attentive, semi-attentive, distracted)
package types

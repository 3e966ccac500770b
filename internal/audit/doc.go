// Package audit defines the audit event model and sink implementations used by
// the engine's async dispatcher.
//
// # Architecture boundaries
//
// This package owns the Event shape and the built-in sinks (NoOp, Channel,
// JSONWriter). Dispatch buffering and drop accounting live in the root
// package's dispatcher, which is the only writer.
//
// # What this package must NOT do
//
//   - Import the root package or any sibling package.
//   - Block indefinitely in a sink; Emit honors ctx cancellation.
//   - Carry secret material in events. Metadata values are identifiers only.
package audit

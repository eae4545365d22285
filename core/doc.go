// Package core provides the foundational domain types, interfaces and
// log-replay logic used by MazeMesh. It defines the core abstractions for:
//
//   - Experiments (one autonomous maze-exploration run with terminal status)
//   - Action records (immutable, per-step entries of the append-only log)
//   - Mazes (static read-only grid definitions)
//   - Pure replay functions deriving position and spatial memory from an
//     ordered log prefix
//   - Pluggable stores for the action log, experiments and mazes, plus the
//     experiment-scoped advisory locker
//
// The package intentionally keeps implementation concerns (persistence,
// locking transports, the orchestration manager) out of scope, exposing small
// interfaces to enable custom backends. The replay functions are total and
// side-effect-free so derived state can be tested without a datastore.
package core

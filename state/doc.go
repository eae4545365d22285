// Package state implements the stateless orchestration state manager. Each
// agent invocation is independent and retains no memory, so the Manager
// reconstructs position and spatial memory from the append-only action log on
// every access, appends new entries with monotonic step bookkeeping, patches
// turn-level token usage, and performs the single terminal transition of an
// experiment.
//
// Correctness depends on the locking discipline: every read of derived state
// and every append for one experiment must happen inside WithTurn, which
// scopes the experiment's advisory lock around one read-decide-append cycle.
// Reads outside the lock (replay viewers, reporting) are allowed where slight
// staleness is acceptable.
package state

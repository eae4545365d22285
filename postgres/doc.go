// Package postgres provides the durable, shared-datastore implementation of
// the core store and locker interfaces on top of pgx. The advisory locker
// uses session-scoped pg_advisory_lock keyed by experiment id: the lock is
// tied to the holding connection, so the database releases it automatically
// when a crashed or timed-out invocation's session tears down. No experiment
// can stay permanently wedged.
//
// The schema (experiments, agent_actions, mazes) ships embedded and is
// applied idempotently by Open.
package postgres

// Package store provides volatile in-memory implementations of the core
// store and locker interfaces. They are safe for concurrent access and best
// suited for tests, examples and exercising the log-replay logic without a
// datastore. Production deployments use the postgres package.
package store

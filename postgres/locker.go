package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/mazemesh/core"
	"github.com/hupe1980/mazemesh/logging"
)

// AdvisoryLockerOptions configures NewAdvisoryLocker.
type AdvisoryLockerOptions struct {
	// Logger for structured diagnostics.
	Logger logging.Logger
}

// AdvisoryLocker implements core.Locker with session-scoped postgres
// advisory locks. Acquire pins a dedicated connection from the pool and runs
// pg_advisory_lock(experimentID) on it, blocking server-side until the lock
// is granted or ctx is done. The returned Unlock runs pg_advisory_unlock and
// returns the connection to the pool.
//
// The session scoping is the crash-safety property the orchestration needs:
// if the invocation dies while holding the lock, the connection's session
// ends and the database releases the lock. No application-level timeout is
// involved. Whenever the unlock cannot be confirmed (canceled acquire,
// failed unlock), the connection is destroyed instead of returned, forcing
// session teardown so the lock can never leak onto a reused pooled session.
type AdvisoryLocker struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAdvisoryLocker constructs an advisory locker over the given pool.
func NewAdvisoryLocker(pool *pgxpool.Pool, optFns ...func(o *AdvisoryLockerOptions)) *AdvisoryLocker {
	opts := AdvisoryLockerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &AdvisoryLocker{pool: pool, logger: opts.Logger}
}

// Acquire blocks until the exclusive, experiment-scoped lock is held or ctx
// is done.
func (l *AdvisoryLocker) Acquire(ctx context.Context, experimentID int64) (core.Unlock, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	start := time.Now()
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, experimentID); err != nil {
		// The lock request may still be granted server-side after a local
		// cancellation. Destroy the session so a granted lock is released
		// with it rather than leaking onto a reused connection.
		conn.Conn().Close(context.Background())
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock for experiment %d: %w", experimentID, err)
	}
	l.logger.Debug("advisory lock acquired", "experiment_id", experimentID, "wait", time.Since(start))

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			// Unlock with a fresh context: the critical section's ctx may
			// already be canceled, and the lock must be released regardless.
			if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, experimentID); err != nil {
				l.logger.Warn("advisory unlock failed, destroying session", "experiment_id", experimentID, "error", err.Error())
				conn.Conn().Close(context.Background())
			}
			conn.Release()
		})
	}
	return unlock, nil
}

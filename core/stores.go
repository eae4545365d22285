package core

import (
	"context"
	"time"
)

// LogStore persists the append-only action log. Implementations must order
// and filter by (experiment_id, step_number); they never mutate records
// except for the turn-level token patch.
type LogStore interface {
	// Append inserts a new immutable record. The caller has already
	// assigned the step number under the experiment lock.
	Append(ctx context.Context, rec ActionRecord) error
	// Latest returns the record with the highest step number for the
	// experiment, or nil when the log is empty.
	Latest(ctx context.Context, experimentID int64) (*ActionRecord, error)
	// Recent returns up to limit records ordered by step number descending.
	// limit <= 0 means all records.
	Recent(ctx context.Context, experimentID int64, limit int) ([]ActionRecord, error)
	// MaxStep returns the highest assigned step number, 0 when none.
	MaxStep(ctx context.Context, experimentID int64) (int, error)
	// UpdateTurnUsage patches every record of the turn with the turn-level
	// token totals. Overwrites, never accumulates.
	UpdateTurnUsage(ctx context.Context, experimentID int64, turnNumber int, usage TokenUsage) error
}

// ExperimentStore persists experiment rows and their terminal transition.
type ExperimentStore interface {
	Create(ctx context.Context, exp *Experiment) error
	Get(ctx context.Context, id int64) (*Experiment, error)
	// SetTerminal writes the one terminal transition: status, goal flag,
	// structured last error (nil on the success path) and completion time.
	SetTerminal(ctx context.Context, id int64, status ExecutionStatus, goalFound bool, lastError *ExecError, completedAt time.Time) error
}

// MazeStore provides read access to static maze definitions. Put exists for
// provisioning and tests; the orchestration core itself only reads.
type MazeStore interface {
	Get(ctx context.Context, id int64) (*Maze, error)
	Put(ctx context.Context, m *Maze) error
}

// Unlock releases a held experiment lock. Safe to call exactly once; the
// manager calls it when the critical section returns.
type Unlock func()

// Locker provides the exclusive, experiment-scoped advisory lock spanning one
// read-decide-append cycle. Acquire blocks until the lock is held or ctx is
// done. Implementations must release the lock on transport/session teardown
// when the holder dies, so a crashed invocation never wedges an experiment.
// Locks for different experiment ids are fully independent.
type Locker interface {
	Acquire(ctx context.Context, experimentID int64) (Unlock, error)
}

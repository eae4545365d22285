package state

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/mazemesh/core"
	"github.com/hupe1980/mazemesh/logging"
	"github.com/hupe1980/mazemesh/store"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// LogStore persists the append-only action log.
	LogStore core.LogStore
	// ExperimentStore persists experiment rows and terminal transitions.
	ExperimentStore core.ExperimentStore
	// MazeStore provides read access to maze definitions.
	MazeStore core.MazeStore
	// Locker provides the experiment-scoped exclusive lock.
	Locker core.Locker
	// MemoryWindow bounds SeenTiles when the caller passes no explicit
	// window. 0 means unbounded.
	MemoryWindow int
	// Logger for structured diagnostics.
	Logger logging.Logger
}

// Manager coordinates all per-experiment state operations: position
// reconstruction, memory aggregation, appends, token reconciliation and
// finalization. Public methods are safe for concurrent use; methods that read
// and then write derived state for the same experiment must run inside
// WithTurn.
type Manager struct {
	logs         core.LogStore
	experiments  core.ExperimentStore
	mazes        core.MazeStore
	locker       core.Locker
	memoryWindow int
	logger       logging.Logger
}

// New constructs a Manager with optional overrides. Unset services default to
// in-memory implementations suitable for tests and examples.
func New(optFns ...func(o *Options)) *Manager {
	opts := Options{
		LogStore:        store.NewInMemoryLog(),
		ExperimentStore: store.NewInMemoryExperiments(),
		MazeStore:       store.NewInMemoryMazes(),
		Locker:          store.NewInMemoryLocker(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		logs:         opts.LogStore,
		experiments:  opts.ExperimentStore,
		mazes:        opts.MazeStore,
		locker:       opts.Locker,
		memoryWindow: opts.MemoryWindow,
		logger:       opts.Logger,
	}
}

// WithTurn acquires the experiment lock, runs fn inside the critical section
// and releases the lock when fn returns. The TurnContext passed to fn carries
// the position/memory/append operations so the whole read-decide-append cycle
// of one turn stays inside the lock scope. fn's error is returned unmodified.
func (m *Manager) WithTurn(ctx context.Context, experimentID int64, turnNumber int, fn func(tc *TurnContext) error) error {
	waitStart := time.Now()
	unlock, err := m.locker.Acquire(ctx, experimentID)
	if err != nil {
		return fmt.Errorf("acquire experiment %d lock: %w", experimentID, err)
	}
	defer unlock()
	m.logger.Debug("experiment lock acquired", "experiment_id", experimentID, "turn_number", turnNumber, "wait", time.Since(waitStart))

	return fn(newTurnContext(ctx, m, experimentID, turnNumber))
}

// CurrentPosition derives the agent's current coordinates from the log tail,
// falling back to the experiment's configured start position when the log is
// empty. Must be called under the experiment lock when the result feeds a
// subsequent append.
func (m *Manager) CurrentPosition(ctx context.Context, experimentID int64) (core.Position, error) {
	exp, err := m.experiments.Get(ctx, experimentID)
	if err != nil {
		return core.Position{}, err
	}
	latest, err := m.logs.Latest(ctx, experimentID)
	if err != nil {
		return core.Position{}, fmt.Errorf("fetch latest action for experiment %d: %w", experimentID, err)
	}
	return core.ReplayPosition(exp.Start(), latest), nil
}

// SeenTiles folds the tiles-seen payloads of the most recent maxRecentActions
// log entries (0 = manager default, negative = unbounded) into one map,
// latest observation winning per tile. Reads at most the window's worth of
// entries regardless of total log length. Lock-free calls are allowed for
// reporting where staleness is acceptable.
func (m *Manager) SeenTiles(ctx context.Context, experimentID int64, maxRecentActions int) (map[string]core.Tile, error) {
	limit := maxRecentActions
	if limit == 0 {
		limit = m.memoryWindow
	}
	if limit < 0 {
		limit = 0
	}
	recs, err := m.logs.Recent(ctx, experimentID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent actions for experiment %d: %w", experimentID, err)
	}
	reverseRecords(recs)
	return core.FoldTiles(recs), nil
}

// Snapshot replays the full log into a derived state snapshot (position,
// merged tiles, last step/turn). Intended for the workflow engine's progress
// checks and for replay consumers.
func (m *Manager) Snapshot(ctx context.Context, experimentID int64) (core.Snapshot, error) {
	exp, err := m.experiments.Get(ctx, experimentID)
	if err != nil {
		return core.Snapshot{}, err
	}
	recs, err := m.logs.Recent(ctx, experimentID, 0)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("fetch actions for experiment %d: %w", experimentID, err)
	}
	reverseRecords(recs)
	return core.Replay(exp.Start(), recs), nil
}

// Append validates rec, assigns the next monotonic step number and inserts
// the record. Returns the assigned step number. Must be called under the
// experiment lock, after the position feeding rec.From was read under the
// same lock.
func (m *Manager) Append(ctx context.Context, rec core.ActionRecord) (int, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	maxStep, err := m.logs.MaxStep(ctx, rec.ExperimentID)
	if err != nil {
		return 0, fmt.Errorf("read max step for experiment %d: %w", rec.ExperimentID, err)
	}
	rec.StepNumber = maxStep + 1
	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if err := m.logs.Append(ctx, rec); err != nil {
		return 0, fmt.Errorf("append step %d for experiment %d: %w", rec.StepNumber, rec.ExperimentID, err)
	}
	m.logger.Info("action appended", "experiment_id", rec.ExperimentID, "step_number", rec.StepNumber, "turn_number", rec.TurnNumber, "action_type", string(rec.Kind), "success", rec.Success)
	return rec.StepNumber, nil
}

// RecordTurnUsage patches every log entry of the turn with the turn-level
// token totals. Token accounting is only known after the invocation
// completes, while the turn's entries were already appended. Idempotent:
// values are overwritten, not accumulated.
func (m *Manager) RecordTurnUsage(ctx context.Context, experimentID int64, turnNumber int, usage core.TokenUsage) error {
	if err := m.logs.UpdateTurnUsage(ctx, experimentID, turnNumber, usage); err != nil {
		return fmt.Errorf("record usage for experiment %d turn %d: %w", experimentID, turnNumber, err)
	}
	m.logger.Debug("turn usage recorded", "experiment_id", experimentID, "turn_number", turnNumber, "input_tokens", usage.InputTokens, "output_tokens", usage.OutputTokens)
	return nil
}

// Maze returns the maze backing the experiment.
func (m *Manager) Maze(ctx context.Context, experimentID int64) (*core.Maze, error) {
	exp, err := m.experiments.Get(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	return m.mazes.Get(ctx, exp.MazeID)
}

// Experiment returns the experiment row.
func (m *Manager) Experiment(ctx context.Context, experimentID int64) (*core.Experiment, error) {
	return m.experiments.Get(ctx, experimentID)
}

// Finalize performs the single terminal transition RUNNING -> {SUCCEEDED,
// FAILED, TIMED_OUT}. The workflow engine calls it exactly once when it
// decides no further turns will run.
//
// Failure path: status is TIMED_OUT iff outcome.ErrorKind is the timeout
// kind, FAILED otherwise; goal_found is false and a structured last error is
// persisted. Success path: the latest entry's tiles are inspected for the
// goal; status is SUCCEEDED regardless of whether the goal was found, since
// "execution completed" and "goal reached" are orthogonal.
//
// A second call for an already-completed experiment is a caller bug; the
// write still lands (last write wins) but is logged as a warning.
func (m *Manager) Finalize(ctx context.Context, experimentID int64, outcome core.Outcome) error {
	exp, err := m.experiments.Get(ctx, experimentID)
	if err != nil {
		return err
	}
	if exp.Completed() {
		m.logger.Warn("finalizing already-completed experiment", "experiment_id", experimentID, "execution_status", string(exp.ExecutionStatus))
	}

	now := time.Now().UTC()

	if outcome.ExplicitFailure {
		status := core.StatusFailed
		if outcome.ErrorKind == core.ErrorKindTimeout {
			status = core.StatusTimedOut
		}
		lastErr := &core.ExecError{Kind: outcome.ErrorKind, Cause: outcome.Cause, Timestamp: now}
		if err := m.experiments.SetTerminal(ctx, experimentID, status, false, lastErr, now); err != nil {
			return fmt.Errorf("finalize experiment %d: %w", experimentID, err)
		}
		m.logger.Warn("experiment finalized", "experiment_id", experimentID, "execution_status", string(status), "error_kind", string(outcome.ErrorKind), "cause", outcome.Cause)
		return nil
	}

	latest, err := m.logs.Latest(ctx, experimentID)
	if err != nil {
		return fmt.Errorf("fetch latest action for experiment %d: %w", experimentID, err)
	}
	goalFound := latest != nil && core.GoalSeen(latest.TilesSeen)
	if err := m.experiments.SetTerminal(ctx, experimentID, core.StatusSucceeded, goalFound, nil, now); err != nil {
		return fmt.Errorf("finalize experiment %d: %w", experimentID, err)
	}
	m.logger.Info("experiment finalized", "experiment_id", experimentID, "execution_status", string(core.StatusSucceeded), "goal_found", goalFound)
	return nil
}

func reverseRecords(recs []core.ActionRecord) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}

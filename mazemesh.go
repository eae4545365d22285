// Package mazemesh provides a high-level façade over the orchestration state
// manager and its service abstractions (log store, experiment store, maze
// store, locker & logging) for driving autonomous maze-exploration agents
// across stateless invocations. Most applications interact with this package
// by:
//  1. Creating a MazeMesh via New() (optionally overriding default in-memory services)
//  2. Running turns with RunTurn (lock → reconstruct state → decide → append)
//  3. Reconciling token usage with RecordTurnUsage after each invocation
//  4. Calling Finalize exactly once when the workflow decides to stop
//
// The façade delegates to state.Manager while keeping setup and usage
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments supply the postgres-backed stores and
// advisory locker plus a structured logger.
package mazemesh

import (
	"context"

	"github.com/hupe1980/mazemesh/core"
	"github.com/hupe1980/mazemesh/logging"
	"github.com/hupe1980/mazemesh/state"
	"github.com/hupe1980/mazemesh/store"
)

// Options configures the MazeMesh instance.
type Options struct {
	// Stores (default to in-memory implementations if not provided)
	LogStore        core.LogStore
	ExperimentStore core.ExperimentStore
	MazeStore       core.MazeStore

	// Locker provides the experiment-scoped exclusive lock (defaults to the
	// in-process locker).
	Locker core.Locker

	// MemoryWindow bounds aggregated spatial memory by default. 0 means
	// unbounded.
	MemoryWindow int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// MazeMesh is the high-level façade aggregating the state manager and services.
type MazeMesh struct {
	opts    Options
	manager *state.Manager
}

// New creates a new MazeMesh instance with optional overrides. Any unset
// service is replaced by an in-memory default.
func New(optFns ...func(o *Options)) *MazeMesh {
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

	manager := state.New(func(o *state.Options) {
		o.LogStore = opts.LogStore
		o.ExperimentStore = opts.ExperimentStore
		o.MazeStore = opts.MazeStore
		o.Locker = opts.Locker
		o.MemoryWindow = opts.MemoryWindow
		o.Logger = opts.Logger
	})

	return &MazeMesh{opts: opts, manager: manager}
}

// Manager exposes the underlying state manager for callers needing the full
// operation surface.
func (m *MazeMesh) Manager() *state.Manager { return m.manager }

// CreateExperiment stores a new experiment row.
func (m *MazeMesh) CreateExperiment(ctx context.Context, exp *core.Experiment) error {
	return m.opts.ExperimentStore.Create(ctx, exp)
}

// PutMaze stores a maze definition.
func (m *MazeMesh) PutMaze(ctx context.Context, maze *core.Maze) error {
	return m.opts.MazeStore.Put(ctx, maze)
}

// RunTurn executes fn inside the experiment's locked critical section. See
// state.Manager.WithTurn.
func (m *MazeMesh) RunTurn(ctx context.Context, experimentID int64, turnNumber int, fn func(tc *state.TurnContext) error) error {
	return m.manager.WithTurn(ctx, experimentID, turnNumber, fn)
}

// RecordTurnUsage reconciles token accounting for one finished turn.
func (m *MazeMesh) RecordTurnUsage(ctx context.Context, experimentID int64, turnNumber int, usage core.TokenUsage) error {
	return m.manager.RecordTurnUsage(ctx, experimentID, turnNumber, usage)
}

// Snapshot returns the fully replayed derived state of an experiment.
func (m *MazeMesh) Snapshot(ctx context.Context, experimentID int64) (core.Snapshot, error) {
	return m.manager.Snapshot(ctx, experimentID)
}

// Finalize performs the terminal transition for an experiment.
func (m *MazeMesh) Finalize(ctx context.Context, experimentID int64, outcome core.Outcome) error {
	return m.manager.Finalize(ctx, experimentID, outcome)
}

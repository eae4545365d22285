package state

import (
	"context"

	"github.com/hupe1980/mazemesh/core"
)

// TurnContext is the locked execution scope of one agent turn. It is handed
// to the WithTurn callback and carries the operations whose correctness
// depends on the experiment lock being held. It must not escape the callback:
// the lock is released when the callback returns.
type TurnContext struct {
	// Context is the ambient cancellation context of the invocation.
	Context context.Context
	// ExperimentID identifies the locked experiment.
	ExperimentID int64
	// TurnNumber groups this invocation's appended steps.
	TurnNumber int

	manager *Manager
}

func newTurnContext(ctx context.Context, m *Manager, experimentID int64, turnNumber int) *TurnContext {
	return &TurnContext{Context: ctx, ExperimentID: experimentID, TurnNumber: turnNumber, manager: m}
}

// CurrentPosition reconstructs the agent's position under the held lock.
func (tc *TurnContext) CurrentPosition() (core.Position, error) {
	return tc.manager.CurrentPosition(tc.Context, tc.ExperimentID)
}

// SeenTiles aggregates the bounded spatial memory under the held lock.
// maxRecentActions: 0 = manager default window, negative = unbounded.
func (tc *TurnContext) SeenTiles(maxRecentActions int) (map[string]core.Tile, error) {
	return tc.manager.SeenTiles(tc.Context, tc.ExperimentID, maxRecentActions)
}

// Maze returns the experiment's maze definition.
func (tc *TurnContext) Maze() (*core.Maze, error) {
	return tc.manager.Maze(tc.Context, tc.ExperimentID)
}

// Append stamps rec with the turn context's experiment and turn numbers,
// assigns the next step number and inserts the record. Returns the assigned
// step number.
func (tc *TurnContext) Append(rec core.ActionRecord) (int, error) {
	rec.ExperimentID = tc.ExperimentID
	rec.TurnNumber = tc.TurnNumber
	return tc.manager.Append(tc.Context, rec)
}

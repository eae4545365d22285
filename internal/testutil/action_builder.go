package testutil

import (
	"time"

	"github.com/hupe1980/mazemesh/core"
)

// ActionBuilder provides a fluent helper for constructing action records in
// tests. Example:
//
//	rec := NewActionBuilder().Experiment(1).Turn(2).Move(core.ActionMoveEast, 0, 0, 1, 0).Sees("1,0", core.TileEmpty).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ActionBuilder struct {
	rec core.ActionRecord
}

// NewActionBuilder creates a builder for a successful recall action at the
// origin.
func NewActionBuilder() *ActionBuilder {
	return &ActionBuilder{rec: core.ActionRecord{
		ID:        core.NewID(),
		Kind:      core.ActionRecall,
		Success:   true,
		Timestamp: time.Now().UTC(),
	}}
}

// Experiment sets the experiment id (chainable).
func (b *ActionBuilder) Experiment(id int64) *ActionBuilder { b.rec.ExperimentID = id; return b }

// Step sets the step number (chainable). Leave unset when the appender
// assigns it.
func (b *ActionBuilder) Step(n int) *ActionBuilder { b.rec.StepNumber = n; return b }

// Turn sets the turn number (chainable).
func (b *ActionBuilder) Turn(n int) *ActionBuilder { b.rec.TurnNumber = n; return b }

// Kind sets the action kind (chainable).
func (b *ActionBuilder) Kind(k core.ActionKind) *ActionBuilder { b.rec.Kind = k; return b }

// Reasoning sets the agent's reasoning text (chainable).
func (b *ActionBuilder) Reasoning(r string) *ActionBuilder { b.rec.Reasoning = r; return b }

// From sets the source coordinates (chainable).
func (b *ActionBuilder) From(x, y int) *ActionBuilder {
	b.rec.From = core.Position{X: x, Y: y}
	return b
}

// To sets the destination coordinates (chainable).
func (b *ActionBuilder) To(x, y int) *ActionBuilder {
	b.rec.To = &core.Position{X: x, Y: y}
	return b
}

// Move sets kind, source and destination in one call (chainable).
func (b *ActionBuilder) Move(kind core.ActionKind, fromX, fromY, toX, toY int) *ActionBuilder {
	return b.Kind(kind).From(fromX, fromY).To(toX, toY)
}

// Recall marks the record as a non-movement recall from the given source
// (chainable).
func (b *ActionBuilder) Recall(fromX, fromY int) *ActionBuilder {
	b.rec.Kind = core.ActionRecall
	b.rec.To = nil
	return b.From(fromX, fromY)
}

// Success sets the success flag (chainable).
func (b *ActionBuilder) Success(ok bool) *ActionBuilder { b.rec.Success = ok; return b }

// Sees adds one observed tile (chainable).
func (b *ActionBuilder) Sees(key string, tile core.Tile) *ActionBuilder {
	if b.rec.TilesSeen == nil {
		b.rec.TilesSeen = map[string]core.Tile{}
	}
	b.rec.TilesSeen[key] = tile
	return b
}

// Tokens sets the token fields (chainable).
func (b *ActionBuilder) Tokens(in, out int) *ActionBuilder {
	b.rec.InputTokens = &in
	b.rec.OutputTokens = &out
	return b
}

// Build returns the constructed record.
func (b *ActionBuilder) Build() core.ActionRecord { return b.rec }

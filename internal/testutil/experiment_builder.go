package testutil

import (
	"time"

	"github.com/hupe1980/mazemesh/core"
)

// ExperimentBuilder provides a fluent helper for constructing experiments in
// tests.
type ExperimentBuilder struct {
	exp core.Experiment
}

// NewExperimentBuilder creates a builder for a running experiment starting at
// the origin.
func NewExperimentBuilder() *ExperimentBuilder {
	return &ExperimentBuilder{exp: core.Experiment{Created: time.Now().UTC()}}
}

// ID sets the experiment id (chainable).
func (b *ExperimentBuilder) ID(id int64) *ExperimentBuilder { b.exp.ID = id; return b }

// Maze sets the maze id (chainable).
func (b *ExperimentBuilder) Maze(id int64) *ExperimentBuilder { b.exp.MazeID = id; return b }

// Model sets the model metadata (chainable).
func (b *ExperimentBuilder) Model(m string) *ExperimentBuilder { b.exp.Model = m; return b }

// Start sets the start position (chainable).
func (b *ExperimentBuilder) Start(x, y int) *ExperimentBuilder {
	b.exp.StartX, b.exp.StartY = x, y
	return b
}

// Completed marks the experiment as finalized with the given status
// (chainable).
func (b *ExperimentBuilder) Completed(status core.ExecutionStatus) *ExperimentBuilder {
	b.exp.ExecutionStatus = status
	now := time.Now().UTC()
	b.exp.CompletedAt = &now
	return b
}

// Build returns the constructed experiment.
func (b *ExperimentBuilder) Build() *core.Experiment {
	exp := b.exp
	return &exp
}

// SmallMaze returns a 4x3 maze used across tests:
//
//	EMPTY EMPTY WALL  EMPTY
//	EMPTY WALL  EMPTY EMPTY
//	EMPTY EMPTY EMPTY GOAL
func SmallMaze(id int64) *core.Maze {
	e, w, g := core.TileEmpty, core.TileWall, core.TileGoal
	return &core.Maze{
		ID:     id,
		Width:  4,
		Height: 3,
		Grid: [][]core.Tile{
			{e, e, w, e},
			{e, w, e, e},
			{e, e, e, g},
		},
	}
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/mazemesh/core"
)

// Mazes implements core.MazeStore on the mazes table. Grid data is stored as
// JSON in the grid_data column.
type Mazes struct {
	pool *pgxpool.Pool
}

// Get returns the maze definition or core.ErrMazeNotFound.
func (m *Mazes) Get(ctx context.Context, id int64) (*core.Maze, error) {
	var maze core.Maze
	var grid []byte
	err := m.pool.QueryRow(ctx, `
		SELECT id, width, height, grid_data
		FROM mazes
		WHERE id = $1`, id).Scan(&maze.ID, &maze.Width, &maze.Height, &grid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("maze %d: %w", id, core.ErrMazeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query maze: %w", err)
	}
	if err := json.Unmarshal(grid, &maze.Grid); err != nil {
		return nil, fmt.Errorf("decode grid_data: %w", err)
	}
	return &maze, nil
}

// Put stores a maze definition. When m.ID is zero the database assigns the
// identifier and the field is updated in place.
func (m *Mazes) Put(ctx context.Context, maze *core.Maze) error {
	if err := maze.Validate(); err != nil {
		return err
	}
	grid, err := json.Marshal(maze.Grid)
	if err != nil {
		return fmt.Errorf("encode grid_data: %w", err)
	}
	if maze.ID == 0 {
		err = m.pool.QueryRow(ctx, `
			INSERT INTO mazes (width, height, grid_data)
			VALUES ($1, $2, $3)
			RETURNING id`, maze.Width, maze.Height, grid).Scan(&maze.ID)
	} else {
		_, err = m.pool.Exec(ctx, `
			INSERT INTO mazes (id, width, height, grid_data)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET width = $2, height = $3, grid_data = $4`,
			maze.ID, maze.Width, maze.Height, grid)
	}
	if err != nil {
		return fmt.Errorf("insert maze: %w", err)
	}
	return nil
}

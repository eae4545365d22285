package core

import "fmt"

// Tile is the content of a single maze cell. The string values are stored
// verbatim in tiles_seen payloads and in mazes.grid_data.
type Tile string

const (
	// TileEmpty is a traversable cell.
	TileEmpty Tile = "EMPTY"
	// TileWall is an impassable cell.
	TileWall Tile = "WALL"
	// TileGoal is the target cell the agent is searching for.
	TileGoal Tile = "GOAL"
)

// Maze is a static grid definition. It is read-only from the orchestration
// core's perspective; generation and mutation happen elsewhere.
type Maze struct {
	ID     int64    `json:"id"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Grid   [][]Tile `json:"grid"` // Grid[y][x]
}

// InBounds reports whether p lies inside the maze rectangle.
func (m *Maze) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// TileAt returns the tile at p and whether p is in bounds.
func (m *Maze) TileAt(p Position) (Tile, bool) {
	if !m.InBounds(p) || p.Y >= len(m.Grid) || p.X >= len(m.Grid[p.Y]) {
		return "", false
	}
	return m.Grid[p.Y][p.X], true
}

// Validate checks that the grid dimensions match Width/Height.
func (m *Maze) Validate() error {
	if len(m.Grid) != m.Height {
		return fmt.Errorf("maze %d: grid has %d rows, height is %d", m.ID, len(m.Grid), m.Height)
	}
	for y, row := range m.Grid {
		if len(row) != m.Width {
			return fmt.Errorf("maze %d: row %d has %d cells, width is %d", m.ID, y, len(row), m.Width)
		}
	}
	return nil
}

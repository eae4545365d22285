package core

import "fmt"

// Position is a coordinate pair on the maze grid. X grows eastward, Y grows
// southward, matching the stored grid layout (Grid[y][x]).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key returns the canonical "x,y" form used as the map key in tiles-seen
// payloads and the agent_actions.tiles_seen column.
func (p Position) Key() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// String implements fmt.Stringer using the same canonical form as Key.
func (p Position) String() string { return p.Key() }

// ParseKey parses a canonical "x,y" coordinate key back into a Position.
func ParseKey(key string) (Position, error) {
	var p Position
	if _, err := fmt.Sscanf(key, "%d,%d", &p.X, &p.Y); err != nil {
		return Position{}, fmt.Errorf("invalid coordinate key %q: %w", key, err)
	}
	return p, nil
}

package core

import "testing"

func testMaze() *Maze {
	e, w, g := TileEmpty, TileWall, TileGoal
	return &Maze{
		ID:     1,
		Width:  3,
		Height: 2,
		Grid: [][]Tile{
			{e, w, e},
			{e, e, g},
		},
	}
}

func TestMaze_TileAt(t *testing.T) {
	m := testMaze()

	tile, ok := m.TileAt(Position{X: 1, Y: 0})
	if !ok || tile != TileWall {
		t.Fatalf("expected wall at 1,0, got %q ok=%v", tile, ok)
	}
	tile, ok = m.TileAt(Position{X: 2, Y: 1})
	if !ok || tile != TileGoal {
		t.Fatalf("expected goal at 2,1, got %q ok=%v", tile, ok)
	}
	if _, ok := m.TileAt(Position{X: 3, Y: 0}); ok {
		t.Error("out-of-bounds x should not resolve")
	}
	if _, ok := m.TileAt(Position{X: 0, Y: -1}); ok {
		t.Error("out-of-bounds y should not resolve")
	}
}

func TestMaze_Validate(t *testing.T) {
	m := testMaze()
	if err := m.Validate(); err != nil {
		t.Fatalf("valid maze rejected: %v", err)
	}

	m.Grid = m.Grid[:1]
	if err := m.Validate(); err == nil {
		t.Error("row count mismatch should fail validation")
	}

	m = testMaze()
	m.Grid[0] = m.Grid[0][:2]
	if err := m.Validate(); err == nil {
		t.Error("row width mismatch should fail validation")
	}
}

func TestPosition_KeyRoundTrip(t *testing.T) {
	p := Position{X: -2, Y: 14}
	got, err := ParseKey(p.Key())
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: %v != %v", got, p)
	}

	if _, err := ParseKey("nonsense"); err == nil {
		t.Error("garbage key should not parse")
	}
}

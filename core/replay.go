package core

// Replay logic: the action log is the single source of truth, and position
// and spatial memory are views derived from it on every access. The functions
// in this file are total and side-effect-free so they can be exercised against
// a plain slice of records, with no datastore behind them.

// ReplayPosition derives the current agent coordinates from the log tail.
//
//   - No entries yet: the experiment's start position.
//   - Latest entry is a movement (To set): the destination.
//   - Latest entry is non-movement (To nil): the entry's source, since a
//     non-movement action does not relocate the agent.
//
// The coordinate pair is always taken whole from one source. Mixing To.X with
// From.Y (per-field null-coalescing) can fabricate a position the agent never
// occupied.
func ReplayPosition(start Position, latest *ActionRecord) Position {
	if latest == nil {
		return start
	}
	if latest.To != nil {
		return *latest.To
	}
	return latest.From
}

// FoldTiles merges the tiles-seen payloads of records ordered oldest to
// newest into one map. A tile observed multiple times reflects its most
// recent observation. The input slice is not modified.
func FoldTiles(records []ActionRecord) map[string]Tile {
	tiles := make(map[string]Tile)
	for _, rec := range records {
		for key, tile := range rec.TilesSeen {
			tiles[key] = tile
		}
	}
	return tiles
}

// Snapshot is the full derived state of an experiment at some log prefix.
type Snapshot struct {
	Position Position
	Tiles    map[string]Tile
	LastStep int
	LastTurn int
}

// Replay folds an ordered log prefix (oldest to newest) into a state
// snapshot starting from the experiment's start position.
func Replay(start Position, records []ActionRecord) Snapshot {
	snap := Snapshot{Position: start, Tiles: FoldTiles(records)}
	if len(records) > 0 {
		latest := records[len(records)-1]
		snap.Position = ReplayPosition(start, &latest)
		snap.LastStep = latest.StepNumber
		snap.LastTurn = latest.TurnNumber
	}
	return snap
}

// GoalSeen reports whether any tile in the map is the goal.
func GoalSeen(tiles map[string]Tile) bool {
	for _, tile := range tiles {
		if tile == TileGoal {
			return true
		}
	}
	return false
}

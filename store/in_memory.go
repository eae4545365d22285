package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/mazemesh/core"
)

// InMemoryLog is a volatile core.LogStore backed by a process-local map.
// Records are copied on read and write to prevent external mutation of
// internal state.
type InMemoryLog struct {
	mu      sync.RWMutex
	actions map[int64][]core.ActionRecord // experimentID -> records ascending by step
}

// NewInMemoryLog constructs an empty in-memory action log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{actions: make(map[int64][]core.ActionRecord)}
}

// Append inserts a new action record. Step numbers must already be assigned;
// a duplicate step for the same experiment is rejected.
func (s *InMemoryLog) Append(_ context.Context, rec core.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.actions[rec.ExperimentID] {
		if existing.StepNumber == rec.StepNumber {
			return fmt.Errorf("experiment %d: step %d already exists", rec.ExperimentID, rec.StepNumber)
		}
	}
	s.actions[rec.ExperimentID] = append(s.actions[rec.ExperimentID], cloneRecord(rec))
	return nil
}

// Latest returns a copy of the record with the highest step number, or nil
// when the experiment has no log entries.
func (s *InMemoryLog) Latest(_ context.Context, experimentID int64) (*core.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.actions[experimentID]
	if len(recs) == 0 {
		return nil, nil
	}
	latest := cloneRecord(recs[len(recs)-1])
	return &latest, nil
}

// Recent returns up to limit records ordered by step number descending.
// limit <= 0 returns all records.
func (s *InMemoryLog) Recent(_ context.Context, experimentID int64, limit int) ([]core.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.actions[experimentID]
	n := len(recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]core.ActionRecord, 0, n)
	for i := len(recs) - 1; i >= len(recs)-n; i-- {
		out = append(out, cloneRecord(recs[i]))
	}
	return out, nil
}

// MaxStep returns the highest assigned step number, 0 when none.
func (s *InMemoryLog) MaxStep(_ context.Context, experimentID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.actions[experimentID]
	if len(recs) == 0 {
		return 0, nil
	}
	return recs[len(recs)-1].StepNumber, nil
}

// UpdateTurnUsage patches every record of the turn with the provided token
// totals. Overwrites, never accumulates; repeated calls are idempotent.
func (s *InMemoryLog) UpdateTurnUsage(_ context.Context, experimentID int64, turnNumber int, usage core.TokenUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.actions[experimentID]
	for i := range recs {
		if recs[i].TurnNumber != turnNumber {
			continue
		}
		in, out := usage.InputTokens, usage.OutputTokens
		recs[i].InputTokens = &in
		recs[i].OutputTokens = &out
	}
	return nil
}

// InMemoryExperiments is a volatile core.ExperimentStore.
type InMemoryExperiments struct {
	mu          sync.RWMutex
	experiments map[int64]*core.Experiment
	nextID      int64
}

// NewInMemoryExperiments constructs an empty in-memory experiment store.
func NewInMemoryExperiments() *InMemoryExperiments {
	return &InMemoryExperiments{experiments: make(map[int64]*core.Experiment)}
}

// Create stores a new experiment, assigning an id if unset.
func (s *InMemoryExperiments) Create(_ context.Context, exp *core.Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp.ID == 0 {
		s.nextID++
		exp.ID = s.nextID
	} else if exp.ID > s.nextID {
		s.nextID = exp.ID
	}
	if exp.Created.IsZero() {
		exp.Created = time.Now().UTC()
	}
	clone := *exp
	s.experiments[exp.ID] = &clone
	return nil
}

// Get returns a copy of the experiment or core.ErrExperimentNotFound.
func (s *InMemoryExperiments) Get(_ context.Context, id int64) (*core.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.experiments[id]
	if !ok {
		return nil, fmt.Errorf("experiment %d: %w", id, core.ErrExperimentNotFound)
	}
	clone := *exp
	return &clone, nil
}

// SetTerminal writes the terminal transition for the experiment.
func (s *InMemoryExperiments) SetTerminal(_ context.Context, id int64, status core.ExecutionStatus, goalFound bool, lastError *core.ExecError, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.experiments[id]
	if !ok {
		return fmt.Errorf("experiment %d: %w", id, core.ErrExperimentNotFound)
	}
	exp.ExecutionStatus = status
	exp.GoalFound = goalFound
	exp.LastError = lastError
	exp.FailureReason = ""
	if lastError != nil {
		exp.FailureReason = string(lastError.Kind)
	}
	at := completedAt
	exp.CompletedAt = &at
	return nil
}

// InMemoryMazes is a volatile core.MazeStore.
type InMemoryMazes struct {
	mu     sync.RWMutex
	mazes  map[int64]*core.Maze
	nextID int64
}

// NewInMemoryMazes constructs an empty in-memory maze store.
func NewInMemoryMazes() *InMemoryMazes {
	return &InMemoryMazes{mazes: make(map[int64]*core.Maze)}
}

// Get returns a copy of the maze or core.ErrMazeNotFound.
func (s *InMemoryMazes) Get(_ context.Context, id int64) (*core.Maze, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mazes[id]
	if !ok {
		return nil, fmt.Errorf("maze %d: %w", id, core.ErrMazeNotFound)
	}
	clone := *m
	return &clone, nil
}

// Put stores a maze definition, assigning an id if unset.
func (s *InMemoryMazes) Put(_ context.Context, m *core.Maze) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	clone := *m
	s.mazes[m.ID] = &clone
	return nil
}

func cloneRecord(rec core.ActionRecord) core.ActionRecord {
	clone := rec
	if rec.To != nil {
		to := *rec.To
		clone.To = &to
	}
	if rec.TilesSeen != nil {
		tiles := make(map[string]core.Tile, len(rec.TilesSeen))
		for k, v := range rec.TilesSeen {
			tiles[k] = v
		}
		clone.TilesSeen = tiles
	}
	if rec.InputTokens != nil {
		in := *rec.InputTokens
		clone.InputTokens = &in
	}
	if rec.OutputTokens != nil {
		out := *rec.OutputTokens
		clone.OutputTokens = &out
	}
	return clone
}

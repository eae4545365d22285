package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/mazemesh/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.LogStore        = (*InMemoryLog)(nil)
	_ core.ExperimentStore = (*InMemoryExperiments)(nil)
	_ core.MazeStore       = (*InMemoryMazes)(nil)
	_ core.Locker          = (*InMemoryLocker)(nil)
)

func TestInMemoryLog_AppendLatestMaxStep(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryLog()

	latest, err := logs.Latest(ctx, 1)
	if err != nil || latest != nil {
		t.Fatalf("empty log: latest=%v err=%v", latest, err)
	}

	to := core.Position{X: 1, Y: 0}
	recs := []core.ActionRecord{
		{ID: core.NewID(), ExperimentID: 1, StepNumber: 1, Kind: core.ActionMoveEast, To: &to, Success: true},
		{ID: core.NewID(), ExperimentID: 1, StepNumber: 2, Kind: core.ActionRecall, From: to, Success: true},
	}
	for _, rec := range recs {
		if err := logs.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	maxStep, err := logs.MaxStep(ctx, 1)
	if err != nil || maxStep != 2 {
		t.Fatalf("max step: got %d err=%v", maxStep, err)
	}
	latest, err = logs.Latest(ctx, 1)
	if err != nil || latest == nil || latest.StepNumber != 2 {
		t.Fatalf("latest: got %+v err=%v", latest, err)
	}

	// Other experiments are unaffected.
	if maxStep, _ := logs.MaxStep(ctx, 2); maxStep != 0 {
		t.Fatalf("experiment 2 should be empty, got max step %d", maxStep)
	}
}

func TestInMemoryLog_DuplicateStepRejected(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryLog()
	rec := core.ActionRecord{ID: core.NewID(), ExperimentID: 1, StepNumber: 1, Kind: core.ActionRecall}
	if err := logs.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	rec.ID = core.NewID()
	if err := logs.Append(ctx, rec); err == nil {
		t.Fatal("duplicate step must be rejected")
	}
}

func TestInMemoryLog_RecentWindow(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryLog()
	for step := 1; step <= 10; step++ {
		rec := core.ActionRecord{ID: core.NewID(), ExperimentID: 7, StepNumber: step, Kind: core.ActionRecall}
		if err := logs.Append(ctx, rec); err != nil {
			t.Fatalf("append step %d: %v", step, err)
		}
	}

	recent, err := logs.Recent(ctx, 7, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("window of 3: got %d records", len(recent))
	}
	for i, want := range []int{10, 9, 8} {
		if recent[i].StepNumber != want {
			t.Errorf("recent[%d]: got step %d, want %d", i, recent[i].StepNumber, want)
		}
	}

	all, err := logs.Recent(ctx, 7, 0)
	if err != nil || len(all) != 10 {
		t.Fatalf("no limit: got %d records err=%v", len(all), err)
	}
}

func TestInMemoryLog_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryLog()
	rec := core.ActionRecord{
		ID: core.NewID(), ExperimentID: 1, StepNumber: 1, Kind: core.ActionRecall,
		TilesSeen: map[string]core.Tile{"0,0": core.TileEmpty},
	}
	if err := logs.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	latest, _ := logs.Latest(ctx, 1)
	latest.TilesSeen["0,0"] = core.TileGoal

	again, _ := logs.Latest(ctx, 1)
	if again.TilesSeen["0,0"] != core.TileEmpty {
		t.Error("mutating a returned record must not affect the store")
	}
}

func TestInMemoryLog_UpdateTurnUsage(t *testing.T) {
	ctx := context.Background()
	logs := NewInMemoryLog()
	for step, turn := range map[int]int{1: 1, 2: 1, 3: 2} {
		rec := core.ActionRecord{ID: core.NewID(), ExperimentID: 1, StepNumber: step, TurnNumber: turn, Kind: core.ActionRecall}
		if err := logs.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := logs.UpdateTurnUsage(ctx, 1, 1, core.TokenUsage{InputTokens: 9, OutputTokens: 4}); err != nil {
		t.Fatalf("update usage: %v", err)
	}

	recs, _ := logs.Recent(ctx, 1, 0)
	for _, rec := range recs {
		if rec.TurnNumber == 1 {
			if rec.InputTokens == nil || *rec.InputTokens != 9 || rec.OutputTokens == nil || *rec.OutputTokens != 4 {
				t.Errorf("step %d: usage not patched: %+v", rec.StepNumber, rec)
			}
		} else if rec.InputTokens != nil || rec.OutputTokens != nil {
			t.Errorf("step %d: usage leaked across turns", rec.StepNumber)
		}
	}
}

func TestInMemoryExperiments_CreateGetSetTerminal(t *testing.T) {
	ctx := context.Background()
	exps := NewInMemoryExperiments()

	if _, err := exps.Get(ctx, 99); !errors.Is(err, core.ErrExperimentNotFound) {
		t.Fatalf("expected ErrExperimentNotFound, got %v", err)
	}

	exp := &core.Experiment{StartX: 1, StartY: 2}
	if err := exps.Create(ctx, exp); err != nil {
		t.Fatalf("create: %v", err)
	}
	if exp.ID == 0 {
		t.Fatal("create should assign an id")
	}

	got, err := exps.Get(ctx, exp.ID)
	if err != nil || got.StartX != 1 || got.StartY != 2 {
		t.Fatalf("get: %+v err=%v", got, err)
	}
	if got.Completed() {
		t.Fatal("new experiment should not be completed")
	}
}

func TestInMemoryMazes_PutValidates(t *testing.T) {
	ctx := context.Background()
	mazes := NewInMemoryMazes()

	bad := &core.Maze{Width: 2, Height: 2, Grid: [][]core.Tile{{core.TileEmpty}}}
	if err := mazes.Put(ctx, bad); err == nil {
		t.Fatal("malformed maze must be rejected")
	}

	good := &core.Maze{Width: 1, Height: 1, Grid: [][]core.Tile{{core.TileGoal}}}
	if err := mazes.Put(ctx, good); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := mazes.Get(ctx, good.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tile, _ := got.TileAt(core.Position{}); tile != core.TileGoal {
		t.Fatalf("unexpected tile %q", tile)
	}

	if _, err := mazes.Get(ctx, 42); !errors.Is(err, core.ErrMazeNotFound) {
		t.Fatalf("expected ErrMazeNotFound, got %v", err)
	}
}

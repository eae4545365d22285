package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/mazemesh/core"
)

// Experiments implements core.ExperimentStore on the experiments table.
type Experiments struct {
	pool *pgxpool.Pool
}

// Create inserts a new experiment row. When exp.ID is zero the database
// assigns the identifier and exp.ID is updated in place.
func (e *Experiments) Create(ctx context.Context, exp *core.Experiment) error {
	if exp.Created.IsZero() {
		exp.Created = time.Now().UTC()
	}
	config, err := json.Marshal(exp.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if exp.Config == nil {
		config = []byte("{}")
	}

	if exp.ID == 0 {
		err = e.pool.QueryRow(ctx, `
			INSERT INTO experiments (maze_id, model, start_x, start_y, config, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			exp.MazeID, exp.Model, exp.StartX, exp.StartY, config, exp.Created).Scan(&exp.ID)
	} else {
		_, err = e.pool.Exec(ctx, `
			INSERT INTO experiments (id, maze_id, model, start_x, start_y, config, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			exp.ID, exp.MazeID, exp.Model, exp.StartX, exp.StartY, config, exp.Created)
	}
	if err != nil {
		return fmt.Errorf("insert experiment: %w", err)
	}
	return nil
}

// Get returns the experiment row or core.ErrExperimentNotFound.
func (e *Experiments) Get(ctx context.Context, id int64) (*core.Experiment, error) {
	var exp core.Experiment
	var status string
	var lastError []byte
	var config []byte
	err := e.pool.QueryRow(ctx, `
		SELECT id, COALESCE(maze_id, 0), model, start_x, start_y, goal_found, execution_status,
			last_error, failure_reason, completed_at, config, created_at
		FROM experiments
		WHERE id = $1`, id).Scan(
		&exp.ID, &exp.MazeID, &exp.Model, &exp.StartX, &exp.StartY, &exp.GoalFound, &status,
		&lastError, &exp.FailureReason, &exp.CompletedAt, &config, &exp.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("experiment %d: %w", id, core.ErrExperimentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query experiment: %w", err)
	}
	exp.ExecutionStatus = core.ExecutionStatus(status)
	if len(lastError) > 0 {
		exp.LastError = &core.ExecError{}
		if err := json.Unmarshal(lastError, exp.LastError); err != nil {
			return nil, fmt.Errorf("decode last_error: %w", err)
		}
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &exp.Config); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	return &exp, nil
}

// SetTerminal writes the one terminal transition for the experiment. The
// statement is idempotent at the SQL level: a repeated call simply overwrites
// the terminal fields (last write wins).
func (e *Experiments) SetTerminal(ctx context.Context, id int64, status core.ExecutionStatus, goalFound bool, lastError *core.ExecError, completedAt time.Time) error {
	var lastErrJSON []byte
	failureReason := ""
	if lastError != nil {
		var err error
		lastErrJSON, err = json.Marshal(lastError)
		if err != nil {
			return fmt.Errorf("encode last_error: %w", err)
		}
		failureReason = string(lastError.Kind)
	}
	tag, err := e.pool.Exec(ctx, `
		UPDATE experiments
		SET execution_status = $2, goal_found = $3, last_error = $4, failure_reason = $5, completed_at = $6
		WHERE id = $1`,
		id, string(status), goalFound, lastErrJSON, failureReason, completedAt)
	if err != nil {
		return fmt.Errorf("finalize experiment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("experiment %d: %w", id, core.ErrExperimentNotFound)
	}
	return nil
}

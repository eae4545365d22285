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

const actionColumns = `id, experiment_id, step_number, turn_number, action_type, reasoning,
	from_x, from_y, to_x, to_y, success, tiles_seen, input_tokens, output_tokens, created_at`

// Logs implements core.LogStore on the agent_actions table.
type Logs struct {
	pool *pgxpool.Pool
}

// Append inserts a new immutable action record.
func (l *Logs) Append(ctx context.Context, rec core.ActionRecord) error {
	tiles, err := json.Marshal(rec.TilesSeen)
	if err != nil {
		return fmt.Errorf("encode tiles_seen: %w", err)
	}
	var toX, toY *int
	if rec.To != nil {
		toX, toY = &rec.To.X, &rec.To.Y
	}
	_, err = l.pool.Exec(ctx, `
		INSERT INTO agent_actions (id, experiment_id, step_number, turn_number, action_type, reasoning,
			from_x, from_y, to_x, to_y, success, tiles_seen, input_tokens, output_tokens, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.ExperimentID, rec.StepNumber, rec.TurnNumber, string(rec.Kind), rec.Reasoning,
		rec.From.X, rec.From.Y, toX, toY, rec.Success, tiles, rec.InputTokens, rec.OutputTokens, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// Latest returns the record with the highest step number, nil when the log is
// empty.
func (l *Logs) Latest(ctx context.Context, experimentID int64) (*core.ActionRecord, error) {
	row := l.pool.QueryRow(ctx, `
		SELECT `+actionColumns+`
		FROM agent_actions
		WHERE experiment_id = $1
		ORDER BY step_number DESC
		LIMIT 1`, experimentID)
	rec, err := scanAction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest action: %w", err)
	}
	return &rec, nil
}

// Recent returns up to limit records ordered by step number descending.
// limit <= 0 returns all records.
func (l *Logs) Recent(ctx context.Context, experimentID int64, limit int) ([]core.ActionRecord, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM agent_actions
		WHERE experiment_id = $1
		ORDER BY step_number DESC`
	args := []any{experimentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent actions: %w", err)
	}
	defer rows.Close()

	var recs []core.ActionRecord
	for rows.Next() {
		rec, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return recs, nil
}

// MaxStep returns the highest assigned step number, 0 when none.
func (l *Logs) MaxStep(ctx context.Context, experimentID int64) (int, error) {
	var max int
	err := l.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(step_number), 0)
		FROM agent_actions
		WHERE experiment_id = $1`, experimentID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("query max step: %w", err)
	}
	return max, nil
}

// UpdateTurnUsage patches every record of the turn with the turn-level token
// totals. Overwrites, never accumulates.
func (l *Logs) UpdateTurnUsage(ctx context.Context, experimentID int64, turnNumber int, usage core.TokenUsage) error {
	_, err := l.pool.Exec(ctx, `
		UPDATE agent_actions
		SET input_tokens = $3, output_tokens = $4
		WHERE experiment_id = $1 AND turn_number = $2`,
		experimentID, turnNumber, usage.InputTokens, usage.OutputTokens)
	if err != nil {
		return fmt.Errorf("update turn usage: %w", err)
	}
	return nil
}

func scanAction(row pgx.Row) (core.ActionRecord, error) {
	var rec core.ActionRecord
	var kind string
	var toX, toY *int
	var tiles []byte
	err := row.Scan(&rec.ID, &rec.ExperimentID, &rec.StepNumber, &rec.TurnNumber, &kind, &rec.Reasoning,
		&rec.From.X, &rec.From.Y, &toX, &toY, &rec.Success, &tiles, &rec.InputTokens, &rec.OutputTokens, &rec.Timestamp)
	if err != nil {
		return core.ActionRecord{}, err
	}
	rec.Kind = core.ActionKind(kind)
	if toX != nil && toY != nil {
		rec.To = &core.Position{X: *toX, Y: *toY}
	}
	if len(tiles) > 0 {
		if err := json.Unmarshal(tiles, &rec.TilesSeen); err != nil {
			return core.ActionRecord{}, fmt.Errorf("decode tiles_seen: %w", err)
		}
	}
	return rec, nil
}

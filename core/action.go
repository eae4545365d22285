package core

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind identifies what an agent did in one logged step. The set is
// open: new non-movement kinds can be introduced without schema changes, and
// anything not in the movement set is treated as non-movement.
type ActionKind string

const (
	// ActionMoveNorth moves the agent one cell up (y-1).
	ActionMoveNorth ActionKind = "move_north"
	// ActionMoveSouth moves the agent one cell down (y+1).
	ActionMoveSouth ActionKind = "move_south"
	// ActionMoveEast moves the agent one cell right (x+1).
	ActionMoveEast ActionKind = "move_east"
	// ActionMoveWest moves the agent one cell left (x-1).
	ActionMoveWest ActionKind = "move_west"
	// ActionRecall is a non-movement action: the agent queried its
	// accumulated spatial memory instead of moving.
	ActionRecall ActionKind = "recall"
)

// IsMovement reports whether the kind relocates the agent.
func (k ActionKind) IsMovement() bool {
	switch k {
	case ActionMoveNorth, ActionMoveSouth, ActionMoveEast, ActionMoveWest:
		return true
	default:
		return false
	}
}

// Delta returns the coordinate offset for a movement kind. ok is false for
// non-movement kinds.
func (k ActionKind) Delta() (dx, dy int, ok bool) {
	switch k {
	case ActionMoveNorth:
		return 0, -1, true
	case ActionMoveSouth:
		return 0, 1, true
	case ActionMoveEast:
		return 1, 0, true
	case ActionMoveWest:
		return -1, 0, true
	default:
		return 0, 0, false
	}
}

// TokenUsage captures the turn-level token accounting reported by a model
// invocation after it completes.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add returns the element-wise sum of two usages. Useful when one turn made
// several model calls.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// ActionRecord is one entry of the append-only action log. After insertion it
// is immutable except for the token fields, which are patched exactly once per
// turn by RecordTurnUsage once the invocation that produced the turn reports
// its usage.
//
// To is nil for non-movement actions. StepNumber is assigned by the appender
// under the experiment lock and is strictly increasing, gap-free, per
// experiment. TurnNumber groups the steps issued by one agent invocation.
type ActionRecord struct {
	ID           string          `json:"id"`
	ExperimentID int64           `json:"experiment_id"`
	StepNumber   int             `json:"step_number"`
	TurnNumber   int             `json:"turn_number"`
	Kind         ActionKind      `json:"action_type"`
	Reasoning    string          `json:"reasoning,omitempty"`
	From         Position        `json:"from"`
	To           *Position       `json:"to,omitempty"`
	Success      bool            `json:"success"`
	TilesSeen    map[string]Tile `json:"tiles_seen,omitempty"`
	InputTokens  *int            `json:"input_tokens,omitempty"`
	OutputTokens *int            `json:"output_tokens,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewID generates a unique record identifier.
func NewID() string { return uuid.NewString() }

// Validate rejects malformed records before they reach the log: a movement
// action must carry a destination and a non-movement action must not. No
// coercion happens here; a bad record is an error, never a silent fix.
func (r ActionRecord) Validate() error {
	if r.Kind == "" {
		return ErrMissingActionKind
	}
	if r.Kind.IsMovement() && r.To == nil {
		return ErrMissingDestination
	}
	if !r.Kind.IsMovement() && r.To != nil {
		return ErrUnexpectedDestination
	}
	return nil
}

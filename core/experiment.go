package core

import (
	"strings"
	"time"
)

// ExecutionStatus is the terminal classification of an experiment run. The
// zero value means the experiment is still running (the status column is
// unset until finalization).
type ExecutionStatus string

const (
	// StatusRunning is the implicit status of an unfinalized experiment.
	StatusRunning ExecutionStatus = ""
	// StatusSucceeded means the run completed normally. Orthogonal to
	// whether the goal was actually found.
	StatusSucceeded ExecutionStatus = "SUCCEEDED"
	// StatusFailed means the workflow reported an unrecoverable error.
	StatusFailed ExecutionStatus = "FAILED"
	// StatusTimedOut means the workflow reported a timeout.
	StatusTimedOut ExecutionStatus = "TIMED_OUT"
)

// ErrorKind is the closed classification of workflow-level failures. The
// workflow-engine boundary produces it (see ClassifyError); the finalizer only
// switches on the enum and never inspects free text.
type ErrorKind string

const (
	// ErrorKindTimeout indicates the invocation or workflow exceeded its
	// time budget.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindTaskFailure indicates the invocation itself failed.
	ErrorKindTaskFailure ErrorKind = "task_failure"
	// ErrorKindUnknown covers everything else; the raw description is
	// preserved in the error cause.
	ErrorKindUnknown ErrorKind = "unknown"
)

// ClassifyError maps a free-text error description from the workflow engine
// to an ErrorKind. This is the single place where string matching happens;
// everything downstream dispatches on the enum.
func ClassifyError(raw string) ErrorKind {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"),
		strings.Contains(lower, "deadline exceeded"):
		return ErrorKindTimeout
	case strings.Contains(lower, "task failed"), strings.Contains(lower, "failed"):
		return ErrorKindTaskFailure
	default:
		return ErrorKindUnknown
	}
}

// ExecError is the structured last-error payload persisted on failure.
type ExecError struct {
	Kind      ErrorKind `json:"kind"`
	Cause     string    `json:"cause"`
	Timestamp time.Time `json:"timestamp"`
}

// Outcome is what the workflow engine hands to Finalize when it decides no
// further turns will run.
type Outcome struct {
	// ExplicitFailure selects the failure path. When false the run is
	// classified as SUCCEEDED regardless of whether the goal was found.
	ExplicitFailure bool
	// ErrorKind classifies the failure. Ignored unless ExplicitFailure.
	ErrorKind ErrorKind
	// Cause is the raw error description from the workflow engine.
	Cause string
}

// Experiment is one maze-exploration run. Created once at experiment start
// (outside this core); its terminal fields are mutated only by the finalizer,
// exactly once.
type Experiment struct {
	ID              int64             `json:"id"`
	MazeID          int64             `json:"maze_id"`
	Model           string            `json:"model"`
	StartX          int               `json:"start_x"`
	StartY          int               `json:"start_y"`
	GoalFound       bool              `json:"goal_found"`
	ExecutionStatus ExecutionStatus   `json:"execution_status"`
	LastError       *ExecError        `json:"last_error,omitempty"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	Created         time.Time         `json:"created"`
	Config          map[string]string `json:"config,omitempty"`
}

// Start returns the configured start position.
func (e *Experiment) Start() Position { return Position{X: e.StartX, Y: e.StartY} }

// Completed reports whether the experiment has been finalized.
func (e *Experiment) Completed() bool { return e.CompletedAt != nil }

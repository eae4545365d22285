package core

import "errors"

var (
	// ErrExperimentNotFound is returned when no experiment exists for the
	// given identifier.
	ErrExperimentNotFound = errors.New("experiment not found")

	// ErrMazeNotFound is returned when no maze exists for the given
	// identifier.
	ErrMazeNotFound = errors.New("maze not found")

	// ErrMissingActionKind is returned when a record carries no action kind.
	ErrMissingActionKind = errors.New("action record requires an action kind")

	// ErrMissingDestination is returned when a movement action carries no
	// destination coordinates.
	ErrMissingDestination = errors.New("movement action requires destination coordinates")

	// ErrUnexpectedDestination is returned when a non-movement action
	// carries destination coordinates.
	ErrUnexpectedDestination = errors.New("non-movement action must not carry destination coordinates")
)

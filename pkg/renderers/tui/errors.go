package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when the record still fails validation after the
	// allowed number of correction rounds.
	ErrInvalid = errors.New("tui: form is invalid")
)

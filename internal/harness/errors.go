package harness

import (
	"errors"
	"fmt"
)

// Domain errors for benchmark runs.
var (
	// ErrCommandNotFound indicates an empty model or a selector matching no command.
	ErrCommandNotFound = errors.New("harness: command not found")

	// ErrInvalidWarmup indicates a negative warm-up count.
	ErrInvalidWarmup = errors.New("harness: warm-up count must be >= 0")

	// ErrInvalidRepeat indicates a repetition count below one.
	ErrInvalidRepeat = errors.New("harness: repeat count must be >= 1")

	// ErrNotSetup indicates Run was called before Setup.
	ErrNotSetup = errors.New("harness: benchmark not setup")
)

// SolveError wraps a backend failure with the invocation it happened on.
// Invocations are numbered from 1; the timed one is warm-up + 1.
type SolveError struct {
	Invocation int
	Command    string
	Wrapped    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solve %q (invocation %d): %v", e.Command, e.Invocation, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}

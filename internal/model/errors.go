package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates a model file extension with no loader.
	ErrUnsupportedFormat = errors.New("model: unsupported model file format")

	// ErrMissingProblem indicates a command without an inline or external CNF problem.
	ErrMissingProblem = errors.New("model: command has no cnf problem")
)

// ParseError reports a malformed or unreadable model file. Line is 0 when
// the position is unknown.
type ParseError struct {
	Path    string
	Line    int
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Wrapped)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

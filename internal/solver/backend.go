package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/modelbench/internal/model"
)

// Domain errors for solver invocations.
var (
	// ErrTimeout indicates the deadline passed before the solver decided the problem.
	ErrTimeout = errors.New("solver: deadline exceeded")

	// ErrUndetermined indicates the solver stopped without a sat/unsat answer.
	ErrUndetermined = errors.New("solver: result undetermined")

	// ErrUnavailable indicates a backend that cannot run in this environment.
	ErrUnavailable = errors.New("solver: backend unavailable")

	// ErrUnknownBackend indicates a backend name missing from the registry.
	ErrUnknownBackend = errors.New("solver: unknown backend")
)

// Error wraps a backend failure with the backend's name.
type Error struct {
	Backend string
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Options configure a single solve.
type Options struct {
	// Timeout bounds one invocation; zero means wait as long as it takes.
	Timeout time.Duration
}

// Outcome is what a backend reports for one invocation.
type Outcome struct {
	Satisfiable bool
}

// Backend is a solver engine the harness can drive. Solve blocks until the
// problem is decided, the deadline passes, or the backend fails.
type Backend interface {
	Name() string
	Available() bool
	Solve(ctx context.Context, m *model.Model, cmd model.Command, opts Options) (Outcome, error)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// deadlineErr maps an expired context to ErrTimeout.
func deadlineErr(backend string, ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Backend: backend, Wrapped: ErrTimeout}
	}
	return &Error{Backend: backend, Wrapped: ctx.Err()}
}

// header is the comment block prepended to DIMACS text handed to other engines.
func header(m *model.Model, cmd model.Command) string {
	name := ""
	if m != nil {
		name = m.Name()
	}
	return fmt.Sprintf("c model %s\nc command %s\n", name, cmd.Label)
}

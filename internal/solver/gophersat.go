package solver

import (
	"context"
	"fmt"
	"strings"

	gsat "github.com/crillab/gophersat/solver"

	"github.com/san-kum/modelbench/internal/model"
)

// Gophersat solves in-process with gophersat. The solve runs on its own
// goroutine so a deadline can be honored; an abandoned solve finishes in the
// background and its result is dropped.
type Gophersat struct{}

func NewGophersat() *Gophersat {
	return &Gophersat{}
}

func (g *Gophersat) Name() string    { return "gophersat" }
func (g *Gophersat) Available() bool { return true }

func (g *Gophersat) Solve(ctx context.Context, m *model.Model, cmd model.Command, opts Options) (Outcome, error) {
	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	if ctx.Err() != nil {
		return Outcome{}, deadlineErr(g.Name(), ctx)
	}

	pb, err := gsat.ParseCNF(strings.NewReader(header(m, cmd) + cmd.Problem.DIMACS()))
	if err != nil {
		return Outcome{}, &Error{Backend: g.Name(), Wrapped: fmt.Errorf("load problem: %w", err)}
	}

	done := make(chan gsat.Status, 1)
	go func() {
		done <- gsat.New(pb).Solve()
	}()

	select {
	case st := <-done:
		switch st {
		case gsat.Sat:
			return Outcome{Satisfiable: true}, nil
		case gsat.Unsat:
			return Outcome{Satisfiable: false}, nil
		default:
			return Outcome{}, &Error{Backend: g.Name(), Wrapped: ErrUndetermined}
		}
	case <-ctx.Done():
		return Outcome{}, deadlineErr(g.Name(), ctx)
	}
}

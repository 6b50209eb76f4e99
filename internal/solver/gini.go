package solver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/san-kum/modelbench/internal/model"
)

// Gini solves in-process with the gini CDCL solver. A fresh solver is built
// for every call so no learnt clauses leak between invocations.
type Gini struct{}

func NewGini() *Gini {
	return &Gini{}
}

func (g *Gini) Name() string    { return "gini" }
func (g *Gini) Available() bool { return true }

func (g *Gini) Solve(ctx context.Context, m *model.Model, cmd model.Command, opts Options) (Outcome, error) {
	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	if ctx.Err() != nil {
		return Outcome{}, deadlineErr(g.Name(), ctx)
	}

	pb := cmd.Problem
	s := gini.NewVc(pb.NumVars, len(pb.Clauses))
	for _, cl := range pb.Clauses {
		for _, lit := range cl {
			s.Add(z.Dimacs2Lit(lit))
		}
		s.Add(z.LitNull)
	}

	var res int
	if dl, ok := ctx.Deadline(); ok {
		remaining := time.Until(dl)
		if remaining <= 0 {
			return Outcome{}, deadlineErr(g.Name(), ctx)
		}
		res = s.GoSolve().Try(remaining)
	} else {
		res = s.Solve()
	}

	switch res {
	case 1:
		return Outcome{Satisfiable: true}, nil
	case -1:
		return Outcome{Satisfiable: false}, nil
	}
	if _, ok := ctx.Deadline(); ok {
		return Outcome{}, &Error{Backend: g.Name(), Wrapped: ErrTimeout}
	}
	return Outcome{}, &Error{Backend: g.Name(), Wrapped: ErrUndetermined}
}

package harness

import (
	"context"
	"time"

	"github.com/san-kum/modelbench/internal/model"
	"github.com/san-kum/modelbench/internal/solver"
)

// SolveResult is the outcome of one solver invocation. Elapsed is only
// meaningful when Timed is set, which happens for the final invocation.
type SolveResult struct {
	Satisfiable  bool
	CommandLabel string
	Elapsed      time.Duration
	Timed        bool
}

func (r SolveResult) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// WarmupTimer runs Warmup throwaway invocations and then times one more, so
// the figure excludes one-time setup cost.
type WarmupTimer struct {
	Backend solver.Backend
	Options solver.Options
	Warmup  int

	// Observe, when set, sees every invocation's result in order.
	Observe func(invocation int, r SolveResult)
}

// Run performs Warmup+1 invocations with identical inputs and returns the
// last one. Errors are returned as-is from the first failing invocation;
// nothing is retried.
func (t *WarmupTimer) Run(ctx context.Context, m *model.Model, cmd model.Command) (SolveResult, error) {
	if t.Warmup < 0 {
		return SolveResult{}, ErrInvalidWarmup
	}

	for i := 1; i <= t.Warmup; i++ {
		out, err := t.Backend.Solve(ctx, m, cmd, t.Options)
		if err != nil {
			return SolveResult{}, &SolveError{Invocation: i, Command: cmd.Label, Wrapped: err}
		}
		t.observe(i, SolveResult{Satisfiable: out.Satisfiable, CommandLabel: cmd.Label})
	}

	start := time.Now()
	out, err := t.Backend.Solve(ctx, m, cmd, t.Options)
	elapsed := time.Since(start)
	if err != nil {
		return SolveResult{}, &SolveError{Invocation: t.Warmup + 1, Command: cmd.Label, Wrapped: err}
	}

	r := SolveResult{
		Satisfiable:  out.Satisfiable,
		CommandLabel: cmd.Label,
		Elapsed:      elapsed,
		Timed:        true,
	}
	t.observe(t.Warmup+1, r)
	return r, nil
}

func (t *WarmupTimer) observe(i int, r SolveResult) {
	if t.Observe != nil {
		t.Observe(i, r)
	}
}

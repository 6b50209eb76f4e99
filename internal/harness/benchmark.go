package harness

import (
	"context"
	"log/slog"

	"github.com/san-kum/modelbench/internal/model"
	"github.com/san-kum/modelbench/internal/solver"
)

type Config struct {
	Warmup  int
	Repeat  int
	Options solver.Options
}

// Report is everything a benchmark run produced.
type Report struct {
	Model          string
	Command        model.Command
	Backend        string
	Warmup         int
	Result         SolveResult
	Classification Classification
	Series         Series
}

// ExpectationMet reports whether the command's declared expectation holds.
func (r *Report) ExpectationMet() bool {
	return r.Command.Expect.Met(r.Result.Satisfiable)
}

// Benchmark repeats the warm-up/timed protocol Repeat times against one
// command. Repetitions run back to back on the calling goroutine.
type Benchmark struct {
	cfg     Config
	logger  *slog.Logger
	backend solver.Backend
	model   *model.Model
	command model.Command
}

func New(cfg Config, logger *slog.Logger) *Benchmark {
	if logger == nil {
		logger = slog.Default()
	}
	return &Benchmark{cfg: cfg, logger: logger}
}

func (b *Benchmark) Setup(backend solver.Backend, m *model.Model, cmd model.Command) error {
	if b.cfg.Warmup < 0 {
		return ErrInvalidWarmup
	}
	if b.cfg.Repeat < 1 {
		return ErrInvalidRepeat
	}
	b.backend = backend
	b.model = m
	b.command = cmd
	return nil
}

func (b *Benchmark) Run(ctx context.Context) (*Report, error) {
	if b.backend == nil || b.model == nil {
		return nil, ErrNotSetup
	}

	timer := &WarmupTimer{
		Backend: b.backend,
		Options: b.cfg.Options,
		Warmup:  b.cfg.Warmup,
		Observe: func(i int, r SolveResult) {
			if !r.Timed {
				b.logger.Debug("warm-up invocation discarded",
					"command", r.CommandLabel,
					"invocation", i,
					"satisfiable", r.Satisfiable)
			}
		},
	}

	rep := &Report{
		Model:   b.model.Name(),
		Command: b.command,
		Backend: b.backend.Name(),
		Warmup:  b.cfg.Warmup,
	}

	for i := 0; i < b.cfg.Repeat; i++ {
		res, err := timer.Run(ctx, b.model, b.command)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("timed invocation",
			"command", res.CommandLabel,
			"repetition", i+1,
			"elapsed", res.Elapsed,
			"satisfiable", res.Satisfiable)
		rep.Series = append(rep.Series, res.Elapsed)
		rep.Result = res
	}

	rep.Classification = Classify(rep.Result.Satisfiable)
	return rep, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/modelbench/internal/config"
	"github.com/san-kum/modelbench/internal/harness"
	"github.com/san-kum/modelbench/internal/logger"
	"github.com/san-kum/modelbench/internal/report"
	"github.com/san-kum/modelbench/internal/solver"
	"github.com/spf13/cobra"
)

func (a *app) sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep <model_file>...",
		Short: "benchmark the selected command of several models and compare them",
		Long: `sweep runs the warm-up and timing protocol on each model in turn, with
the same solver, selector and repeat count, then prints one row per model
and a plot of the mean timed solve. No images are written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runSweep,
	}
	benchFlags(cmd.Flags())
	return cmd
}

func (a *app) runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return fail(exitUsage, err)
	}
	log := logger.NewLogger(a.stderr).With(logger.Scope("sweep"))

	backend, err := a.backend(cfg)
	if err != nil {
		return err
	}
	log.Info("solver selected", "backend", backend.Name(), "models", len(args))

	text := cfg.Format == config.FormatText
	printer := report.NewPrinter(a.stdout)
	sel := harness.ParseSelector(cfg.Command)

	reps := make([]*harness.Report, 0, len(args))
	var unmet []string
	for _, path := range args {
		m, err := a.loader.Load(path)
		if err != nil {
			return fail(exitParse, err)
		}
		command, err := harness.SelectCommand(m, sel)
		if err != nil {
			return fail(exitParse, fmt.Errorf("%s: %w", m.Name(), err))
		}
		if text {
			printer.Executing(command)
		}

		bench := harness.New(harness.Config{
			Warmup:  cfg.Warmup,
			Repeat:  cfg.Repeat,
			Options: solver.Options{Timeout: cfg.Solver.Timeout},
		}, log.With("model", m.Name()))
		if err := bench.Setup(backend, m, command); err != nil {
			return fail(exitUsage, err)
		}
		rep, err := bench.Run(cmd.Context())
		if err != nil {
			return fail(exitSolve, err)
		}
		if text {
			printer.Finished(rep)
		}
		if !rep.ExpectationMet() {
			unmet = append(unmet, m.Name()+"/"+command.Label)
		}
		reps = append(reps, rep)
	}

	if text {
		printer.Sweep(reps)
	} else {
		data := make([]report.ExportData, len(reps))
		for i, rep := range reps {
			data[i] = report.NewExport(rep)
		}
		if err := report.WriteSweepJSON(a.stdout, data); err != nil {
			log.Error("write json report", logger.Error(err))
		}
	}

	if len(unmet) > 0 {
		log.Warn("expectation not met", "commands", unmet)
		if cfg.Strict {
			return fail(exitMismatch, fmt.Errorf("expectation not met: %s", strings.Join(unmet, ", ")))
		}
	}
	return nil
}

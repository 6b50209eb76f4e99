package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/modelbench/internal/config"
	"github.com/san-kum/modelbench/internal/harness"
	"github.com/san-kum/modelbench/internal/logger"
	"github.com/san-kum/modelbench/internal/model"
	"github.com/san-kum/modelbench/internal/render"
	"github.com/san-kum/modelbench/internal/report"
	"github.com/san-kum/modelbench/internal/solver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	exitOK       = 0
	exitUsage    = 1
	exitParse    = 2
	exitSolve    = 3
	exitMismatch = 4
)

var (
	warmup     int
	commandSel string
	solverName string
	solverPath string
	solverArgs []string
	timeout    time.Duration
	repeat     int
	format     string
	configFile string
	preset     string
	strict     bool
)

// exitError carries the process exit status for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, err error) error {
	return &exitError{code: code, err: err}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	loader      model.Loader
	renderer    render.Renderer
	newRegistry func(cfg *config.Config) *solver.Registry
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		loader:   model.FileLoader{},
		renderer: render.FallbackRenderer{},
		newRegistry: func(cfg *config.Config) *solver.Registry {
			return solver.NewRegistry(cfg.Solver.Path, cfg.Solver.Args)
		},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).execute(args)
}

func (a *app) execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintf(a.stderr, "Error: %v\n", ee.err)
		return ee.code
	}

	// flag parsing and unknown subcommands
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	fmt.Fprint(a.stderr, root.UsageString())
	return exitUsage
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelbench [flags] <model_file> <output_image>",
		Short: "benchmark a bounded solver on one model command",
		Long: `modelbench loads a model, selects a command (the last one unless told
otherwise), solves it --warmup times to amortize setup cost, times one more
solve, and writes a summary PNG of the outcome.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return fail(exitUsage, fmt.Errorf("expected <model_file> <output_image>, got %d argument(s)", len(args)))
			}
			return nil
		},
		RunE:          a.runBenchmark,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration ("+fmt.Sprint(config.ListPresets())+")")
	rootCmd.PersistentFlags().StringVarP(&solverName, "solver", "s", config.DefaultSolver, "solver backend (auto, gini, gophersat, exec)")
	rootCmd.PersistentFlags().StringVar(&solverPath, "solver-path", "", "DIMACS solver binary for the exec backend")
	rootCmd.PersistentFlags().StringArrayVar(&solverArgs, "solver-arg", nil, "argument passed to the exec backend (repeatable)")

	benchFlags(rootCmd.Flags())

	rootCmd.AddCommand(a.commandsCmd(), a.solversCmd(), a.inspectCmd(), a.sweepCmd())
	return rootCmd
}

// benchFlags registers the flags shared by every command that runs the
// benchmark protocol.
func benchFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&warmup, "warmup", "w", config.DefaultWarmup, "untimed solves before the timed one")
	fs.StringVarP(&commandSel, "command", "c", "", "command label or #index (default: last command)")
	fs.DurationVar(&timeout, "timeout", 0, "deadline per solve (0 = none)")
	fs.IntVarP(&repeat, "repeat", "r", config.DefaultRepeat, "repeat the warm-up and timed protocol")
	fs.StringVar(&format, "format", config.DefaultFormat, "output format (text, json)")
	fs.BoolVar(&strict, "strict", false, "fail when a command's expect clause is not met")
}

// resolveConfig applies flags the user set explicitly on top of defaults,
// preset, config file and environment.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("warmup") {
		cfg.Warmup = warmup
	}
	if flags.Changed("command") {
		cfg.Command = commandSel
	}
	if flags.Changed("repeat") {
		cfg.Repeat = repeat
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("strict") {
		cfg.Strict = strict
	}
	if flags.Changed("solver") {
		cfg.Solver.Backend = solverName
	}
	if flags.Changed("solver-path") {
		cfg.Solver.Path = solverPath
	}
	if flags.Changed("solver-arg") {
		cfg.Solver.Args = solverArgs
	}
	if flags.Changed("timeout") {
		cfg.Solver.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) runBenchmark(cmd *cobra.Command, args []string) error {
	modelPath, outPath := args[0], args[1]

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return fail(exitUsage, err)
	}
	log := logger.NewLogger(a.stderr).With(logger.Scope("bench"))

	m, err := a.loader.Load(modelPath)
	if err != nil {
		return fail(exitParse, err)
	}
	log.Info("model loaded",
		"model", m.Name(),
		"signatures", len(m.Signatures()),
		"commands", m.NumCommands())

	command, err := harness.SelectCommand(m, harness.ParseSelector(cfg.Command))
	if err != nil {
		return fail(exitParse, err)
	}

	backend, err := a.backend(cfg)
	if err != nil {
		return err
	}
	log.Info("solver selected", "backend", backend.Name(), "timeout", cfg.Solver.Timeout)

	text := cfg.Format == config.FormatText
	printer := report.NewPrinter(a.stdout)
	if text {
		printer.Executing(command)
	}

	bench := harness.New(harness.Config{
		Warmup:  cfg.Warmup,
		Repeat:  cfg.Repeat,
		Options: solver.Options{Timeout: cfg.Solver.Timeout},
	}, log)
	if err := bench.Setup(backend, m, command); err != nil {
		return fail(exitUsage, err)
	}

	rep, err := bench.Run(cmd.Context())
	if err != nil {
		return fail(exitSolve, err)
	}
	if text {
		printer.Result(rep)
	}

	met := rep.ExpectationMet()
	if !met {
		log.Warn("expectation not met",
			"command", command.Label,
			"expect", command.Expect.String(),
			"satisfiable", rep.Result.Satisfiable)
	}

	renderErr := a.renderer.Render(render.RenderRequest{
		ModelName:       m.Name(),
		CommandLabel:    command.Label,
		Satisfiable:     rep.Result.Satisfiable,
		SignatureLabels: m.SignatureLabels(),
		OutputPath:      outPath,
	})
	if renderErr != nil {
		fmt.Fprintf(a.stderr, "Error saving image: %v\n", renderErr)
	} else if text {
		printer.Saved(outPath)
	}

	if !text {
		data := report.NewExport(rep)
		if renderErr != nil {
			data.ImageError = renderErr.Error()
		} else {
			data.Image = outPath
		}
		if err := report.WriteJSON(a.stdout, data); err != nil {
			log.Error("write json report", logger.Error(err))
		}
	}

	if cfg.Strict && !met {
		return fail(exitMismatch, fmt.Errorf("command %s: expected %s, got %s",
			command.Label, command.Expect, outcomeWord(rep.Result.Satisfiable)))
	}
	return nil
}

func (a *app) backend(cfg *config.Config) (solver.Backend, error) {
	b, err := a.newRegistry(cfg).Get(cfg.Solver.Backend)
	if err != nil {
		if errors.Is(err, solver.ErrUnknownBackend) {
			return nil, fail(exitUsage, err)
		}
		return nil, fail(exitSolve, err)
	}
	return b, nil
}

func outcomeWord(sat bool) string {
	if sat {
		return "sat"
	}
	return "unsat"
}

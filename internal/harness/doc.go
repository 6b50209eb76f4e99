// Package harness runs the warm-up and timing protocol for one model command.
//
// A run goes through these steps:
//
//   - [SelectCommand]: pick a command by label or #index, or the last one
//   - [WarmupTimer]: solve W times untimed, then time one more solve
//   - [Classify]: turn the timed outcome into "Instance found" or
//     "No instance found"
//   - [Benchmark]: repeat the protocol and collect a [Series]
//
// # Example
//
//	cmd, _ := harness.SelectCommand(m, harness.ParseSelector("#2"))
//	bench := harness.New(harness.Config{Warmup: 5, Repeat: 1}, logger)
//	if err := bench.Setup(backend, m, cmd); err != nil {
//		return err
//	}
//	rep, _ := bench.Run(ctx)
//
// # Errors
//
// A failing solve is never retried. Warm-up and timed failures both surface
// as a [SolveError] carrying the invocation index.
package harness

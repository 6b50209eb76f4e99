// Package solver provides the engines that decide a command's CNF problem.
//
// Backends are looked up by name in a [Registry]:
//
//   - gini: in-process CDCL solver, the default for "auto"
//   - gophersat: in-process alternative
//   - exec: any DIMACS solver binary reporting exit status 10/20
//
// # Example
//
//	reg := solver.NewRegistry("", nil)
//	b, _ := reg.Get(solver.Auto)
//	out, err := b.Solve(ctx, m, cmd, solver.Options{Timeout: time.Minute})
package solver

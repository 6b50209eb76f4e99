// Package config resolves benchmark settings.
//
// Sources apply in order: defaults, a named preset, a YAML file, then
// MODELBENCH_* environment variables.
//
//	cfg, err := config.Resolve("quick", "bench.yaml")
package config

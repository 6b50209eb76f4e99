package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	// One cold solve, useful to check a model end to end.
	"quick": {
		Warmup: 0, Repeat: 1, Format: FormatText,
		Solver: SolverConfig{Backend: DefaultSolver},
	},
	"default": {
		Warmup: DefaultWarmup, Repeat: DefaultRepeat, Format: FormatText,
		Solver: SolverConfig{Backend: DefaultSolver},
	},
	"thorough": {
		Warmup: 10, Repeat: 10, Format: FormatText,
		Solver: SolverConfig{Backend: DefaultSolver, Timeout: 10 * time.Minute},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

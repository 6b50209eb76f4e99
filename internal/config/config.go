package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWarmup = 4
	DefaultRepeat = 1
	DefaultSolver = "auto"
	DefaultFormat = FormatText
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalid       = errors.New("invalid configuration")
)

type Config struct {
	Warmup  int          `yaml:"warmup" env:"MODELBENCH_WARMUP"`
	Repeat  int          `yaml:"repeat" env:"MODELBENCH_REPEAT"`
	Command string       `yaml:"command,omitempty" env:"MODELBENCH_COMMAND"`
	Format  string       `yaml:"format" env:"MODELBENCH_FORMAT"`
	Strict  bool         `yaml:"strict" env:"MODELBENCH_STRICT"`
	Solver  SolverConfig `yaml:"solver"`
}

type SolverConfig struct {
	Backend string        `yaml:"backend" env:"MODELBENCH_SOLVER"`
	Path    string        `yaml:"path,omitempty" env:"MODELBENCH_SOLVER_PATH"`
	Args    []string      `yaml:"args,omitempty" env:"MODELBENCH_SOLVER_ARGS" envSeparator:" "`
	Timeout time.Duration `yaml:"timeout" env:"MODELBENCH_TIMEOUT"`
}

func DefaultConfig() *Config {
	return &Config{
		Warmup: DefaultWarmup,
		Repeat: DefaultRepeat,
		Format: DefaultFormat,
		Solver: SolverConfig{
			Backend: DefaultSolver,
		},
	}
}

func (c *Config) Clone() *Config {
	out := *c
	out.Solver.Args = slices.Clone(c.Solver.Args)
	return &out
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve layers defaults, the named preset, the config file and the
// MODELBENCH_* environment, each overriding the one before. Empty preset
// and path are skipped. Command-line flags are applied on top by the caller.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		p := GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownPreset, preset, ListPresets())
		}
		cfg = p
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields whose environment variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Warmup < 0:
		return fmt.Errorf("%w: warmup must be >= 0, got %d", ErrInvalid, c.Warmup)
	case c.Repeat < 1:
		return fmt.Errorf("%w: repeat must be >= 1, got %d", ErrInvalid, c.Repeat)
	case c.Solver.Timeout < 0:
		return fmt.Errorf("%w: timeout must be >= 0, got %s", ErrInvalid, c.Solver.Timeout)
	case c.Format != FormatText && c.Format != FormatJSON:
		return fmt.Errorf("%w: format must be %s or %s, got %q", ErrInvalid, FormatText, FormatJSON, c.Format)
	}
	return nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

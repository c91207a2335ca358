// Package config loads the run parameters cmd/orrery needs to build a
// Universe and drive it: solver choice, accuracy knobs, step sizing,
// and optional recorder output paths.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSolver     = "direct"
	DefaultTheta      = 0.5
	DefaultSizeScale  = 4.0
	DefaultDt         = 60.0
	DefaultSubsteps   = 1
	DefaultSteps      = 100
	DefaultBodies     = 100
	DefaultWorkerHint = 0 // 0 means "use GOMAXPROCS"
)

// Config is the top-level run configuration, loaded from a YAML file
// and overridable by CLI flags (cmd/orrery applies flags on top of
// whatever Load returns, the way san-kum-dynsim's runSimulation does).
type Config struct {
	Solver     string  `yaml:"solver"` // "direct", "direct-parallel", "barnes-hut", "barnes-hut-parallel"
	Theta      float64 `yaml:"theta"`
	SizeScale  float64 `yaml:"size_scale"`
	Dt         float64 `yaml:"dt"`
	Substeps   int     `yaml:"substeps"`
	Steps      int     `yaml:"steps"`
	Bodies     int     `yaml:"bodies"`
	Seed       int64   `yaml:"seed"`
	WorkerHint int     `yaml:"worker_hint"`

	SQLitePath     string `yaml:"sqlite_path"`
	CheckpointPath string `yaml:"checkpoint_path"`
}

// DefaultConfig returns a Config populated with the defaults above.
func DefaultConfig() *Config {
	return &Config{
		Solver:     DefaultSolver,
		Theta:      DefaultTheta,
		SizeScale:  DefaultSizeScale,
		Dt:         DefaultDt,
		Substeps:   DefaultSubsteps,
		Steps:      DefaultSteps,
		Bodies:     DefaultBodies,
		WorkerHint: DefaultWorkerHint,
	}
}

// Load reads path as YAML over a DefaultConfig, so that a file only
// needs to specify the fields it wants to override.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

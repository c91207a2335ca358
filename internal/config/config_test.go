package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Solver != DefaultSolver {
		t.Errorf("Solver = %q, want %q", cfg.Solver, DefaultSolver)
	}
	if cfg.Theta != DefaultTheta {
		t.Errorf("Theta = %g, want %g", cfg.Theta, DefaultTheta)
	}
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	const contents = "solver: barnes-hut\ntheta: 0.3\nbodies: 1000\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver != "barnes-hut" {
		t.Errorf("Solver = %q, want barnes-hut", cfg.Solver)
	}
	if cfg.Theta != 0.3 {
		t.Errorf("Theta = %g, want 0.3", cfg.Theta)
	}
	if cfg.Bodies != 1000 {
		t.Errorf("Bodies = %d, want 1000", cfg.Bodies)
	}
	// Untouched fields should keep their defaults.
	if cfg.SizeScale != DefaultSizeScale {
		t.Errorf("SizeScale = %g, want default %g", cfg.SizeScale, DefaultSizeScale)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("Dt = %g, want default %g", cfg.Dt, DefaultDt)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

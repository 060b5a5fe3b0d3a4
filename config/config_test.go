package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Epoch.MaxWaitSeconds != 600 || cfg.Epoch.UnservedPenalty != 1000 {
		t.Fatalf("unexpected epoch defaults: %+v", cfg.Epoch)
	}
	if cfg.Dispatch.Strategy != "exact" {
		t.Fatalf("expected exact strategy by default, got %s", cfg.Dispatch.Strategy)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected json output by default, got %s", cfg.Output.Format)
	}
	p := cfg.Epoch.Params()
	if p.MaxWait != 600 || p.MaxDelay != 600 || p.UnservedPenalty != 1000 {
		t.Fatalf("unexpected params mapping: %+v", p)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
epoch:
  max_wait_seconds: 120
  max_delay_seconds: 240
dispatch:
  strategy: greedy
  workers: 2
grid:
  rows: 5
  cols: 5
output:
  format: csv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Epoch.MaxWaitSeconds != 120 || cfg.Epoch.MaxDelaySeconds != 240 {
		t.Fatalf("unexpected epoch section: %+v", cfg.Epoch)
	}
	// Untouched fields keep their defaults.
	if cfg.Epoch.UnservedPenalty != 1000 {
		t.Fatalf("expected default penalty, got %v", cfg.Epoch.UnservedPenalty)
	}
	if cfg.Dispatch.Strategy != "greedy" || cfg.Dispatch.Workers != 2 {
		t.Fatalf("unexpected dispatch section: %+v", cfg.Dispatch)
	}
	if cfg.Dispatch.SolverTimeoutSeconds != 30 {
		t.Fatalf("expected default solver timeout, got %d", cfg.Dispatch.SolverTimeoutSeconds)
	}
	if cfg.Grid.Rows != 5 || cfg.Grid.Cols != 5 {
		t.Fatalf("unexpected grid section: %+v", cfg.Grid)
	}
	if cfg.Output.Format != "csv" {
		t.Fatalf("unexpected output section: %+v", cfg.Output)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "epoch:\n  max_wait_seconds: 120\ndispatch:\n  strategy: exact\n")
	t.Setenv("RP_EPOCH__MAX_WAIT_SECONDS", "90")
	t.Setenv("RP_DISPATCH__STRATEGY", "greedy")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The env layer must merge over the nested file values, not sit beside
	// them as flat keys.
	if cfg.Epoch.MaxWaitSeconds != 90 {
		t.Fatalf("expected env override 90, got %v", cfg.Epoch.MaxWaitSeconds)
	}
	if cfg.Dispatch.Strategy != "greedy" {
		t.Fatalf("expected env override greedy, got %s", cfg.Dispatch.Strategy)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "config.yaml", "epoch:\n  max_wait_seconds: -5\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative wait")
	}

	path = writeConfig(t, "config.yaml", "dispatch:\n  strategy: simulated-annealing\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown strategy")
	}

	path = writeConfig(t, "config.yaml", "output:\n  format: xml\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown output format")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

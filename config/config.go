package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fleetsim/ridepool/core/dispatch"
	"github.com/fleetsim/ridepool/core/metrics"
	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/infra/network"
	"github.com/fleetsim/ridepool/scenario"
)

// Config is the full service configuration.
type Config struct {
	Epoch     EpochConfig              `json:"epoch"`
	Dispatch  dispatch.Config          `json:"dispatch"`
	Solver    SolverConfig             `json:"solver"`
	Metrics   metrics.Config           `json:"metrics"`
	Generator scenario.GeneratorConfig `json:"generator"`
	Grid      network.GridConfig       `json:"grid"`
	Output    OutputConfig             `json:"output"`
}

// EpochConfig carries the epoch-wide assignment parameters.
type EpochConfig struct {
	// MaxWaitSeconds is Ω, the maximum wait before pickup.
	MaxWaitSeconds float64 `json:"max_wait_seconds"`
	// MaxDelaySeconds is Δ, the maximum added delay versus the direct route.
	MaxDelaySeconds float64 `json:"max_delay_seconds"`
	// UnservedPenalty is the objective cost per unassigned request.
	UnservedPenalty float64 `json:"unserved_penalty"`
}

// SetDefaults applies sane defaults.
func (c *EpochConfig) SetDefaults() {
	if c.MaxWaitSeconds == 0 {
		c.MaxWaitSeconds = 600
	}
	if c.MaxDelaySeconds == 0 {
		c.MaxDelaySeconds = 600
	}
	if c.UnservedPenalty == 0 {
		c.UnservedPenalty = 1000
	}
}

// Params converts the section to the domain parameter value threaded through
// the pipeline.
func (c EpochConfig) Params() model.Params {
	return model.Params{
		MaxWait:         c.MaxWaitSeconds,
		MaxDelay:        c.MaxDelaySeconds,
		UnservedPenalty: c.UnservedPenalty,
	}
}

// Validate rejects inconsistent parameters. This runs before any graph
// construction; failures are fatal.
func (c EpochConfig) Validate() error {
	return c.Params().Validate()
}

// SolverConfig configures the bundled branch-and-bound IP backend.
type SolverConfig struct {
	// MaxNodes bounds the branch-and-bound search. 0 means no limit.
	MaxNodes int `json:"max_nodes"`
}

// OutputConfig controls assignment export.
type OutputConfig struct {
	// Path of the exported assignment; "-" or empty writes to stdout.
	Path string `json:"path"`
	// Format is "json" or "csv".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Format != "json" && c.Format != "csv" {
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	return nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the configuration from a YAML or JSON file, applies RP_
// environment overrides and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. RP_EPOCH__MAX_WAIT_SECONDS. The
	// callback maps "__" to the koanf delimiter, so the provider must split
	// on "." for the override to merge into the nested file config.
	if err := k.Load(env.Provider("RP_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Epoch.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Generator.SetDefaults()
	c.Grid.SetDefaults()
	c.Output.SetDefaults()
}

// Validate checks every configuration section.
func (c *Config) Validate() error {
	if err := c.Epoch.Validate(); err != nil {
		return fmt.Errorf("epoch: %w", err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

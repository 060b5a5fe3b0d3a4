package dispatch

import "fmt"

// Config defines assignment-related settings.
type Config struct {
	// Strategy selects the primary solver: "exact" or "greedy".
	Strategy string `json:"strategy"`
	// SolverTimeoutSeconds bounds the exact solver before falling back to
	// the greedy heuristic.
	SolverTimeoutSeconds int `json:"solver_timeout_seconds"`
	// Workers bounds the per-vehicle trip enumeration parallelism.
	Workers int `json:"workers"`
	// TopK, when positive, prunes the RV graph to the k cheapest edges per
	// node before enumeration.
	TopK int `json:"top_k"`
	// WarmStart seeds the exact solver with the greedy solution.
	WarmStart bool `json:"warm_start"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = "exact"
	}
	if c.SolverTimeoutSeconds == 0 {
		c.SolverTimeoutSeconds = 30
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Strategy != "exact" && c.Strategy != "greedy" {
		return fmt.Errorf("unknown strategy %s", c.Strategy)
	}
	if c.SolverTimeoutSeconds < 0 {
		return fmt.Errorf("solver timeout must be >= 0")
	}
	return nil
}

package network

import (
	"fmt"
	"math/rand"
)

// GridConfig parameterizes synthetic network generation.
type GridConfig struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// MinTravelTime and MaxTravelTime bound the per-segment travel time in
	// seconds, drawn uniformly.
	MinTravelTime float64 `json:"min_travel_time"`
	MaxTravelTime float64 `json:"max_travel_time"`
}

// SetDefaults applies sane defaults.
func (c *GridConfig) SetDefaults() {
	if c.Rows == 0 {
		c.Rows = 10
	}
	if c.Cols == 0 {
		c.Cols = 10
	}
	if c.MinTravelTime == 0 {
		c.MinTravelTime = 30
	}
	if c.MaxTravelTime == 0 {
		c.MaxTravelTime = 120
	}
}

// Validate checks the configuration.
func (c GridConfig) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("grid must have at least one row and column")
	}
	if c.MinTravelTime <= 0 || c.MaxTravelTime < c.MinTravelTime {
		return fmt.Errorf("invalid travel time range [%v, %v]", c.MinTravelTime, c.MaxTravelTime)
	}
	return nil
}

// GenerateGrid builds a bidirectional grid network with randomized segment
// travel times. The same seed always yields the same network.
func GenerateGrid(cfg GridConfig, seed int64) (*Network, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	n := NewNetwork()
	node := func(r, c int) int64 { return int64(r*cfg.Cols + c) }
	draw := func() float64 {
		return cfg.MinTravelTime + rng.Float64()*(cfg.MaxTravelTime-cfg.MinTravelTime)
	}
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			if c+1 < cfg.Cols {
				if err := addBoth(n, node(r, c), node(r, c+1), draw()); err != nil {
					return nil, err
				}
			}
			if r+1 < cfg.Rows {
				if err := addBoth(n, node(r, c), node(r+1, c), draw()); err != nil {
					return nil, err
				}
			}
		}
	}
	return n, nil
}

func addBoth(n *Network, a, b int64, tt float64) error {
	if err := n.AddEdge(Location(a), Location(b), tt); err != nil {
		return err
	}
	return n.AddEdge(Location(b), Location(a), tt)
}

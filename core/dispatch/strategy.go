// Package dispatch turns the RTV graph into a final vehicle-trip assignment.
// Two interchangeable strategies are provided: an exact integer-programming
// formulation handed to a black-box oracle, and a greedy heuristic used as
// baseline and fallback.
package dispatch

import (
	"context"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rtv"
)

// Selection is a conflict-free set of RTV edges, referenced by index into the
// graph's edge list.
type Selection struct {
	EdgeIdx []int
}

// Strategy selects a conflict-free set of vehicle-trip edges minimizing total
// cost plus unserved penalty.
type Strategy interface {
	Name() string
	Solve(ctx context.Context, g *rtv.Graph, requests []model.Request) (Selection, error)
}

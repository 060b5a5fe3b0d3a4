package dispatch

import (
	"context"
	"sort"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rtv"
)

// GreedyStrategy selects edges in a single deterministic pass: edges serving
// more requests first, ties by lower cost, then vehicle id and trip key. It
// always produces a valid assignment but offers no optimality guarantee.
type GreedyStrategy struct{}

// Name implements Strategy.
func (GreedyStrategy) Name() string { return "greedy" }

// Solve implements Strategy. It never fails.
func (GreedyStrategy) Solve(_ context.Context, g *rtv.Graph, _ []model.Request) (Selection, error) {
	order := make([]int, len(g.Edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := g.Edges[order[a]], g.Edges[order[b]]
		if ea.Trip.Size() != eb.Trip.Size() {
			return ea.Trip.Size() > eb.Trip.Size()
		}
		if ea.Cost != eb.Cost {
			return ea.Cost < eb.Cost
		}
		if ea.VehicleID != eb.VehicleID {
			return ea.VehicleID < eb.VehicleID
		}
		return ea.Trip.Key() < eb.Trip.Key()
	})

	usedVehicle := make(map[string]bool)
	usedRequest := make(map[string]bool)
	var sel Selection
	for _, idx := range order {
		e := g.Edges[idx]
		if usedVehicle[e.VehicleID] {
			continue
		}
		conflict := false
		for _, r := range e.Trip.Requests {
			if usedRequest[r.ID] {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		usedVehicle[e.VehicleID] = true
		for _, r := range e.Trip.Requests {
			usedRequest[r.ID] = true
		}
		sel.EdgeIdx = append(sel.EdgeIdx, idx)
	}
	return sel, nil
}

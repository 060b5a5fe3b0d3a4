// Package rvgraph builds the pairwise compatibility graph between vehicles and
// requests. Its edges are the pruning foundation for trip enumeration: a
// missing edge means the pair can never co-occur in any trip.
package rvgraph

import (
	"sort"

	"github.com/fleetsim/ridepool/core/logger"
	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/network"
	"github.com/fleetsim/ridepool/core/schedule"
)

// Graph holds vehicle-request and request-request compatibility edges. VR
// edges carry the singleton-trip delay cost, RR edges the origin-to-origin
// travel time; both are used only for pruning and edge ranking.
type Graph struct {
	vr map[string]map[string]float64
	rr map[string]map[string]float64
}

// HasVR reports whether a feasible singleton trip exists for the pair.
func (g *Graph) HasVR(vehicleID, requestID string) bool {
	_, ok := g.vr[vehicleID][requestID]
	return ok
}

// HasRR reports whether the two requests could share a hypothetical vehicle.
func (g *Graph) HasRR(a, b string) bool {
	_, ok := g.rr[a][b]
	return ok
}

// VehicleRequests returns the ids of requests connected to the vehicle,
// sorted for deterministic iteration.
func (g *Graph) VehicleRequests(vehicleID string) []string {
	ids := make([]string, 0, len(g.vr[vehicleID]))
	for id := range g.vr[vehicleID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builder computes RV graphs for one epoch.
type Builder struct {
	oracle network.TravelTimeOracle
	params model.Params
	log    logger.Logger
	// TopK, when positive, keeps only the k cheapest VR edges per vehicle
	// and RR edges per request.
	TopK int
}

// NewBuilder returns a Builder using the given oracle and epoch parameters.
func NewBuilder(oracle network.TravelTimeOracle, params model.Params, log logger.Logger) *Builder {
	return &Builder{oracle: oracle, params: params, log: log}
}

// Build computes all VR and RR edges. Cost: O(|V|*|R| + |R|^2) oracle calls.
func (b *Builder) Build(vehicles []model.Vehicle, requests []model.Request) *Graph {
	g := &Graph{
		vr: make(map[string]map[string]float64, len(vehicles)),
		rr: make(map[string]map[string]float64, len(requests)),
	}

	for _, v := range vehicles {
		if v.SpareCapacity() == 0 {
			b.log.Debugf("rv: skipping vehicle %s, no spare capacity", v.ID)
			continue
		}
		for _, r := range requests {
			plan, ok := schedule.Best(v, model.NewTrip(r), b.oracle, b.params)
			if !ok {
				continue
			}
			if g.vr[v.ID] == nil {
				g.vr[v.ID] = make(map[string]float64)
			}
			g.vr[v.ID][r.ID] = plan.Delay
		}
	}

	for i := 0; i < len(requests); i++ {
		for j := i + 1; j < len(requests); j++ {
			if cost, ok := b.pairServable(requests[i], requests[j]); ok {
				g.addRR(requests[i].ID, requests[j].ID, cost)
			}
		}
	}

	if b.TopK > 0 {
		g.prune(b.TopK)
	}
	return g
}

// pairServable checks whether a hypothetical vehicle standing at the first
// request's origin could serve both requests under one of the pickup/dropoff
// interleavings, ignoring any real vehicle. The returned cost is the
// origin-to-origin travel time, used only for edge ranking.
func (b *Builder) pairServable(r1, r2 model.Request) (float64, bool) {
	o1o2 := b.oracle.TravelTime(r1.Origin, r2.Origin)
	o1d1 := b.oracle.TravelTime(r1.Origin, r1.Destination)
	d1o2 := b.oracle.TravelTime(r1.Destination, r2.Origin)
	o2d2 := b.oracle.TravelTime(r2.Origin, r2.Destination)
	d1d2 := b.oracle.TravelTime(r1.Destination, r2.Destination)
	o2d1 := b.oracle.TravelTime(r2.Origin, r1.Destination)

	drop1 := r1.DropoffDeadline(o1d1, b.params)
	drop2 := r2.DropoffDeadline(o2d2, b.params)
	pick2 := r2.PickupDeadline(b.params)

	// o1 -> d1 -> o2 -> d2
	if o1d1 <= drop1 && o1d1+d1o2 <= pick2 && o1d1+d1o2+o2d2 <= drop2 {
		return o1o2, true
	}
	// o1 -> o2 -> d2 -> d1
	if o1o2 <= pick2 && o1o2+o2d2 <= drop2 && o1o2+o2d2+d1d2 <= drop1 {
		return o1o2, true
	}
	// o1 -> o2 -> d1 -> d2
	if o1o2 <= pick2 && o1o2+o2d1 <= drop1 && o1o2+o2d1+d1d2 <= drop2 {
		return o1o2, true
	}
	return 0, false
}

func (g *Graph) addRR(a, b string, cost float64) {
	if g.rr[a] == nil {
		g.rr[a] = make(map[string]float64)
	}
	if g.rr[b] == nil {
		g.rr[b] = make(map[string]float64)
	}
	g.rr[a][b] = cost
	g.rr[b][a] = cost
}

// prune keeps the k cheapest edges per node, dropping the rest. RR edges are
// removed symmetrically.
func (g *Graph) prune(k int) {
	for vid, edges := range g.vr {
		for _, rid := range beyondK(edges, k) {
			delete(g.vr[vid], rid)
		}
	}
	for rid, edges := range g.rr {
		for _, other := range beyondK(edges, k) {
			delete(g.rr[rid], other)
			delete(g.rr[other], rid)
		}
	}
}

func beyondK(edges map[string]float64, k int) []string {
	if len(edges) <= k {
		return nil
	}
	ids := make([]string, 0, len(edges))
	for id := range edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if edges[ids[i]] != edges[ids[j]] {
			return edges[ids[i]] < edges[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids[k:]
}

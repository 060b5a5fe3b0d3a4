// Package rtv enumerates the feasible trips of every vehicle and assembles
// the request-trip-vehicle graph consumed by the assignment solver.
package rtv

import (
	"sort"
	"sync"

	"github.com/fleetsim/ridepool/core/logger"
	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/network"
	"github.com/fleetsim/ridepool/core/rvgraph"
	"github.com/fleetsim/ridepool/core/schedule"
)

// Enumerator grows feasible trips of increasing size per vehicle. Vehicles
// are independent: enumeration runs on a bounded worker pool over read-only
// inputs and joins before the graph is assembled.
type Enumerator struct {
	oracle  network.TravelTimeOracle
	params  model.Params
	log     logger.Logger
	workers int
}

// NewEnumerator returns an Enumerator. workers <= 0 means sequential.
func NewEnumerator(oracle network.TravelTimeOracle, params model.Params, workers int, log logger.Logger) *Enumerator {
	if workers <= 0 {
		workers = 1
	}
	return &Enumerator{oracle: oracle, params: params, log: log, workers: workers}
}

// Build enumerates every feasible trip of every vehicle, up to its spare
// capacity, and returns the complete RTV graph.
func (e *Enumerator) Build(vehicles []model.Vehicle, requests []model.Request, rv *rvgraph.Graph) *Graph {
	byVehicle := make([][]Edge, len(vehicles))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)
	for i := range vehicles {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			byVehicle[idx] = e.vehicleTrips(vehicles[idx], requests, rv)
		}(i)
	}
	wg.Wait()

	var edges []Edge
	for i := range byVehicle {
		edges = append(edges, byVehicle[i]...)
	}
	e.log.Debugf("rtv: %d edges across %d vehicles", len(edges), len(vehicles))
	return NewGraph(edges)
}

// vehicleTrips runs the incremental search for one vehicle. A size-k request
// set is only scheduled when its vehicle and pair RV edges exist and every
// size-(k-1) subset is already known feasible. The subset check is an
// explicit precondition, not a byproduct of search order.
func (e *Enumerator) vehicleTrips(v model.Vehicle, requests []model.Request, rv *rvgraph.Graph) []Edge {
	maxSize := v.SpareCapacity()
	if maxSize == 0 {
		return nil
	}

	reqByID := make(map[string]model.Request, len(requests))
	for _, r := range requests {
		reqByID[r.ID] = r
	}

	feasible := make(map[string]model.Trip)
	var edges []Edge
	var lastSize []model.Trip

	for _, id := range rv.VehicleRequests(v.ID) {
		r, ok := reqByID[id]
		if !ok {
			continue
		}
		trip := model.NewTrip(r)
		plan, ok := schedule.Best(v, trip, e.oracle, e.params)
		if !ok {
			// The VR edge was computed with the same schedule search,
			// so this should not happen; drop the pair regardless.
			continue
		}
		feasible[trip.Key()] = trip
		lastSize = append(lastSize, trip)
		edges = append(edges, newEdge(v.ID, trip, plan))
	}

	for size := 2; size <= maxSize && len(lastSize) > 0; size++ {
		var nextSize []model.Trip
		seen := make(map[string]bool)
		for _, base := range lastSize {
			for _, r := range requests {
				if !e.extendable(v, base, r, rv) {
					continue
				}
				cand := base.Extend(r)
				key := cand.Key()
				if seen[key] {
					continue
				}
				seen[key] = true
				if !subsetsFeasible(cand, feasible) {
					continue
				}
				plan, ok := schedule.Best(v, cand, e.oracle, e.params)
				if !ok {
					continue
				}
				feasible[key] = cand
				nextSize = append(nextSize, cand)
				edges = append(edges, newEdge(v.ID, cand, plan))
			}
		}
		lastSize = nextSize
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Trip.Size() != edges[j].Trip.Size() {
			return edges[i].Trip.Size() < edges[j].Trip.Size()
		}
		return edges[i].Trip.Key() < edges[j].Trip.Key()
	})
	return edges
}

// extendable applies the cheap pairwise pre-filters before any scheduling
// work: the new request needs a VR edge with the vehicle and an RR edge with
// every request already in the trip.
func (e *Enumerator) extendable(v model.Vehicle, base model.Trip, r model.Request, rv *rvgraph.Graph) bool {
	if base.Contains(r.ID) {
		return false
	}
	if !rv.HasVR(v.ID, r.ID) {
		return false
	}
	for _, member := range base.Requests {
		if !rv.HasRR(member.ID, r.ID) {
			return false
		}
	}
	return true
}

// subsetsFeasible checks that every subset obtained by removing one request
// is already known feasible for the vehicle.
func subsetsFeasible(t model.Trip, feasible map[string]model.Trip) bool {
	if t.Size() == 1 {
		return true
	}
	for drop := range t.Requests {
		sub := make([]model.Request, 0, t.Size()-1)
		for i, r := range t.Requests {
			if i != drop {
				sub = append(sub, r)
			}
		}
		if _, ok := feasible[model.NewTrip(sub...).Key()]; !ok {
			return false
		}
	}
	return true
}

func newEdge(vehicleID string, t model.Trip, p schedule.Plan) Edge {
	return Edge{VehicleID: vehicleID, Trip: t, Cost: p.Delay, TravelTime: p.TravelTime, Stops: p.Stops}
}

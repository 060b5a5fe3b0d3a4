// Package schedule computes optimal pickup/dropoff orderings for a vehicle
// serving a set of requests. It is the feasibility kernel shared by the RV
// graph builder (singleton trips) and the trip enumerator (multi-request
// trips).
package schedule

import (
	"math"
	"sort"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/network"
)

// Plan is a feasible stop ordering with its cost figures.
type Plan struct {
	Stops []model.Stop
	// Delay is the summed per-request dropoff delay, the trip cost.
	Delay float64
	// TravelTime is the total driving time, used as tie-breaker.
	TravelTime float64
}

type event struct {
	kind model.StopKind
	req  model.Request
	loc  Location
}

type Location = model.Location

// Best searches all precedence-respecting stop orderings for the vehicle
// serving the trip's requests plus its onboard dropoffs, and returns the plan
// minimizing total delay. Ties break by lower total travel time, then by the
// first ordering in lexicographic request-id sequence. The second return
// value is false when no ordering satisfies every deadline.
func Best(v model.Vehicle, t model.Trip, oracle network.TravelTimeOracle, p model.Params) (Plan, bool) {
	events := make([]event, 0, 2*t.Size()+len(v.Onboard))
	for _, r := range v.Onboard {
		events = append(events, event{kind: model.Dropoff, req: r, loc: r.Destination})
	}
	for _, r := range t.Requests {
		events = append(events, event{kind: model.Pickup, req: r, loc: r.Origin})
		events = append(events, event{kind: model.Dropoff, req: r, loc: r.Destination})
	}
	// Deterministic exploration order: by request id, pickup before dropoff.
	sort.Slice(events, func(i, j int) bool {
		if events[i].req.ID != events[j].req.ID {
			return events[i].req.ID < events[j].req.ID
		}
		return events[i].kind < events[j].kind
	})

	// Direct travel times drive both the dropoff deadlines and the delay
	// accounting. An unreachable origin-destination pair makes the whole
	// trip infeasible.
	direct := make(map[string]float64, t.Size()+len(v.Onboard))
	for _, r := range t.Requests {
		d := oracle.TravelTime(r.Origin, r.Destination)
		if math.IsInf(d, 1) {
			return Plan{}, false
		}
		direct[r.ID] = d
	}
	for _, r := range v.Onboard {
		direct[r.ID] = oracle.TravelTime(r.Origin, r.Destination)
	}

	s := &search{
		events:  events,
		oracle:  oracle,
		params:  p,
		direct:  direct,
		best:    Plan{Delay: math.Inf(1), TravelTime: math.Inf(1)},
		picked:  make(map[string]bool, len(direct)),
		cap:     v.Capacity,
		onboard: len(v.Onboard),
	}
	for _, r := range v.Onboard {
		s.picked[r.ID] = true
	}
	s.walk(v.Location, 0, 0, 0, make([]model.Stop, 0, len(events)))
	if math.IsInf(s.best.Delay, 1) {
		return Plan{}, false
	}
	return s.best, true
}

type search struct {
	events  []event
	oracle  network.TravelTimeOracle
	params  model.Params
	direct  map[string]float64
	visited uint64
	picked  map[string]bool
	cap     int
	onboard int
	found   bool
	best    Plan
}

// walk extends the partial schedule by every admissible next event. Events are
// tried in sorted order so the first complete plan among equal-cost ones has
// the lowest request-id sequence.
func (s *search) walk(pos Location, now, delay, travel float64, stops []model.Stop) {
	if len(stops) == len(s.events) {
		if !s.found || delay < s.best.Delay || (delay == s.best.Delay && travel < s.best.TravelTime) {
			s.best = Plan{Stops: append([]model.Stop(nil), stops...), Delay: delay, TravelTime: travel}
			s.found = true
		}
		return
	}
	for i, e := range s.events {
		if s.visited&(1<<uint(i)) != 0 {
			continue
		}
		switch e.kind {
		case model.Pickup:
			if s.onboard >= s.cap {
				continue
			}
		case model.Dropoff:
			if !s.picked[e.req.ID] {
				continue
			}
		}
		leg := s.oracle.TravelTime(pos, e.loc)
		if math.IsInf(leg, 1) {
			continue
		}
		at := now + leg
		added := 0.0
		if e.kind == model.Pickup {
			if at > e.req.PickupDeadline(s.params) {
				continue
			}
		} else {
			if at > e.req.DropoffDeadline(s.direct[e.req.ID], s.params) {
				continue
			}
			added = at - (e.req.RequestTime + s.direct[e.req.ID])
			if added < 0 {
				added = 0
			}
		}
		if s.found && delay+added > s.best.Delay {
			continue
		}

		s.visited |= 1 << uint(i)
		if e.kind == model.Pickup {
			s.picked[e.req.ID] = true
			s.onboard++
		} else {
			s.onboard--
		}
		s.walk(e.loc, at, delay+added, travel+leg,
			append(stops, model.Stop{Kind: e.kind, RequestID: e.req.ID, Location: e.loc, Time: at}))
		if e.kind == model.Pickup {
			s.picked[e.req.ID] = false
			s.onboard--
		} else {
			s.onboard++
		}
		s.visited &^= 1 << uint(i)
	}
}

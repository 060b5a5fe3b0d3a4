package model

import (
	"fmt"
	"sort"
	"strings"
)

// Location identifies a node of the road network. The core treats it as an
// opaque identifier; only the travel-time oracle knows the network topology.
type Location int64

// Vehicle represents a fleet vehicle at the decision epoch.
type Vehicle struct {
	ID       string
	Capacity int      // maximum number of requests on board at any time
	Location Location // current position
	// Onboard lists requests already picked up before the epoch. Their
	// dropoffs are mandatory stops in every candidate schedule and they
	// consume capacity until dropped off.
	Onboard []Request
}

// SpareCapacity returns the number of additional requests the vehicle can
// still accept.
func (v Vehicle) SpareCapacity() int {
	spare := v.Capacity - len(v.Onboard)
	if spare < 0 {
		return 0
	}
	return spare
}

// Validate checks that the vehicle definition is usable.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.Capacity < 1 {
		return fmt.Errorf("vehicle %s: capacity must be >= 1, got %d", v.ID, v.Capacity)
	}
	if len(v.Onboard) > v.Capacity {
		return fmt.Errorf("vehicle %s: %d onboard requests exceed capacity %d", v.ID, len(v.Onboard), v.Capacity)
	}
	return nil
}

// Request is a ride request present in the pool at the decision epoch.
// Times are expressed in seconds relative to the epoch start.
type Request struct {
	ID          string
	Origin      Location
	Destination Location
	RequestTime float64
}

// PickupDeadline returns the latest acceptable pickup time under the maximum
// wait Ω.
func (r Request) PickupDeadline(p Params) float64 {
	return r.RequestTime + p.MaxWait
}

// DropoffDeadline returns the latest acceptable dropoff time given the direct
// origin-destination travel time and the maximum added delay Δ.
func (r Request) DropoffDeadline(direct float64, p Params) float64 {
	return r.RequestTime + direct + p.MaxDelay
}

// Validate checks that the request definition is usable.
func (r Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request id is required")
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("request %s: origin and destination are identical", r.ID)
	}
	return nil
}

// Params holds the epoch-wide scenario parameters. They are threaded
// explicitly through every pipeline stage; nothing reads them from ambient
// state.
type Params struct {
	MaxWait         float64 // Ω: maximum wait before pickup, seconds
	MaxDelay        float64 // Δ: maximum added delay versus the direct route, seconds
	UnservedPenalty float64 // objective cost per request left unassigned
}

// Validate rejects inconsistent parameters before any graph construction.
func (p Params) Validate() error {
	if p.MaxWait < 0 {
		return fmt.Errorf("max wait must be >= 0, got %v", p.MaxWait)
	}
	if p.MaxDelay < 0 {
		return fmt.Errorf("max delay must be >= 0, got %v", p.MaxDelay)
	}
	if p.UnservedPenalty <= 0 {
		return fmt.Errorf("unserved penalty must be > 0, got %v", p.UnservedPenalty)
	}
	return nil
}

// StopKind distinguishes pickup and dropoff events in a schedule.
type StopKind int

const (
	Pickup StopKind = iota
	Dropoff
)

func (k StopKind) String() string {
	if k == Pickup {
		return "pickup"
	}
	return "dropoff"
}

// Stop is one visited event of a vehicle schedule with its realized time.
type Stop struct {
	Kind      StopKind
	RequestID string
	Location  Location
	Time      float64
}

// Trip is an unordered, non-empty set of requests served together. Requests
// are kept sorted by id so that Key is canonical.
type Trip struct {
	Requests []Request
}

// NewTrip builds a trip from the given requests, sorted by id.
func NewTrip(requests ...Request) Trip {
	rs := make([]Request, len(requests))
	copy(rs, requests)
	sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	return Trip{Requests: rs}
}

// Key returns the canonical identifier of the request set.
func (t Trip) Key() string {
	ids := make([]string, len(t.Requests))
	for i, r := range t.Requests {
		ids[i] = r.ID
	}
	return strings.Join(ids, "+")
}

// Size returns the number of requests in the trip.
func (t Trip) Size() int { return len(t.Requests) }

// Contains reports whether the trip serves the given request.
func (t Trip) Contains(requestID string) bool {
	for _, r := range t.Requests {
		if r.ID == requestID {
			return true
		}
	}
	return false
}

// Extend returns a new trip with one additional request.
func (t Trip) Extend(r Request) Trip {
	rs := make([]Request, 0, len(t.Requests)+1)
	rs = append(rs, t.Requests...)
	rs = append(rs, r)
	return NewTrip(rs...)
}

// Route is the concrete plan assigned to one vehicle: the ordered stop list
// with realized times and the total delay cost of the underlying trip.
type Route struct {
	VehicleID string
	Trip      Trip
	Stops     []Stop
	Cost      float64
}

// Assignment is the epoch outcome: at most one route per vehicle and the list
// of request ids left unserved.
type Assignment struct {
	Routes   []Route
	Unserved []string
	// Strategy names the solver that actually produced the result,
	// "exact" or "greedy". Advisory only.
	Strategy string
	// Objective is the realized objective value: total delay cost plus the
	// unserved penalty for every unserved request.
	Objective float64
}

// Served returns the number of requests covered by the selected routes.
func (a Assignment) Served() int {
	n := 0
	for _, rt := range a.Routes {
		n += rt.Trip.Size()
	}
	return n
}

package rvgraph

import (
	"math"
	"testing"

	"github.com/fleetsim/ridepool/core/model"
)

type stubOracle map[[2]model.Location]float64

func (o stubOracle) TravelTime(from, to model.Location) float64 {
	if from == to {
		return 0
	}
	if tt, ok := o[[2]model.Location{from, to}]; ok {
		return tt
	}
	return math.Inf(1)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

var params = model.Params{MaxWait: 200, MaxDelay: 300, UnservedPenalty: 1000}

func TestBuildEdges(t *testing.T) {
	oracle := stubOracle{
		{1, 2}: 100,
		{1, 3}: 150,
		{2, 3}: 120,
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 2, Location: 1}}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2, RequestTime: 0},
		{ID: "r2", Origin: 1, Destination: 3, RequestTime: 10},
	}

	g := NewBuilder(oracle, params, nopLogger{}).Build(vehicles, requests)

	if !g.HasVR("v1", "r1") || !g.HasVR("v1", "r2") {
		t.Fatalf("expected VR edges for both requests")
	}
	if !g.HasRR("r1", "r2") || !g.HasRR("r2", "r1") {
		t.Fatalf("expected a symmetric RR edge")
	}
	got := g.VehicleRequests("v1")
	if len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Fatalf("expected sorted [r1 r2], got %v", got)
	}
}

func TestBuildSkipsFullVehicle(t *testing.T) {
	oracle := stubOracle{{1, 2}: 50}
	vehicles := []model.Vehicle{{
		ID: "v1", Capacity: 1, Location: 1,
		Onboard: []model.Request{{ID: "p1", Origin: 1, Destination: 2}},
	}}
	requests := []model.Request{{ID: "r1", Origin: 1, Destination: 2}}

	g := NewBuilder(oracle, params, nopLogger{}).Build(vehicles, requests)
	if g.HasVR("v1", "r1") {
		t.Fatalf("a vehicle with no spare seat must not get VR edges")
	}
}

func TestBuildNoRREdgeWhenUnpoolable(t *testing.T) {
	// r2's origin is 250s from r1's origin, past any pickup window starting
	// at r1, and there is no road from r1's destination either.
	oracle := stubOracle{
		{0, 1}: 10,
		{0, 3}: 10,
		{1, 2}: 100,
		{3, 4}: 80,
		{1, 3}: 250,
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 2, Location: 0}}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2},
		{ID: "r2", Origin: 3, Destination: 4},
	}

	g := NewBuilder(oracle, params, nopLogger{}).Build(vehicles, requests)
	if !g.HasVR("v1", "r1") || !g.HasVR("v1", "r2") {
		t.Fatalf("both singletons should be servable")
	}
	if g.HasRR("r1", "r2") {
		t.Fatalf("expected no RR edge for an unpoolable pair")
	}
}

func TestBuildTopKPrune(t *testing.T) {
	oracle := stubOracle{
		{1, 2}: 100,
		{1, 4}: 30,
		{4, 5}: 50,
		{1, 6}: 60,
		{6, 7}: 20,
	}
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 2, Location: 1}}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2}, // delay 0
		{ID: "r2", Origin: 4, Destination: 5}, // delay 30
		{ID: "r3", Origin: 6, Destination: 7}, // delay 60
	}

	b := NewBuilder(oracle, params, nopLogger{})
	b.TopK = 2
	g := b.Build(vehicles, requests)

	if !g.HasVR("v1", "r1") || !g.HasVR("v1", "r2") {
		t.Fatalf("the two cheapest edges must survive pruning")
	}
	if g.HasVR("v1", "r3") {
		t.Fatalf("the most expensive edge must be pruned at k=2")
	}
}

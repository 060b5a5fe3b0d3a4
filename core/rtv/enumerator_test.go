package rtv

import (
	"math"
	"testing"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rvgraph"
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

func buildGraph(t *testing.T, oracle stubOracle, vehicles []model.Vehicle, requests []model.Request, workers int) *Graph {
	t.Helper()
	rv := rvgraph.NewBuilder(oracle, params, nopLogger{}).Build(vehicles, requests)
	return NewEnumerator(oracle, params, workers, nopLogger{}).Build(vehicles, requests, rv)
}

var pairOracle = stubOracle{
	{1, 2}: 100,
	{1, 3}: 150,
	{2, 3}: 120,
}

func TestBuildEnumeratesPooledTrip(t *testing.T) {
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 2, Location: 1}}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2, RequestTime: 0},
		{ID: "r2", Origin: 1, Destination: 3, RequestTime: 10},
	}

	g := buildGraph(t, pairOracle, vehicles, requests, 1)
	if len(g.Edges) != 3 {
		t.Fatalf("expected 3 edges (two singletons, one pair), got %d", len(g.Edges))
	}
	// Sorted by trip size then key.
	keys := []string{"r1", "r2", "r1+r2"}
	for i, want := range keys {
		if got := g.Edges[i].Trip.Key(); got != want {
			t.Fatalf("edge %d: got trip %s want %s", i, got, want)
		}
	}
	pair := g.Edges[2]
	if pair.Cost != 60 {
		t.Fatalf("expected pooled trip cost 60 got %v", pair.Cost)
	}
	if len(pair.Stops) != 4 {
		t.Fatalf("expected 4 stops on the pooled trip got %d", len(pair.Stops))
	}
	if idx := g.VehicleEdges("v1"); len(idx) != 3 {
		t.Fatalf("expected 3 edges indexed for v1, got %d", len(idx))
	}
}

func TestBuildCapacityOneStopsAtSingletons(t *testing.T) {
	vehicles := []model.Vehicle{{ID: "v1", Capacity: 1, Location: 1}}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2, RequestTime: 0},
		{ID: "r2", Origin: 1, Destination: 3, RequestTime: 10},
	}

	g := buildGraph(t, pairOracle, vehicles, requests, 1)
	if len(g.Edges) != 2 {
		t.Fatalf("expected only singleton trips at capacity 1, got %d edges", len(g.Edges))
	}
	for _, e := range g.Edges {
		if e.Trip.Size() != 1 {
			t.Fatalf("unexpected trip %s at capacity 1", e.Trip.Key())
		}
	}
}

func TestBuildSkipsPairsWithoutRREdge(t *testing.T) {
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

	g := buildGraph(t, oracle, vehicles, requests, 1)
	for _, e := range g.Edges {
		if e.Trip.Size() > 1 {
			t.Fatalf("pair %s should have been filtered by the RR edge check", e.Trip.Key())
		}
	}
	if len(g.Edges) != 2 {
		t.Fatalf("expected the two singletons, got %d edges", len(g.Edges))
	}
}

func TestBuildNoVehicles(t *testing.T) {
	g := buildGraph(t, pairOracle, nil, []model.Request{{ID: "r1", Origin: 1, Destination: 2}}, 1)
	if !g.Empty() {
		t.Fatalf("expected an empty graph without vehicles")
	}
}

// Worker count must not change the result.
func TestBuildParallelMatchesSequential(t *testing.T) {
	oracle := stubOracle{
		{1, 2}: 100,
		{1, 3}: 150,
		{2, 3}: 120,
		{5, 1}: 40,
		{5, 3}: 90,
	}
	vehicles := []model.Vehicle{
		{ID: "v1", Capacity: 2, Location: 1},
		{ID: "v2", Capacity: 2, Location: 5},
	}
	requests := []model.Request{
		{ID: "r1", Origin: 1, Destination: 2, RequestTime: 0},
		{ID: "r2", Origin: 1, Destination: 3, RequestTime: 10},
	}

	seq := buildGraph(t, oracle, vehicles, requests, 1)
	par := buildGraph(t, oracle, vehicles, requests, 8)
	if len(seq.Edges) != len(par.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(seq.Edges), len(par.Edges))
	}
	for i := range seq.Edges {
		a, b := seq.Edges[i], par.Edges[i]
		if a.VehicleID != b.VehicleID || a.Trip.Key() != b.Trip.Key() || a.Cost != b.Cost {
			t.Fatalf("edge %d differs: %+v vs %+v", i, a, b)
		}
	}
}

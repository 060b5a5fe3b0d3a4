package rtv

import "github.com/fleetsim/ridepool/core/model"

// Edge links a vehicle to a trip it can feasibly serve, with the cost and
// concrete schedule of the delay-minimizing stop ordering.
type Edge struct {
	VehicleID  string
	Trip       model.Trip
	Cost       float64
	TravelTime float64
	Stops      []model.Stop
}

// Graph is the request-trip-vehicle structure consumed by the assignment
// solver. It is built once per epoch and never mutated afterwards.
type Graph struct {
	Edges     []Edge
	byVehicle map[string][]int
}

// NewGraph assembles a graph from per-vehicle edge lists.
func NewGraph(edges []Edge) *Graph {
	g := &Graph{Edges: edges, byVehicle: make(map[string][]int)}
	for i, e := range edges {
		g.byVehicle[e.VehicleID] = append(g.byVehicle[e.VehicleID], i)
	}
	return g
}

// VehicleEdges returns the indices of the vehicle's edges in Edges.
func (g *Graph) VehicleEdges(vehicleID string) []int {
	return g.byVehicle[vehicleID]
}

// Empty reports whether no vehicle has any feasible trip.
func (g *Graph) Empty() bool { return len(g.Edges) == 0 }

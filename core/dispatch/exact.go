package dispatch

import (
	"context"
	"sort"

	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rtv"
	"github.com/fleetsim/ridepool/core/solver"
)

// ExactStrategy assembles the assignment integer program and delegates the
// search to a black-box IP oracle. Model assembly and solution extraction are
// pure transformations; nothing here depends on the backend.
type ExactStrategy struct {
	Solver  solver.Solver
	Penalty float64
	// WarmStart seeds the oracle with the greedy selection as initial
	// incumbent.
	WarmStart bool
}

// Name implements Strategy.
func (ExactStrategy) Name() string { return "exact" }

// Solve implements Strategy.
func (s ExactStrategy) Solve(ctx context.Context, g *rtv.Graph, requests []model.Request) (Selection, error) {
	m := BuildModel(g, requests, s.Penalty)
	if s.WarmStart {
		if sel, err := (GreedyStrategy{}).Solve(ctx, g, requests); err == nil {
			m.Initial = warmVector(m, g, requests, sel)
		}
	}
	sol, err := s.Solver.Solve(ctx, m)
	if err != nil {
		return Selection{}, err
	}
	return extractSelection(g, sol), nil
}

// BuildModel translates the RTV graph into a 0/1 program: one variable per
// edge, one unserved variable per request. Each vehicle serves at most one
// trip; each request is covered exactly once or marked unserved. The penalty
// is raised above the most expensive edge so the solver never prefers
// dropping a servable request to lower delay elsewhere.
func BuildModel(g *rtv.Graph, requests []model.Request, penalty float64) solver.Model {
	nEdges := len(g.Edges)
	reqs := sortedRequestIDs(requests)

	maxCost := 0.0
	for _, e := range g.Edges {
		if e.Cost > maxCost {
			maxCost = e.Cost
		}
	}
	if penalty <= maxCost {
		penalty = maxCost + 1
	}

	m := solver.Model{NumVars: nEdges + len(reqs)}
	m.Objective = make([]float64, m.NumVars)
	for i, e := range g.Edges {
		m.Objective[i] = e.Cost
	}
	for i := range reqs {
		m.Objective[nEdges+i] = penalty
	}

	byVehicle := make(map[string][]int)
	for i, e := range g.Edges {
		byVehicle[e.VehicleID] = append(byVehicle[e.VehicleID], i)
	}
	for _, vid := range sortedKeys(byVehicle) {
		row := solver.Constraint{Coeffs: make(map[int]float64), Op: solver.LE, RHS: 1}
		for _, idx := range byVehicle[vid] {
			row.Coeffs[idx] = 1
		}
		m.Constraints = append(m.Constraints, row)
	}
	for ri, rid := range reqs {
		row := solver.Constraint{Coeffs: map[int]float64{nEdges + ri: 1}, Op: solver.EQ, RHS: 1}
		for i, e := range g.Edges {
			if e.Trip.Contains(rid) {
				row.Coeffs[i] = 1
			}
		}
		m.Constraints = append(m.Constraints, row)
	}
	return m
}

// warmVector encodes a greedy selection as a feasible 0/1 vector over the
// model variables.
func warmVector(m solver.Model, g *rtv.Graph, requests []model.Request, sel Selection) []float64 {
	nEdges := len(g.Edges)
	x := make([]float64, m.NumVars)
	served := make(map[string]bool)
	for _, idx := range sel.EdgeIdx {
		x[idx] = 1
		for _, r := range g.Edges[idx].Trip.Requests {
			served[r.ID] = true
		}
	}
	for i, rid := range sortedRequestIDs(requests) {
		if !served[rid] {
			x[nEdges+i] = 1
		}
	}
	return x
}

func extractSelection(g *rtv.Graph, sol solver.Solution) Selection {
	var sel Selection
	for i := range g.Edges {
		if i < len(sol.Values) && sol.Values[i] > 0.5 {
			sel.EdgeIdx = append(sel.EdgeIdx, i)
		}
	}
	return sel
}

func sortedRequestIDs(requests []model.Request) []string {
	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

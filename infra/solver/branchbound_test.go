package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/fleetsim/ridepool/core/dispatch"
	"github.com/fleetsim/ridepool/core/model"
	"github.com/fleetsim/ridepool/core/rtv"
	coresolver "github.com/fleetsim/ridepool/core/solver"
)

func TestSolvePicksCheaperVariable(t *testing.T) {
	m := coresolver.Model{
		NumVars:   2,
		Objective: []float64{1, 2},
		Constraints: []coresolver.Constraint{
			{Coeffs: map[int]float64{0: 1, 1: 1}, Op: coresolver.EQ, RHS: 1},
		},
	}
	sol, err := New(0).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Objective != 1 {
		t.Fatalf("expected objective 1, got %v", sol.Objective)
	}
	if sol.Values[0] != 1 || sol.Values[1] != 0 {
		t.Fatalf("expected [1 0], got %v", sol.Values)
	}
}

// The LP relaxation here is fractional (x = [1, 0.5]), so the result can only
// come from branching.
func TestSolveBranchesOnFractionalRelaxation(t *testing.T) {
	m := coresolver.Model{
		NumVars:   2,
		Objective: []float64{-1.5, -1},
		Constraints: []coresolver.Constraint{
			{Coeffs: map[int]float64{0: 2, 1: 2}, Op: coresolver.LE, RHS: 3},
		},
	}
	sol, err := New(0).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Objective != -1.5 {
		t.Fatalf("expected objective -1.5, got %v", sol.Objective)
	}
	if sol.Values[0] != 1 || sol.Values[1] != 0 {
		t.Fatalf("expected [1 0], got %v", sol.Values)
	}
}

func TestSolveInfeasible(t *testing.T) {
	// x0 = 0.5 has no 0/1 solution.
	m := coresolver.Model{
		NumVars:   1,
		Objective: []float64{1},
		Constraints: []coresolver.Constraint{
			{Coeffs: map[int]float64{0: 1}, Op: coresolver.EQ, RHS: 0.5},
		},
	}
	if _, err := New(0).Solve(context.Background(), m); !errors.Is(err, coresolver.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestSolveNodeBudget(t *testing.T) {
	m := coresolver.Model{
		NumVars:   2,
		Objective: []float64{-1.5, -1},
		Constraints: []coresolver.Constraint{
			{Coeffs: map[int]float64{0: 2, 1: 2}, Op: coresolver.LE, RHS: 3},
		},
	}
	if _, err := New(1).Solve(context.Background(), m); !errors.Is(err, coresolver.ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestSolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := coresolver.Model{NumVars: 1, Objective: []float64{1}}
	if _, err := New(0).Solve(ctx, m); !errors.Is(err, coresolver.ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded on canceled context, got %v", err)
	}
}

func TestSolveRelaxationFailure(t *testing.T) {
	orig := lpSolve
	lpSolve = func(coresolver.Model, []float64, []float64) ([]float64, float64, error) {
		return nil, 0, fmt.Errorf("singular basis")
	}
	defer func() { lpSolve = orig }()

	m := coresolver.Model{NumVars: 1, Objective: []float64{1}}
	if _, err := New(0).Solve(context.Background(), m); !errors.Is(err, coresolver.ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible when every relaxation fails, got %v", err)
	}
}

func TestSolveWarmStartKeptWhenOptimal(t *testing.T) {
	m := coresolver.Model{
		NumVars:   2,
		Objective: []float64{1, 2},
		Constraints: []coresolver.Constraint{
			{Coeffs: map[int]float64{0: 1, 1: 1}, Op: coresolver.EQ, RHS: 1},
		},
		Initial: []float64{1, 0},
	}
	sol, err := New(0).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Objective != 1 || sol.Values[0] != 1 {
		t.Fatalf("expected warm-started optimum, got %+v", sol)
	}
}

func TestSolveEmptyModel(t *testing.T) {
	sol, err := New(0).Solve(context.Background(), coresolver.Model{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Values) != 0 || sol.Objective != 0 {
		t.Fatalf("expected empty solution, got %+v", sol)
	}
}

// End to end over the assignment formulation: pooling both requests on the
// single vehicle beats serving one and paying the unserved penalty.
func TestSolveAssignmentModel(t *testing.T) {
	r1 := model.Request{ID: "r1", Origin: 1, Destination: 2}
	r2 := model.Request{ID: "r2", Origin: 1, Destination: 3, RequestTime: 10}
	g := rtv.NewGraph([]rtv.Edge{
		{VehicleID: "v1", Trip: model.NewTrip(r1), Cost: 0},
		{VehicleID: "v1", Trip: model.NewTrip(r2), Cost: 0},
		{VehicleID: "v1", Trip: model.NewTrip(r1, r2), Cost: 60},
	})
	m := dispatch.BuildModel(g, []model.Request{r1, r2}, 1000)

	sol, err := New(0).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Objective != 60 {
		t.Fatalf("expected objective 60, got %v", sol.Objective)
	}
	if sol.Values[2] != 1 {
		t.Fatalf("expected the pooled edge selected, got %v", sol.Values)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if math.Round(sol.Values[i]) != 0 {
			t.Fatalf("variable %d should be 0, got %v", i, sol.Values[i])
		}
	}
}

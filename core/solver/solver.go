// Package solver defines the black-box integer-programming oracle contract.
// The assignment layer assembles a Model and extracts a Solution; which
// backend performs the search is interchangeable.
package solver

import (
	"context"
	"errors"
)

// Op is a linear constraint operator.
type Op int

const (
	// LE constrains the row to be <= RHS.
	LE Op = iota
	// EQ constrains the row to be == RHS.
	EQ
)

// Constraint is one linear row over the model variables. Coeffs maps variable
// index to coefficient; absent variables have coefficient zero.
type Constraint struct {
	Coeffs map[int]float64
	Op     Op
	RHS    float64
}

// Model is a 0/1 integer program: minimize Objective subject to Constraints,
// every variable binary.
type Model struct {
	NumVars     int
	Objective   []float64
	Constraints []Constraint
	// Initial optionally carries a known feasible 0/1 assignment used as a
	// warm start. Backends may ignore it.
	Initial []float64
}

// Solution is an optimal variable assignment.
type Solution struct {
	Values    []float64
	Objective float64
}

// ErrInfeasible is returned when the model has no feasible integer solution.
var ErrInfeasible = errors.New("ip: model infeasible")

// ErrBudgetExceeded is returned when the search exhausted its node budget or
// the context deadline before proving optimality.
var ErrBudgetExceeded = errors.New("ip: search budget exceeded")

// Solver is the integer-programming oracle. Implementations must honour
// context cancellation, returning ErrBudgetExceeded.
type Solver interface {
	Solve(ctx context.Context, m Model) (Solution, error)
}

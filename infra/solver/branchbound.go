// Package solver provides the bundled integer-programming backend: a
// branch-and-bound search over LP relaxations solved with gonum's simplex.
package solver

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	coresolver "github.com/fleetsim/ridepool/core/solver"
)

const (
	simplexTol = 1e-7
	intTol     = 1e-6
	boundTol   = 1e-9
)

// BranchBound implements coresolver.Solver by relaxing integrality, solving
// the relaxation with lp.Simplex and branching on fractional variables.
type BranchBound struct {
	// MaxNodes bounds the number of explored nodes. 0 means no limit.
	MaxNodes int
}

// New returns a BranchBound solver with the given node budget.
func New(maxNodes int) *BranchBound {
	return &BranchBound{MaxNodes: maxNodes}
}

// lpSolve points at the relaxation solver so tests can simulate failures.
var lpSolve = solveRelaxation

// solveRelaxation solves the LP relaxation of the model with the given
// variable bounds using the simplex method.
func solveRelaxation(m coresolver.Model, lb, ub []float64) ([]float64, float64, error) {
	n := m.NumVars
	var ineq, eq []coresolver.Constraint
	for _, c := range m.Constraints {
		if c.Op == coresolver.LE {
			ineq = append(ineq, c)
		} else {
			eq = append(eq, c)
		}
	}

	// G x <= h: model inequalities plus the box bounds on every variable.
	rows := len(ineq) + 2*n
	g := mat.NewDense(rows, n, nil)
	h := make([]float64, rows)
	for i, c := range ineq {
		for idx, coef := range c.Coeffs {
			g.Set(i, idx, coef)
		}
		h[i] = c.RHS
	}
	for i := 0; i < n; i++ {
		g.Set(len(ineq)+i, i, 1)
		h[len(ineq)+i] = ub[i]
		g.Set(len(ineq)+n+i, i, -1)
		h[len(ineq)+n+i] = -lb[i]
	}

	var a mat.Matrix
	var b []float64
	if len(eq) > 0 {
		ad := mat.NewDense(len(eq), n, nil)
		for i, c := range eq {
			for idx, coef := range c.Coeffs {
				ad.Set(i, idx, coef)
			}
			b = append(b, c.RHS)
		}
		a = ad
	}

	cStd, aStd, bStd := lp.Convert(m.Objective, g, h, a, b)
	opt, sol, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		return nil, 0, err
	}
	// Convert splits each variable into positive and negative parts.
	x := make([]float64, n)
	for i := range x {
		x[i] = sol[i] - sol[n+i]
	}
	return x, opt, nil
}

// Solve runs the branch-and-bound search. It honours ctx cancellation and the
// node budget, returning coresolver.ErrBudgetExceeded when either trips
// before optimality is proven.
func (s *BranchBound) Solve(ctx context.Context, m coresolver.Model) (coresolver.Solution, error) {
	if m.NumVars == 0 {
		return coresolver.Solution{}, nil
	}

	best := coresolver.Solution{Objective: math.Inf(1)}
	haveBest := false
	if len(m.Initial) == m.NumVars && integral(m.Initial) && satisfies(m, m.Initial) {
		best = coresolver.Solution{Values: rounded(m.Initial), Objective: objective(m, m.Initial)}
		haveBest = true
	}

	lb := make([]float64, m.NumVars)
	ub := make([]float64, m.NumVars)
	for i := range ub {
		ub[i] = 1
	}

	nodes := 0
	var visit func(lb, ub []float64) error
	visit = func(lb, ub []float64) error {
		select {
		case <-ctx.Done():
			return coresolver.ErrBudgetExceeded
		default:
		}
		nodes++
		if s.MaxNodes > 0 && nodes > s.MaxNodes {
			return coresolver.ErrBudgetExceeded
		}

		x, opt, err := lpSolve(m, lb, ub)
		if err != nil {
			// Infeasible or degenerate subproblem: prune.
			return nil
		}
		if haveBest && opt >= best.Objective-boundTol {
			return nil
		}
		frac := fractionalVar(x)
		if frac < 0 {
			obj := objective(m, x)
			if !haveBest || obj < best.Objective {
				best = coresolver.Solution{Values: rounded(x), Objective: obj}
				haveBest = true
			}
			return nil
		}

		for _, fix := range []float64{1, 0} {
			clb := append([]float64(nil), lb...)
			cub := append([]float64(nil), ub...)
			clb[frac] = fix
			cub[frac] = fix
			if err := visit(clb, cub); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(lb, ub); err != nil {
		return coresolver.Solution{}, err
	}
	if !haveBest {
		return coresolver.Solution{}, coresolver.ErrInfeasible
	}
	return best, nil
}

// fractionalVar returns the index of the most fractional variable, or -1 when
// the vector is integral. Ties resolve to the lowest index.
func fractionalVar(x []float64) int {
	best, bestDist := -1, intTol
	for i, v := range x {
		dist := math.Abs(v - math.Round(v))
		if dist > bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func integral(x []float64) bool { return fractionalVar(x) < 0 }

func rounded(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Round(v)
	}
	return out
}

func objective(m coresolver.Model, x []float64) float64 {
	var sum float64
	for i, c := range m.Objective {
		sum += c * math.Round(x[i])
	}
	return sum
}

func satisfies(m coresolver.Model, x []float64) bool {
	for _, c := range m.Constraints {
		var lhs float64
		for idx, coef := range c.Coeffs {
			lhs += coef * x[idx]
		}
		switch c.Op {
		case coresolver.LE:
			if lhs > c.RHS+boundTol {
				return false
			}
		case coresolver.EQ:
			if math.Abs(lhs-c.RHS) > boundTol {
				return false
			}
		}
	}
	return true
}

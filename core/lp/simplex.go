package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

// simplex points to the solver entry point. It can be overridden in tests to
// simulate solver failures.
var simplex = gonumlp.Simplex

// Solve assembles the standard form min c'x, Ax = b, x >= 0 directly and runs
// the simplex algorithm on it. Non-negative variables map to a single column,
// free variables to a (plus, minus) pair, and each inequality row gets its own
// slack column. Building the standard form here instead of going through
// lp.Convert keeps the system free of redundant sign rows, which matters for
// the basis factorisation on larger staged problems. Solve returns
// ErrInfeasible or ErrUnbounded for the corresponding solver outcomes and
// wraps any other solver error.
func (p *Problem) Solve(tol float64) (*Solution, error) {
	n := len(p.names)
	if n == 0 {
		return nil, errors.New("lp: no variables registered")
	}

	// costs[i] is the minimisation cost of variable i.
	costs := make([]float64, n)
	for _, t := range p.obj {
		i, ok := p.index[t.Var]
		if !ok {
			return nil, fmt.Errorf("lp: unknown objective variable %q", t.Var)
		}
		if p.sense == Maximize {
			costs[i] -= t.Coeff
		} else {
			costs[i] += t.Coeff
		}
	}

	// Column layout: structural columns first, slack columns after.
	col := make([]int, n)
	nCols := 0
	for i, nn := range p.nonNeg {
		col[i] = nCols
		if nn {
			nCols++
		} else {
			nCols += 2
		}
	}
	nStruct := nCols
	for _, con := range p.cons {
		if con.Op != Equal {
			nCols++
		}
	}

	if len(p.cons) == 0 {
		// Without constraint rows every variable optimises independently:
		// it either sits at zero or escapes to infinity.
		values := make(map[string]float64, n)
		for i, name := range p.names {
			if costs[i] < 0 || (costs[i] != 0 && !p.nonNeg[i]) {
				return nil, ErrUnbounded
			}
			values[name] = 0
		}
		return &Solution{values: values}, nil
	}

	c := make([]float64, nCols)
	for i, cost := range costs {
		c[col[i]] = cost
		if !p.nonNeg[i] {
			c[col[i]+1] = -cost
		}
	}

	a := mat.NewDense(len(p.cons), nCols, nil)
	b := make([]float64, len(p.cons))
	slack := nStruct
	for r, con := range p.cons {
		coeffs, err := p.row(con.Terms)
		if err != nil {
			return nil, err
		}
		for i, v := range coeffs {
			if v == 0 {
				continue
			}
			a.Set(r, col[i], v)
			if !p.nonNeg[i] {
				a.Set(r, col[i]+1, -v)
			}
		}
		b[r] = con.RHS
		switch con.Op {
		case LessEq:
			a.Set(r, slack, 1)
			slack++
		case GreaterEq:
			a.Set(r, slack, -1)
			slack++
		case Equal:
		default:
			return nil, fmt.Errorf("lp: unknown constraint op %d", con.Op)
		}
	}

	opt, sol, err := simplex(c, a, b, tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, gonumlp.ErrInfeasible):
			return nil, ErrInfeasible
		case errors.Is(err, gonumlp.ErrUnbounded):
			return nil, ErrUnbounded
		default:
			return nil, fmt.Errorf("lp: simplex failed: %w", err)
		}
	}

	values := make(map[string]float64, n)
	for i, name := range p.names {
		v := sol[col[i]]
		if !p.nonNeg[i] {
			v -= sol[col[i]+1]
		}
		values[name] = v
	}
	if p.sense == Maximize {
		opt = -opt
	}
	return &Solution{Objective: opt, values: values}, nil
}

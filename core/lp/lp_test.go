package lp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-7

func TestSolveMaximize(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	p.AddNonNegVar("y")
	p.SetObjective(Maximize, Term{Var: "x", Coeff: 3}, Term{Var: "y", Coeff: 2})
	p.AddConstraint(LessEq, 4, Term{Var: "x", Coeff: 1})
	p.AddConstraint(LessEq, 5, Term{Var: "y", Coeff: 1})
	p.AddConstraint(LessEq, 6, Term{Var: "x", Coeff: 1}, Term{Var: "y", Coeff: 1})

	sol, err := p.Solve(tol)
	require.NoError(t, err)
	assert.InDelta(t, 16, sol.Objective, 1e-6)
	assert.InDelta(t, 4, sol.Value("x"), 1e-6)
	assert.InDelta(t, 2, sol.Value("y"), 1e-6)
}

func TestSolveMinimizeGreaterEq(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	p.AddNonNegVar("y")
	p.SetObjective(Minimize, Term{Var: "x", Coeff: 1}, Term{Var: "y", Coeff: 2})
	p.AddConstraint(GreaterEq, 2, Term{Var: "x", Coeff: 1}, Term{Var: "y", Coeff: 1})

	sol, err := p.Solve(tol)
	require.NoError(t, err)
	assert.InDelta(t, 2, sol.Objective, 1e-6)
	assert.InDelta(t, 2, sol.Value("x"), 1e-6)
}

func TestSolveFreeVariable(t *testing.T) {
	// v = out - in with both flows capped at 1, minimising v drives it to -1.
	p := NewProblem()
	p.AddVar("v")
	p.AddNonNegVar("in")
	p.AddNonNegVar("out")
	p.SetObjective(Minimize, Term{Var: "v", Coeff: 1})
	p.AddConstraint(LessEq, 1, Term{Var: "in", Coeff: 1})
	p.AddConstraint(LessEq, 1, Term{Var: "out", Coeff: 1})
	p.AddConstraint(Equal, 0,
		Term{Var: "v", Coeff: 1},
		Term{Var: "out", Coeff: -1},
		Term{Var: "in", Coeff: 1})

	sol, err := p.Solve(tol)
	require.NoError(t, err)
	assert.InDelta(t, -1, sol.Objective, 1e-6)
	assert.InDelta(t, -1, sol.Value("v"), 1e-6)
	assert.InDelta(t, 1, sol.Value("in"), 1e-6)
}

// TestSolveStorageChain chains free net volumes, split flows and a running
// level through equalities, with per-period bounds and a binding aggregate cap
// on the outflows. The structure matches the staged scheduling problems this
// package exists for, where redundant rows used to leave the solver unable to
// factor a starting basis.
func TestSolveStorageChain(t *testing.T) {
	const n = 4
	prices := []float64{10, 90, 10, 90}

	p := NewProblem()
	obj := make([]Term, n)
	sumOut := make([]Term, n)
	name := func(prefix string, t int) string { return fmt.Sprintf("%s%d", prefix, t) }
	for i := 0; i < n; i++ {
		p.AddVar(name("v", i))
		p.AddNonNegVar(name("in", i))
		p.AddNonNegVar(name("out", i))
		p.AddNonNegVar(name("s", i))
		obj[i] = Term{Var: name("v", i), Coeff: prices[i]}
		sumOut[i] = Term{Var: name("out", i), Coeff: 1}

		p.AddConstraint(LessEq, 1, Term{Var: name("in", i), Coeff: 1})
		p.AddConstraint(LessEq, 1, Term{Var: name("out", i), Coeff: 1})
		p.AddConstraint(LessEq, 1, Term{Var: name("s", i), Coeff: 1})
		p.AddConstraint(Equal, 0,
			Term{Var: name("v", i), Coeff: 1},
			Term{Var: name("out", i), Coeff: -1},
			Term{Var: name("in", i), Coeff: 1})
		if i == 0 {
			p.AddConstraint(Equal, 0, Term{Var: name("s", 0), Coeff: 1})
		} else {
			p.AddConstraint(Equal, 0,
				Term{Var: name("s", i), Coeff: 1},
				Term{Var: name("s", i-1), Coeff: -1},
				Term{Var: name("out", i-1), Coeff: 1},
				Term{Var: name("in", i-1), Coeff: -1})
		}
	}
	p.SetObjective(Maximize, obj...)
	p.AddConstraint(Equal, 0,
		Term{Var: name("s", n-1), Coeff: 1},
		Term{Var: name("out", n-1), Coeff: -1},
		Term{Var: name("in", n-1), Coeff: 1})
	p.AddConstraint(LessEq, 1, sumOut...)

	// One unit bought at 10 and sold at 90, the aggregate cap rules out a
	// second full round trip. The split between the two cheap/expensive pairs
	// is degenerate, so only the totals are pinned down.
	sol, err := p.Solve(tol)
	require.NoError(t, err)
	assert.InDelta(t, 80, sol.Objective, 1e-6)
	totalOut := sol.Value("out0") + sol.Value("out1") + sol.Value("out2") + sol.Value("out3")
	assert.InDelta(t, 1, totalOut, 1e-6)
	assert.LessOrEqual(t, sol.Value("v0"), 1e-6)
	assert.LessOrEqual(t, sol.Value("v2"), 1e-6)
	assert.GreaterOrEqual(t, sol.Value("v1"), -1e-6)
	assert.GreaterOrEqual(t, sol.Value("v3"), -1e-6)
}

func TestSolveInfeasible(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	p.SetObjective(Maximize, Term{Var: "x", Coeff: 1})
	p.AddConstraint(LessEq, 1, Term{Var: "x", Coeff: 1})
	p.AddConstraint(GreaterEq, 2, Term{Var: "x", Coeff: 1})

	_, err := p.Solve(tol)
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestSolveUnbounded(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	p.SetObjective(Maximize, Term{Var: "x", Coeff: 1})

	_, err := p.Solve(tol)
	assert.ErrorIs(t, err, ErrUnbounded)
}

func TestSolveUnknownVariable(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	p.SetObjective(Maximize, Term{Var: "x", Coeff: 1})
	p.AddConstraint(LessEq, 1, Term{Var: "nope", Coeff: 1})

	_, err := p.Solve(tol)
	assert.Error(t, err)

	q := NewProblem()
	q.AddNonNegVar("x")
	q.SetObjective(Maximize, Term{Var: "nope", Coeff: 1})
	_, err = q.Solve(tol)
	assert.Error(t, err)
}

func TestSolveNoVariables(t *testing.T) {
	_, err := NewProblem().Solve(tol)
	assert.Error(t, err)
}

func TestDuplicateVariablePanics(t *testing.T) {
	p := NewProblem()
	p.AddNonNegVar("x")
	assert.Panics(t, func() { p.AddVar("x") })
}

func TestProblemCounters(t *testing.T) {
	p := NewProblem()
	p.AddVar("a")
	p.AddNonNegVar("b")
	p.AddConstraint(Equal, 1, Term{Var: "a", Coeff: 1}, Term{Var: "b", Coeff: 1})
	assert.Equal(t, 2, p.NumVars())
	assert.Equal(t, 1, p.NumConstraints())
}

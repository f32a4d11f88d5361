// Package lp builds linear programs declaratively and solves them with the
// gonum simplex implementation. Callers register named continuous variables,
// accumulate typed linear constraints and set an objective, then call Solve
// exactly once. The package maps solver failures to named outcomes so the
// optimiser stages can distinguish infeasibility from numeric trouble.
package lp

import (
	"errors"
	"fmt"
)

// Sense selects the optimisation direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

// Op relates a linear combination to its right-hand side.
type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

// Term is a coefficient applied to a named variable.
type Term struct {
	Var   string
	Coeff float64
}

// Constraint compares a linear combination of variables against a constant.
type Constraint struct {
	Terms []Term
	Op    Op
	RHS   float64
}

// Problem accumulates variables, constraints and an objective before a single
// call to the solver.
type Problem struct {
	names  []string
	index  map[string]int
	nonNeg []bool
	obj    []Term
	sense  Sense
	cons   []Constraint
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{index: make(map[string]int)}
}

// AddVar registers a free continuous variable. Registering the same name twice
// is a programming error.
func (p *Problem) AddVar(name string) {
	p.addVar(name, false)
}

// AddNonNegVar registers a continuous variable constrained to be >= 0.
func (p *Problem) AddNonNegVar(name string) {
	p.addVar(name, true)
}

func (p *Problem) addVar(name string, nonNeg bool) {
	if _, ok := p.index[name]; ok {
		panic(fmt.Sprintf("lp: variable %q registered twice", name))
	}
	p.index[name] = len(p.names)
	p.names = append(p.names, name)
	p.nonNeg = append(p.nonNeg, nonNeg)
}

// NumVars returns the number of registered variables.
func (p *Problem) NumVars() int { return len(p.names) }

// NumConstraints returns the number of accumulated constraints.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// SetObjective sets the linear objective and its direction.
func (p *Problem) SetObjective(sense Sense, terms ...Term) {
	p.sense = sense
	p.obj = terms
}

// AddConstraint appends a linear constraint relating the given terms to rhs.
func (p *Problem) AddConstraint(op Op, rhs float64, terms ...Term) {
	p.cons = append(p.cons, Constraint{Terms: terms, Op: op, RHS: rhs})
}

// row densifies terms into a coefficient vector, summing duplicates.
func (p *Problem) row(terms []Term) ([]float64, error) {
	coeffs := make([]float64, len(p.names))
	for _, t := range terms {
		i, ok := p.index[t.Var]
		if !ok {
			return nil, fmt.Errorf("lp: unknown variable %q", t.Var)
		}
		coeffs[i] += t.Coeff
	}
	return coeffs, nil
}

// Solution is the optimal assignment returned by a successful solve.
type Solution struct {
	// Objective is the optimal objective value in the problem's own sense.
	Objective float64
	values    map[string]float64
}

// Value returns the solved value of the named variable. Unknown names return 0.
func (s *Solution) Value(name string) float64 {
	return s.values[name]
}

// ErrInfeasible reports that no assignment satisfies the constraint set.
var ErrInfeasible = errors.New("lp: problem is infeasible")

// ErrUnbounded reports that the objective can be improved without limit.
var ErrUnbounded = errors.New("lp: problem is unbounded")

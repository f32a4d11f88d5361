package optimiser

import (
	"errors"
	"fmt"

	"github.com/gridarb/gridarb/core/lp"
	"github.com/gridarb/gridarb/core/model"
)

// SolveIntraDay builds and solves the intra-day LP: maximise
// sum(netVolume[t]*price[t]) over incremental trades layered on top of the
// committed day-ahead position. The day-ahead flows enter the LP only as
// constants, never as variables; power, SoC, terminal and cycling constraints
// all apply to the combined physical flows.
//
// A solved day-ahead stage is a hard precondition: calling this with a nil
// dayAhead returns ErrSequencing.
func SolveIntraDay(params model.BatteryParams, dayAhead *StageSolution, prices []float64) (*StageSolution, error) {
	if dayAhead == nil {
		return nil, ErrSequencing
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := len(prices)
	if n == 0 {
		return nil, fmt.Errorf("optimiser: empty intra-day price curve")
	}
	if dayAhead.Periods() != n {
		return nil, fmt.Errorf("optimiser: day-ahead solution covers %d periods, intra-day prices %d",
			dayAhead.Periods(), n)
	}

	p := lp.NewProblem()
	obj := make([]lp.Term, n)
	for t := 0; t < n; t++ {
		p.AddVar(varName("vol", t))
		p.AddNonNegVar(varName("in", t))
		p.AddNonNegVar(varName("out", t))
		p.AddNonNegVar(varName("soc", t))
		obj[t] = lp.Term{Var: varName("vol", t), Coeff: prices[t]}
	}
	p.SetObjective(lp.Maximize, obj...)

	cycling := make([]lp.Term, n)
	usedOut := 0.0
	for t := 0; t < n; t++ {
		// The battery cannot exceed its rated power regardless of which
		// market caused the flow. A committed flow can bind the limit to
		// within solver tolerance, so the remaining headroom is clamped at
		// zero rather than passed through slightly negative.
		p.AddConstraint(lp.LessEq, clampNonNeg(params.Power-dayAhead.FlowIn[t]), lp.Term{Var: varName("in", t), Coeff: 1})
		p.AddConstraint(lp.LessEq, clampNonNeg(params.Power-dayAhead.FlowOut[t]), lp.Term{Var: varName("out", t), Coeff: 1})
		p.AddConstraint(lp.LessEq, params.Capacity, lp.Term{Var: varName("soc", t), Coeff: 1})

		p.AddConstraint(lp.Equal, 0,
			lp.Term{Var: varName("vol", t), Coeff: 1},
			lp.Term{Var: varName("out", t), Coeff: -1},
			lp.Term{Var: varName("in", t), Coeff: 1})

		if t == 0 {
			p.AddConstraint(lp.Equal, params.InitialSoC, lp.Term{Var: varName("soc", 0), Coeff: 1})
		} else {
			// Combined recursion with the day-ahead flows moved to the
			// right-hand side:
			//   soc[t] - soc[t-1] + out[t-1]*dischEff - in[t-1]*chEff
			//     = in_DA[t-1]*chEff - out_DA[t-1]*dischEff
			rhs := dayAhead.FlowIn[t-1]*params.ChargingEfficiency -
				dayAhead.FlowOut[t-1]*params.DischargingEfficiency
			p.AddConstraint(lp.Equal, rhs,
				lp.Term{Var: varName("soc", t), Coeff: 1},
				lp.Term{Var: varName("soc", t - 1), Coeff: -1},
				lp.Term{Var: varName("out", t - 1), Coeff: params.DischargingEfficiency},
				lp.Term{Var: varName("in", t - 1), Coeff: -params.ChargingEfficiency})
		}
		cycling[t] = lp.Term{Var: varName("out", t), Coeff: 1}
		usedOut += dayAhead.FlowOut[t]
	}
	// Combined end-of-day SoC returns to the initial level, with the final
	// period's day-ahead flows again entering as constants.
	terminalRHS := params.InitialSoC +
		dayAhead.FlowOut[n-1]*params.DischargingEfficiency -
		dayAhead.FlowIn[n-1]*params.ChargingEfficiency
	p.AddConstraint(lp.Equal, terminalRHS,
		lp.Term{Var: varName("soc", n - 1), Coeff: 1},
		lp.Term{Var: varName("out", n - 1), Coeff: -params.DischargingEfficiency},
		lp.Term{Var: varName("in", n - 1), Coeff: params.ChargingEfficiency})
	p.AddConstraint(lp.LessEq, clampNonNeg(params.DailyCycles*params.Capacity-usedOut), cycling...)

	sol, err := p.Solve(solverTol)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("intra-day stage: %w", ErrInfeasible)
		}
		return nil, fmt.Errorf("intra-day stage: %w", err)
	}
	s := readStage(sol, n, true)
	s.EndSoC = s.SoC[n-1] -
		(s.FlowOut[n-1]+dayAhead.FlowOut[n-1])*params.DischargingEfficiency +
		(s.FlowIn[n-1]+dayAhead.FlowIn[n-1])*params.ChargingEfficiency
	return s, nil
}

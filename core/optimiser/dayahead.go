package optimiser

import (
	"errors"
	"fmt"

	"github.com/gridarb/gridarb/core/lp"
	"github.com/gridarb/gridarb/core/model"
)

// solverTol is the pivot tolerance handed to the simplex solver.
const solverTol = 1e-7

// SolveDayAhead builds and solves the day-ahead LP: maximise
// sum(netVolume[t]*price[t]) subject to flow and SoC bounds, the SoC
// recursion anchored at soc[0]=initialSoC, the terminal SoC returning to
// initialSoC, and the daily cycling limit. Inputs are validated before any LP
// is constructed.
func SolveDayAhead(params model.BatteryParams, prices []float64, opts Options) (*StageSolution, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := len(prices)
	if n == 0 {
		return nil, fmt.Errorf("optimiser: empty day-ahead price curve")
	}
	if opts.HourlyPairing && n%2 != 0 {
		return nil, fmt.Errorf("optimiser: hourly pairing requires an even period count, got %d", n)
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
	for t := 0; t < n; t++ {
		p.AddConstraint(lp.LessEq, params.Power, lp.Term{Var: varName("in", t), Coeff: 1})
		p.AddConstraint(lp.LessEq, params.Power, lp.Term{Var: varName("out", t), Coeff: 1})
		p.AddConstraint(lp.LessEq, params.Capacity, lp.Term{Var: varName("soc", t), Coeff: 1})

		// netVolume = flowOut - flowIn
		p.AddConstraint(lp.Equal, 0,
			lp.Term{Var: varName("vol", t), Coeff: 1},
			lp.Term{Var: varName("out", t), Coeff: -1},
			lp.Term{Var: varName("in", t), Coeff: 1})

		if t == 0 {
			p.AddConstraint(lp.Equal, params.InitialSoC, lp.Term{Var: varName("soc", 0), Coeff: 1})
		} else {
			// soc[t] = soc[t-1] - out[t-1]*dischEff + in[t-1]*chEff
			p.AddConstraint(lp.Equal, 0,
				lp.Term{Var: varName("soc", t), Coeff: 1},
				lp.Term{Var: varName("soc", t - 1), Coeff: -1},
				lp.Term{Var: varName("out", t - 1), Coeff: params.DischargingEfficiency},
				lp.Term{Var: varName("in", t - 1), Coeff: -params.ChargingEfficiency})
		}
		cycling[t] = lp.Term{Var: varName("out", t), Coeff: 1}
	}
	// Battery returns to its starting energy level by end of day. The SoC
	// variables hold the state at the start of each period, so the terminal
	// condition applies the last period's flows on top of soc[n-1]; anchoring
	// soc[n-1] alone would leave the final period free to discharge energy
	// that was never stored.
	p.AddConstraint(lp.Equal, params.InitialSoC,
		lp.Term{Var: varName("soc", n - 1), Coeff: 1},
		lp.Term{Var: varName("out", n - 1), Coeff: -params.DischargingEfficiency},
		lp.Term{Var: varName("in", n - 1), Coeff: params.ChargingEfficiency})
	p.AddConstraint(lp.LessEq, params.DailyCycles*params.Capacity, cycling...)

	if opts.HourlyPairing {
		// The day-ahead market clears one volume per hour, both half-hourly
		// sub-periods must trade identically.
		for h := 0; 2*h+1 < n; h++ {
			p.AddConstraint(lp.Equal, 0,
				lp.Term{Var: varName("vol", 2 * h), Coeff: 1},
				lp.Term{Var: varName("vol", 2*h + 1), Coeff: -1})
		}
	}
	if opts.ZeroFinalTrade {
		p.AddConstraint(lp.Equal, 0, lp.Term{Var: varName("vol", n - 1), Coeff: 1})
	}

	sol, err := p.Solve(solverTol)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("day-ahead stage: %w", ErrInfeasible)
		}
		return nil, fmt.Errorf("day-ahead stage: %w", err)
	}
	s := readStage(sol, n, false)
	s.EndSoC = s.SoC[n-1] -
		s.FlowOut[n-1]*params.DischargingEfficiency +
		s.FlowIn[n-1]*params.ChargingEfficiency
	return s, nil
}

// readStage extracts the per-period arrays from a solver assignment. Tiny
// negative flows from the solver are clamped to zero and the net volume is
// recomputed so the energy balance identity holds exactly.
func readStage(sol *lp.Solution, n int, combined bool) *StageSolution {
	s := &StageSolution{
		FlowIn:    make([]float64, n),
		FlowOut:   make([]float64, n),
		NetVolume: make([]float64, n),
		SoC:       make([]float64, n),
		Objective: sol.Objective,
	}
	for t := 0; t < n; t++ {
		s.FlowIn[t] = clampNonNeg(sol.Value(varName("in", t)))
		s.FlowOut[t] = clampNonNeg(sol.Value(varName("out", t)))
		s.NetVolume[t] = s.FlowOut[t] - s.FlowIn[t]
		s.SoC[t] = clampNonNeg(sol.Value(varName("soc", t)))
	}
	if combined {
		s.CombinedSoC = s.SoC
	}
	return s
}

func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Package optimiser computes an optimal charge/discharge schedule for a
// grid-connected battery trading sequentially in a day-ahead and an intra-day
// market. Each stage is a pure function building one linear program: the
// day-ahead stage commits a flow schedule, the intra-day stage layers
// incremental trades on top of it with the committed flows frozen as
// constants. Both stages share the battery parameters and thread the
// state-of-charge recursion consistently.
package optimiser

import "fmt"

// Options control the optional day-ahead market rules. The defaults match the
// plain per-period formulation: no pairing, no forced zero final trade.
type Options struct {
	// HourlyPairing forces equal traded volumes across each pair of
	// consecutive settlement periods (2h, 2h+1), for markets clearing one
	// volume per hour on a half-hourly settlement grid. Requires an even
	// period count.
	HourlyPairing bool
	// ZeroFinalTrade forces the traded volume of the last settlement period
	// to zero, ruling out a free discharge at the end of the day.
	ZeroFinalTrade bool
}

// StageSolution is the immutable outcome of one successful stage solve. All
// slices are indexed by settlement period. FlowIn and FlowOut are the charging
// and discharging energies in MWh, both non-negative; NetVolume is
// FlowOut-FlowIn (positive = net export). SoC is the state of charge at the
// start of each period.
//
// For the intra-day stage the flows are incremental trades on top of the
// day-ahead position, SoC equals CombinedSoC, and CombinedSoC is the
// trajectory under day-ahead plus intra-day flows together. CombinedSoC is nil
// on day-ahead solutions.
type StageSolution struct {
	FlowIn      []float64
	FlowOut     []float64
	NetVolume   []float64
	SoC         []float64
	CombinedSoC []float64
	// EndSoC is the state of charge after the last period's flows. The
	// terminal constraint pins it to the initial SoC; for the intra-day
	// stage it accounts for the day-ahead flows as well.
	EndSoC    float64
	Objective float64
}

// Periods returns the number of settlement periods covered by the solution.
func (s *StageSolution) Periods() int { return len(s.NetVolume) }

func varName(prefix string, t int) string { return fmt.Sprintf("%s[%d]", prefix, t) }

package optimiser

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gridarb/gridarb/core/model"
)

// LedgerRow is one settlement period of the merged two-stage outcome.
type LedgerRow struct {
	Period           int     `json:"period"`
	DayAheadVolume   float64 `json:"day_ahead_volume"`
	IntraDayVolume   float64 `json:"intra_day_volume"`
	DayAheadPrice    float64 `json:"day_ahead_price"`
	IntraDayPrice    float64 `json:"intra_day_price"`
	DayAheadCashflow float64 `json:"day_ahead_cashflow"`
	IntraDayCashflow float64 `json:"intra_day_cashflow"`
	TotalCashflow    float64 `json:"total_cashflow"`
	DayAheadSoC      float64 `json:"day_ahead_soc"`
	CombinedSoC      float64 `json:"combined_soc"`
}

// Result merges both stages' solutions into a per-period ledger and carries
// the two stage objective values. It is a read-only view; neither input
// solution is mutated.
type Result struct {
	RunID           uuid.UUID   `json:"run_id"`
	Ledger          []LedgerRow `json:"ledger"`
	DayAheadRevenue float64     `json:"day_ahead_revenue"`
	IntraDayRevenue float64     `json:"intra_day_revenue"`
}

// Aggregate computes the per-period cashflows of both markets and sums them
// into a single ledger. It is a pure function of the two stage solutions and
// the price curves.
func Aggregate(dayAhead, intraDay *StageSolution, prices model.DayPrices) (*Result, error) {
	if dayAhead == nil || intraDay == nil {
		return nil, fmt.Errorf("optimiser: aggregate requires both stage solutions")
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	n := prices.Periods()
	if dayAhead.Periods() != n || intraDay.Periods() != n {
		return nil, fmt.Errorf("optimiser: stage solutions cover %d/%d periods, prices %d",
			dayAhead.Periods(), intraDay.Periods(), n)
	}
	if len(intraDay.CombinedSoC) != n {
		return nil, fmt.Errorf("optimiser: intra-day solution lacks a combined SoC trajectory")
	}

	res := &Result{
		RunID:  uuid.New(),
		Ledger: make([]LedgerRow, n),
	}
	for t := 0; t < n; t++ {
		daCash := dayAhead.NetVolume[t] * prices.DayAhead[t]
		idCash := intraDay.NetVolume[t] * prices.IntraDay[t]
		res.Ledger[t] = LedgerRow{
			Period:           t,
			DayAheadVolume:   dayAhead.NetVolume[t],
			IntraDayVolume:   intraDay.NetVolume[t],
			DayAheadPrice:    prices.DayAhead[t],
			IntraDayPrice:    prices.IntraDay[t],
			DayAheadCashflow: daCash,
			IntraDayCashflow: idCash,
			TotalCashflow:    daCash + idCash,
			DayAheadSoC:      dayAhead.SoC[t],
			CombinedSoC:      intraDay.CombinedSoC[t],
		}
		res.DayAheadRevenue += daCash
		res.IntraDayRevenue += idCash
	}
	return res, nil
}

// Run executes a full optimisation: day-ahead solve, intra-day solve with the
// day-ahead flows frozen, then aggregation. Independent trading days may run
// concurrently, no state is shared between calls.
func Run(params model.BatteryParams, prices model.DayPrices, opts Options) (*Result, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	da, err := SolveDayAhead(params, prices.DayAhead, opts)
	if err != nil {
		return nil, err
	}
	id, err := SolveIntraDay(params, da, prices.IntraDay)
	if err != nil {
		return nil, err
	}
	return Aggregate(da, id, prices)
}

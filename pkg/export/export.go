// Package export writes optimisation ledgers in machine-readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gridarb/gridarb/core/optimiser"
)

// WriteJSON writes the full result, run ID and revenues included, to w.
func WriteJSON(w io.Writer, res *optimiser.Result) error {
	enc := json.NewEncoder(w)
	return enc.Encode(res)
}

var csvHeader = []string{
	"period",
	"day_ahead_volume", "intra_day_volume",
	"day_ahead_price", "intra_day_price",
	"day_ahead_cashflow", "intra_day_cashflow", "total_cashflow",
	"day_ahead_soc", "combined_soc",
}

// WriteCSV writes the per-period ledger to w with a header row.
func WriteCSV(w io.Writer, res *optimiser.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range res.Ledger {
		rec := []string{
			strconv.Itoa(row.Period),
			ftoa(row.DayAheadVolume), ftoa(row.IntraDayVolume),
			ftoa(row.DayAheadPrice), ftoa(row.IntraDayPrice),
			ftoa(row.DayAheadCashflow), ftoa(row.IntraDayCashflow), ftoa(row.TotalCashflow),
			ftoa(row.DayAheadSoC), ftoa(row.CombinedSoC),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

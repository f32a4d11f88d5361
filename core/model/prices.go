package model

import "fmt"

// DayPrices holds the aligned day-ahead and intra-day price curves for one
// trading day, one value per settlement period, in currency/MWh.
type DayPrices struct {
	DayAhead []float64
	IntraDay []float64
}

// Periods returns the number of settlement periods in the day.
func (d DayPrices) Periods() int { return len(d.DayAhead) }

// Validate checks that both curves are present and aligned.
func (d DayPrices) Validate() error {
	if len(d.DayAhead) == 0 {
		return fmt.Errorf("prices: empty day-ahead curve")
	}
	if len(d.DayAhead) != len(d.IntraDay) {
		return fmt.Errorf("prices: day-ahead has %d periods, intra-day has %d",
			len(d.DayAhead), len(d.IntraDay))
	}
	return nil
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validParams() BatteryParams {
	return BatteryParams{
		Power:                 100,
		Capacity:              100,
		ChargingEfficiency:    0.85,
		DischargingEfficiency: 1.0,
		DailyCycles:           2.0,
		InitialSoC:            25,
	}
}

func TestBatteryParamsValidate(t *testing.T) {
	assert.NoError(t, validParams().Validate())

	cases := []struct {
		name   string
		mutate func(*BatteryParams)
	}{
		{"zero power", func(p *BatteryParams) { p.Power = 0 }},
		{"negative power", func(p *BatteryParams) { p.Power = -1 }},
		{"zero capacity", func(p *BatteryParams) { p.Capacity = 0 }},
		{"zero charging efficiency", func(p *BatteryParams) { p.ChargingEfficiency = 0 }},
		{"charging efficiency above one", func(p *BatteryParams) { p.ChargingEfficiency = 1.1 }},
		{"zero discharging efficiency", func(p *BatteryParams) { p.DischargingEfficiency = 0 }},
		{"negative cycles", func(p *BatteryParams) { p.DailyCycles = -0.5 }},
		{"negative initial SoC", func(p *BatteryParams) { p.InitialSoC = -1 }},
		{"initial SoC above capacity", func(p *BatteryParams) { p.InitialSoC = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestDayPricesValidate(t *testing.T) {
	ok := DayPrices{DayAhead: []float64{1, 2}, IntraDay: []float64{3, 4}}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, 2, ok.Periods())

	assert.Error(t, DayPrices{}.Validate())
	assert.Error(t, DayPrices{DayAhead: []float64{1}, IntraDay: []float64{1, 2}}.Validate())
}

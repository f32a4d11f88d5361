package optimiser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridarb/gridarb/core/model"
)

const testTol = 1e-3

func testParams() model.BatteryParams {
	return model.BatteryParams{
		Power:                 100,
		Capacity:              100,
		ChargingEfficiency:    0.85,
		DischargingEfficiency: 1.0,
		DailyCycles:           2.0,
		InitialSoC:            25,
	}
}

func flatPrices(n int, v float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = v
	}
	return prices
}

// twoTierPrices is low for the first half of the day and high for the second.
func twoTierPrices(n int, low, high float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		if i < n/2 {
			prices[i] = low
		} else {
			prices[i] = high
		}
	}
	return prices
}

func checkSoCBounds(t *testing.T, sol *StageSolution, params model.BatteryParams) {
	t.Helper()
	for i, soc := range sol.SoC {
		assert.GreaterOrEqual(t, soc, -testTol, "soc[%d]", i)
		assert.LessOrEqual(t, soc, params.Capacity+testTol, "soc[%d]", i)
	}
}

func TestSolveDayAheadFlatPricesNoTrade(t *testing.T) {
	params := testParams()
	sol, err := SolveDayAhead(params, flatPrices(48, 50), Options{})
	require.NoError(t, err)

	// A round trip loses energy, so at a flat price any trade loses money.
	assert.InDelta(t, 0, sol.Objective, testTol)
	for i, vol := range sol.NetVolume {
		assert.InDelta(t, 0, vol, 1e-6, "vol[%d]", i)
	}
	checkSoCBounds(t, sol, params)
	assert.InDelta(t, params.InitialSoC, sol.EndSoC, testTol)
	assert.Nil(t, sol.CombinedSoC)
}

func TestSolveDayAheadArbitrage(t *testing.T) {
	params := testParams()
	sol, err := SolveDayAhead(params, twoTierPrices(48, 20, 80), Options{})
	require.NoError(t, err)

	// The battery fills the 75 MWh of headroom at 20 and sells it at 80:
	// 80*75 - 20*75/0.85.
	assert.InDelta(t, 4235.294, sol.Objective, 0.01)

	var inEarly, outEarly, outLate float64
	for i := 0; i < 24; i++ {
		inEarly += sol.FlowIn[i]
		outEarly += sol.FlowOut[i]
	}
	for i := 24; i < 48; i++ {
		outLate += sol.FlowOut[i]
	}
	assert.Greater(t, inEarly, 1.0, "charges in the cheap half")
	assert.InDelta(t, 0, outEarly, testTol, "no discharge in the cheap half")
	assert.InDelta(t, 75, outLate, testTol, "sells the stored headroom")

	checkSoCBounds(t, sol, params)
	assert.InDelta(t, params.InitialSoC, sol.EndSoC, testTol)
}

func TestSolveDayAheadEnergyBalanceExact(t *testing.T) {
	sol, err := SolveDayAhead(testParams(), twoTierPrices(48, 20, 80), Options{})
	require.NoError(t, err)
	for i := range sol.NetVolume {
		assert.Equal(t, sol.FlowOut[i]-sol.FlowIn[i], sol.NetVolume[i], "vol[%d]", i)
	}
}

func TestSolveDayAheadCyclingLimit(t *testing.T) {
	params := testParams()
	params.DailyCycles = 0.5
	prices := make([]float64, 48)
	for i := range prices {
		if i%2 == 0 {
			prices[i] = 10
		} else {
			prices[i] = 90
		}
	}
	sol, err := SolveDayAhead(params, prices, Options{})
	require.NoError(t, err)
	assert.Greater(t, sol.Objective, 0.0)

	var totalOut float64
	for _, out := range sol.FlowOut {
		totalOut += out
	}
	assert.LessOrEqual(t, totalOut, params.DailyCycles*params.Capacity+testTol)
}

func TestSolveDayAheadHourlyPairing(t *testing.T) {
	params := testParams()
	prices := []float64{10, 90, 90, 10}

	free, err := SolveDayAhead(params, prices, Options{})
	require.NoError(t, err)
	paired, err := SolveDayAhead(params, prices, Options{HourlyPairing: true})
	require.NoError(t, err)

	for h := 0; h < 2; h++ {
		assert.InDelta(t, paired.NetVolume[2*h], paired.NetVolume[2*h+1], 1e-6, "pair %d", h)
	}
	// Pairing restricts the feasible region, it can only cost revenue.
	assert.LessOrEqual(t, paired.Objective, free.Objective+testTol)
}

func TestSolveDayAheadHourlyPairingOddPeriods(t *testing.T) {
	_, err := SolveDayAhead(testParams(), flatPrices(3, 50), Options{HourlyPairing: true})
	assert.Error(t, err)
}

func TestSolveDayAheadZeroFinalTrade(t *testing.T) {
	params := model.BatteryParams{
		Power:                 100,
		Capacity:              100,
		ChargingEfficiency:    1.0,
		DischargingEfficiency: 1.0,
		DailyCycles:           2.0,
		InitialSoC:            50,
	}
	prices := []float64{10, 10, 10, 100}

	// Without the rule the battery buys 50 MWh at 10 and sells it at 100 in
	// the final period while still ending the day at its initial SoC.
	free, err := SolveDayAhead(params, prices, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 50, free.NetVolume[3], testTol)
	assert.InDelta(t, 4500, free.Objective, testTol)

	pinned, err := SolveDayAhead(params, prices, Options{ZeroFinalTrade: true})
	require.NoError(t, err)
	assert.InDelta(t, 0, pinned.NetVolume[3], 1e-6)
	assert.InDelta(t, 0, pinned.Objective, testTol)
}

func TestSolveDayAheadRejectsBadInput(t *testing.T) {
	params := testParams()
	params.ChargingEfficiency = 1.5
	_, err := SolveDayAhead(params, flatPrices(48, 50), Options{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInfeasible)

	_, err = SolveDayAhead(testParams(), nil, Options{})
	assert.Error(t, err)
}

func TestSolveDayAheadIdempotent(t *testing.T) {
	first, err := SolveDayAhead(testParams(), twoTierPrices(48, 20, 80), Options{})
	require.NoError(t, err)
	second, err := SolveDayAhead(testParams(), twoTierPrices(48, 20, 80), Options{})
	require.NoError(t, err)
	assert.InDelta(t, first.Objective, second.Objective, 1e-6)
}

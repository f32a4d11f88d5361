package model

import "fmt"

// BatteryParams describes the physical battery shared by both trading stages.
// Power is the symmetric charge/discharge limit in MW per settlement period,
// Capacity the state-of-charge upper bound in MWh. Efficiencies are fractions
// in (0, 1]. DailyCycles caps total discharge throughput as a multiple of
// Capacity. InitialSoC is both the starting and the mandated end-of-day state
// of charge.
type BatteryParams struct {
	Power                 float64 `json:"power"`
	Capacity              float64 `json:"capacity"`
	ChargingEfficiency    float64 `json:"charging_efficiency"`
	DischargingEfficiency float64 `json:"discharging_efficiency"`
	DailyCycles           float64 `json:"daily_cycles"`
	InitialSoC            float64 `json:"initial_soc"`
}

// Validate checks every parameter against its documented domain.
func (p BatteryParams) Validate() error {
	if p.Power <= 0 {
		return fmt.Errorf("battery: power must be positive, got %v", p.Power)
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("battery: capacity must be positive, got %v", p.Capacity)
	}
	if p.ChargingEfficiency <= 0 || p.ChargingEfficiency > 1 {
		return fmt.Errorf("battery: charging efficiency must be in (0,1], got %v", p.ChargingEfficiency)
	}
	if p.DischargingEfficiency <= 0 || p.DischargingEfficiency > 1 {
		return fmt.Errorf("battery: discharging efficiency must be in (0,1], got %v", p.DischargingEfficiency)
	}
	if p.DailyCycles < 0 {
		return fmt.Errorf("battery: daily cycles must not be negative, got %v", p.DailyCycles)
	}
	if p.InitialSoC < 0 || p.InitialSoC > p.Capacity {
		return fmt.Errorf("battery: initial SoC %v outside [0, %v]", p.InitialSoC, p.Capacity)
	}
	return nil
}

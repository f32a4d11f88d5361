// Package metrics records optimisation telemetry in pluggable sinks.
package metrics

import (
	"time"

	"github.com/gridarb/gridarb/core/optimiser"
)

// Stage labels for RecordSolve.
const (
	StageDayAhead = "day_ahead"
	StageIntraDay = "intra_day"
)

// Solve status labels.
const (
	StatusOptimal    = "optimal"
	StatusInfeasible = "infeasible"
	StatusError      = "error"
)

// Config selects and configures the enabled sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    int    `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 2112
	}
}

// Sink receives solve telemetry and final run results.
type Sink interface {
	// RecordSolve records one stage solve with its outcome and duration.
	RecordSolve(stage, status string, duration time.Duration, objective float64) error
	// RecordResult records the aggregated two-stage outcome of a run.
	RecordResult(res *optimiser.Result) error
}

// NopSink discards all telemetry.
type NopSink struct{}

func (NopSink) RecordSolve(string, string, time.Duration, float64) error { return nil }
func (NopSink) RecordResult(*optimiser.Result) error                    { return nil }

// MultiSink fans telemetry out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordSolve(stage, status string, duration time.Duration, objective float64) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordSolve(stage, status, duration, objective); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordResult(res *optimiser.Result) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordResult(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridarb/gridarb/core/optimiser"
)

// PromSink records solve telemetry in Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	revenue  *prometheus.GaugeVec
	runs     prometheus.Counter
}

// NewPromSink registers the optimiser metrics on the provided registerer. If
// reg is nil, the default registerer is used. Already registered collectors
// are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimiser_solves_total",
		Help: "Total number of stage solves by outcome",
	}, []string{"stage", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimiser_solve_duration_seconds",
		Help:    "Wall time of one stage solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	revenue := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimiser_stage_revenue",
		Help: "Objective value of the last successful stage solve",
	}, []string{"stage"})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimiser_runs_total",
		Help: "Total number of completed two-stage optimisation runs",
	})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(revenue); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			revenue = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, revenue: revenue, runs: runs}, nil
}

// RecordSolve increments the solve counter and observes the duration.
func (s *PromSink) RecordSolve(stage, status string, duration time.Duration, objective float64) error {
	s.solves.WithLabelValues(stage, status).Inc()
	s.duration.WithLabelValues(stage).Observe(duration.Seconds())
	if status == StatusOptimal {
		s.revenue.WithLabelValues(stage).Set(objective)
	}
	return nil
}

// RecordResult counts the completed run.
func (s *PromSink) RecordResult(*optimiser.Result) error {
	s.runs.Inc()
	return nil
}

// StartPromServer exposes /metrics on the given port. It blocks.
func StartPromServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// Package app wires configuration, telemetry and the optimiser into one
// synchronous unit of work per trading day.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gridarb/gridarb/config"
	"github.com/gridarb/gridarb/core/optimiser"
	"github.com/gridarb/gridarb/infra/dataset"
	"github.com/gridarb/gridarb/infra/logger"
	"github.com/gridarb/gridarb/infra/metrics"
	"github.com/gridarb/gridarb/infra/mqtt"
	"github.com/gridarb/gridarb/pkg/export"
)

// Service runs two-stage optimisations for trading days of the configured
// dataset and delivers the ledger to the configured outputs.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink metrics.Sink
	pub  mqtt.Publisher
}

// New builds a Service from the configuration, connecting the enabled sinks
// and the optional schedule publisher.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		go func() {
			if err := metrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink metrics.Sink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var pub mqtt.Publisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}

	return &Service{cfg: cfg, log: log, sink: sink, pub: pub}, nil
}

// Run optimises the configured trading day: day-ahead solve, intra-day solve,
// aggregation, export and publication. The context is checked between the
// blocking solver calls.
func (s *Service) Run(ctx context.Context) error {
	return s.RunDay(ctx, s.cfg.Market.Day)
}

// RunDay optimises the given trading day of the dataset.
func (s *Service) RunDay(ctx context.Context, day int) error {
	series, err := dataset.Load(s.cfg.Dataset)
	if err != nil {
		return err
	}
	prices, err := series.Day(day, s.cfg.Market.PeriodsPerDay)
	if err != nil {
		return err
	}
	opts := optimiser.Options{
		HourlyPairing:  s.cfg.Market.HourlyPairing,
		ZeroFinalTrade: s.cfg.Market.ZeroFinalTrade,
	}

	da, err := s.solveStage(metrics.StageDayAhead, func() (*optimiser.StageSolution, error) {
		return optimiser.SolveDayAhead(s.cfg.Battery, prices.DayAhead, opts)
	})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := s.solveStage(metrics.StageIntraDay, func() (*optimiser.StageSolution, error) {
		return optimiser.SolveIntraDay(s.cfg.Battery, da, prices.IntraDay)
	})
	if err != nil {
		return err
	}

	res, err := optimiser.Aggregate(da, id, prices)
	if err != nil {
		return err
	}
	s.log.Infof("day %d optimised: day-ahead revenue %.2f, intra-day revenue %.2f (run %s)",
		day, res.DayAheadRevenue, res.IntraDayRevenue, res.RunID)

	if err := s.writeOutput(res); err != nil {
		return err
	}
	if s.pub != nil {
		if err := s.pub.PublishResult(res); err != nil {
			return err
		}
	}
	if err := s.sink.RecordResult(res); err != nil {
		s.log.Warnf("record result: %v", err)
	}
	return nil
}

func (s *Service) solveStage(stage string, solve func() (*optimiser.StageSolution, error)) (*optimiser.StageSolution, error) {
	start := time.Now()
	sol, err := solve()
	elapsed := time.Since(start)

	status := metrics.StatusOptimal
	objective := 0.0
	switch {
	case err == nil:
		objective = sol.Objective
	case errors.Is(err, optimiser.ErrInfeasible):
		status = metrics.StatusInfeasible
	default:
		status = metrics.StatusError
	}
	if serr := s.sink.RecordSolve(stage, status, elapsed, objective); serr != nil {
		s.log.Warnf("record solve: %v", serr)
	}
	if err != nil {
		return nil, err
	}
	s.log.Debugw("stage solved", map[string]any{
		"stage":     stage,
		"objective": sol.Objective,
		"elapsed":   elapsed.String(),
	})
	return sol, nil
}

func (s *Service) writeOutput(res *optimiser.Result) error {
	f, err := os.Create(s.cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() { _ = f.Close() }()
	switch s.cfg.Output.Format {
	case "json":
		err = export.WriteJSON(f, res)
	default:
		err = export.WriteCSV(f, res)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.log.Infof("ledger written to %s", s.cfg.Output.Path)
	return nil
}

// Close releases the publisher connection.
func (s *Service) Close() error {
	if s.pub != nil {
		return s.pub.Close()
	}
	return nil
}

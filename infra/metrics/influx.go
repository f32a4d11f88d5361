package metrics

import (
	"context"
	"math"
	"net/http"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gridarb/gridarb/core/optimiser"
	"github.com/gridarb/gridarb/infra/logger"
)

// InfluxSink writes solve telemetry and per-period ledgers to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg Config) Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordSolve writes one stage_solve point.
func (s *InfluxSink) RecordSolve(stage, status string, duration time.Duration, objective float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("stage_solve").
		AddTag("stage", stage).
		AddTag("status", status).
		AddField("duration_ms", duration.Milliseconds()).
		AddField("objective", round3(objective)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordResult writes one point per settlement period plus a run summary.
func (s *InfluxSink) RecordResult(res *optimiser.Result) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	now := time.Now()
	for _, row := range res.Ledger {
		p := write.NewPointWithMeasurement("settlement_period").
			AddTag("run_id", res.RunID.String()).
			AddField("period", row.Period).
			AddField("day_ahead_volume", round3(row.DayAheadVolume)).
			AddField("intra_day_volume", round3(row.IntraDayVolume)).
			AddField("total_cashflow", round3(row.TotalCashflow)).
			AddField("day_ahead_soc", round3(row.DayAheadSoC)).
			AddField("combined_soc", round3(row.CombinedSoC)).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	summary := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", res.RunID.String()).
		AddField("day_ahead_revenue", round3(res.DayAheadRevenue)).
		AddField("intra_day_revenue", round3(res.IntraDayRevenue)).
		SetTime(now)
	return s.writeAPI.WritePoint(ctx, summary)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

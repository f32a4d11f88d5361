// Package dataset loads historical market price curves from CSV files and
// slices them into trading days.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gridarb/gridarb/core/model"
)

// Config locates the historical price file and names its columns.
type Config struct {
	Path           string `json:"path"`
	DayAheadColumn string `json:"day_ahead_column"`
	IntraDayColumn string `json:"intra_day_column"`
}

// SetDefaults applies the column names of the reference dataset.
func (c *Config) SetDefaults() {
	if c.DayAheadColumn == "" {
		c.DayAheadColumn = "day-ahead"
	}
	if c.IntraDayColumn == "" {
		c.IntraDayColumn = "intra-day"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("dataset: path is required")
	}
	return nil
}

// Series holds the full historical aligned price curves.
type Series struct {
	DayAhead []float64
	IntraDay []float64
}

// Load reads the configured CSV file into a Series.
func Load(cfg Config) (*Series, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, cfg.DayAheadColumn, cfg.IntraDayColumn)
}

// Read parses CSV content with a header row holding the given column names.
func Read(r io.Reader, daCol, idCol string) (*Series, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	daIdx, idIdx := -1, -1
	for i, name := range header {
		switch name {
		case daCol:
			daIdx = i
		case idCol:
			idIdx = i
		}
	}
	if daIdx < 0 {
		return nil, fmt.Errorf("dataset: column %q not found", daCol)
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("dataset: column %q not found", idCol)
	}

	s := &Series{}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", row, err)
		}
		da, err := strconv.ParseFloat(rec[daIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: bad %s value %q", row, daCol, rec[daIdx])
		}
		id, err := strconv.ParseFloat(rec[idIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: bad %s value %q", row, idCol, rec[idIdx])
		}
		s.DayAhead = append(s.DayAhead, da)
		s.IntraDay = append(s.IntraDay, id)
	}
	if len(s.DayAhead) == 0 {
		return nil, fmt.Errorf("dataset: no price rows")
	}
	return s, nil
}

// Days returns the number of complete trading days in the series.
func (s *Series) Days(periodsPerDay int) int {
	if periodsPerDay <= 0 {
		return 0
	}
	return len(s.DayAhead) / periodsPerDay
}

// Day slices one trading day out of the series by index.
func (s *Series) Day(day, periodsPerDay int) (model.DayPrices, error) {
	if periodsPerDay <= 0 {
		return model.DayPrices{}, fmt.Errorf("dataset: periods per day must be positive, got %d", periodsPerDay)
	}
	if day < 0 || day >= s.Days(periodsPerDay) {
		return model.DayPrices{}, fmt.Errorf("dataset: day %d out of range, have %d complete days",
			day, s.Days(periodsPerDay))
	}
	lo, hi := day*periodsPerDay, (day+1)*periodsPerDay
	return model.DayPrices{
		DayAhead: s.DayAhead[lo:hi:hi],
		IntraDay: s.IntraDay[lo:hi:hi],
	}, nil
}

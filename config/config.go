package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gridarb/gridarb/core/model"
	"github.com/gridarb/gridarb/infra/dataset"
	"github.com/gridarb/gridarb/infra/metrics"
	"github.com/gridarb/gridarb/infra/mqtt"
)

// Config is the full service configuration.
type Config struct {
	Battery model.BatteryParams `json:"battery"`
	Market  MarketConfig        `json:"market"`
	Dataset dataset.Config      `json:"dataset"`
	Output  OutputConfig        `json:"output"`
	Metrics metrics.Config      `json:"metrics"`
	MQTT    mqtt.Config         `json:"mqtt"`
}

// MarketConfig describes the settlement grid and the optional day-ahead
// market rules.
type MarketConfig struct {
	// PeriodsPerDay is the number of settlement periods per trading day.
	PeriodsPerDay int `json:"periods_per_day"`
	// Day selects the trading day slice of the dataset.
	Day int `json:"day"`
	// HourlyPairing forces equal day-ahead volumes across each half-hour pair.
	HourlyPairing bool `json:"hourly_pairing"`
	// ZeroFinalTrade forces the last day-ahead traded volume to zero.
	ZeroFinalTrade bool `json:"zero_final_trade"`
}

// SetDefaults applies sane defaults.
func (c *MarketConfig) SetDefaults() {
	if c.PeriodsPerDay == 0 {
		c.PeriodsPerDay = 48
	}
}

// Validate checks the settlement grid settings.
func (c MarketConfig) Validate() error {
	if c.PeriodsPerDay <= 0 {
		return fmt.Errorf("market: periods per day must be positive, got %d", c.PeriodsPerDay)
	}
	if c.HourlyPairing && c.PeriodsPerDay%2 != 0 {
		return fmt.Errorf("market: hourly pairing requires an even period count, got %d", c.PeriodsPerDay)
	}
	if c.Day < 0 {
		return fmt.Errorf("market: day must not be negative, got %d", c.Day)
	}
	return nil
}

// OutputConfig selects the ledger export format and destination.
type OutputConfig struct {
	// Format is "csv" or "json".
	Format string `json:"format"`
	Path   string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "csv"
	}
	if c.Path == "" {
		c.Path = "ledger." + c.Format
	}
}

// Validate checks the export format.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("output: unknown format %s", c.Format)
	}
	return nil
}

// Load reads a yaml or json configuration file, applies GRIDARB_ environment
// overrides, defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("GRIDARB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "gridarb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Market.SetDefaults()
	cfg.Dataset.SetDefaults()
	cfg.Output.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Market.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

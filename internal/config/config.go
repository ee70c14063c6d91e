// Package config loads and validates the simulator configuration from a
// YAML file, with environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Config is the full simulator configuration.
//
// Validation failures are construction errors: the engine cannot be used,
// so Load reports them immediately and fatally to the caller.
type Config struct {
	// Engine parameters.
	InitialCapital float64 `yaml:"initial_capital" validate:"gt=0"`
	HedgeFreqDays  int     `yaml:"hedge_freq_days" validate:"gt=0"`

	// Simulation window, inclusive, as YYYY-MM-DD.
	Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End   string `yaml:"end" validate:"required,datetime=2006-01-02"`

	// Data source. DataCSV takes precedence; RemoteURL is the fallback;
	// with neither set the synthetic provider is used.
	DataCSV   string `yaml:"data_csv"`
	RemoteURL string `yaml:"remote_url" validate:"omitempty,url"`
	APIKey    string `yaml:"-"` // from SCALPER_API_KEY, never from file

	// ExpiryRule derives the monthly expiry when the table has no Expiry
	// column: third_friday, last_friday, or third_last_friday.
	ExpiryRule string `yaml:"expiry_rule" validate:"oneof=third_friday last_friday third_last_friday"`

	// ExitExpression closes the position when it evaluates true. Variables:
	// DaysToExpiry, Spot, UnrealizedPnL, Return. Empty means hold to the
	// final row.
	ExitExpression string `yaml:"exit_expression"`

	ReportDir string `yaml:"report_dir"`
	Seed      int64  `yaml:"seed"`
	Verbosity int    `yaml:"verbosity" validate:"gte=0,lte=3"`
}

// Default returns the baseline configuration before file and env overrides.
func Default() *Config {
	return &Config{
		InitialCapital: 100_000,
		HedgeFreqDays:  2,
		Start:          time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02"),
		End:            time.Now().UTC().Format("2006-01-02"),
		ExpiryRule:     "last_friday",
		ExitExpression: "DaysToExpiry <= 1",
		ReportDir:      "./out",
		Seed:           42,
		Verbosity:      1,
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if key := os.Getenv("SCALPER_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if url := os.Getenv("SCALPER_REMOTE_URL"); url != "" {
		cfg.RemoteURL = url
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Window parses the simulation date range.
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.Start)
	if err != nil {
		return
	}
	end, err = time.Parse("2006-01-02", c.End)
	if err != nil {
		return
	}
	if start.After(end) {
		start, end = end, start
	}
	return
}

// Package cmd implements the CLI application around the portfolio engine.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/openfolio/perfcalc"
	"github.com/openfolio/perfcalc/quotejson"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&snapshotCmd{}, "reports")
	c.Register(&chartCmd{}, "reports")
	c.Register(&symbolCmd{}, "reports")
	c.Register(&annualizeCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "pfcalc.yaml", "Path to the configuration file")
var verbose = flag.Bool("v", false, "Enable debug logging")

// Config is the on-disk configuration of the tool.
type Config struct {
	// Currency is the base reporting currency.
	Currency string `yaml:"currency"`
	// Convention selects the percentage denominator (ROI, ROAI, TWR, MWR).
	Convention string `yaml:"convention"`
	// Orders is the path to the activity ledger, a JSON array of orders.
	Orders string `yaml:"orders"`
	// Feeds is the directory holding one JSON quote document per symbol.
	Feeds string `yaml:"feeds"`
	// Mapping overrides the JSONPath mapping of the quote documents.
	Mapping *quotejson.Mapping `yaml:"mapping,omitempty"`
}

// Logger builds the application logger, debug-level with -v.
func Logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// LoadConfig reads and validates the configuration file.
func LoadConfig() (*Config, error) {
	raw, err := os.ReadFile(*configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %q: %w", *configFile, err)
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("configuration %q misses the base currency", *configFile)
	}
	if cfg.Convention == "" {
		cfg.Convention = string(perfcalc.ROI)
	}
	if _, err := perfcalc.ParseConvention(cfg.Convention); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DecodeOrders reads the activity ledger named by the configuration.
func DecodeOrders(cfg *Config) ([]perfcalc.Order, error) {
	raw, err := os.ReadFile(cfg.Orders)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	var orders []perfcalc.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("invalid ledger %q: %w", cfg.Orders, err)
	}
	return orders, nil
}

// NewCalculator assembles the engine from the configuration: ledger, quote
// feeds and base currency.
func NewCalculator(cfg *Config) (*perfcalc.Calculator, error) {
	orders, err := DecodeOrders(cfg)
	if err != nil {
		return nil, err
	}
	convention, err := perfcalc.ParseConvention(cfg.Convention)
	if err != nil {
		return nil, err
	}

	var quotes perfcalc.QuoteProvider
	if cfg.Feeds != "" {
		mapping := quotejson.DefaultMapping()
		if cfg.Mapping != nil {
			mapping = *cfg.Mapping
		}
		quotes = quotejson.NewProvider(cfg.Feeds, mapping, Logger())
	}

	return perfcalc.New(perfcalc.Options{
		Currency:   cfg.Currency,
		Convention: convention,
		Orders:     orders,
		Quotes:     quotes,
		Logger:     Logger(),
	})
}

// parseDateFlag resolves an optional -d style flag, defaulting to today.
func parseDateFlag(value string) (perfcalc.Date, error) {
	if value == "" {
		return perfcalc.Today(), nil
	}
	return perfcalc.ParseDate(value)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

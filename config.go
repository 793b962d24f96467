package crucible

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/forgeworks/crucible/flags"
	"github.com/forgeworks/crucible/registry"
	"github.com/forgeworks/crucible/types"
)

// Reporter kinds selectable at construction
const (
	ReporterText   = "text"
	ReporterJSON   = "json"
	ReporterSilent = "silent"
)

// Config holds the engine configuration for one run
type Config struct {
	Filter       types.Filter
	Seed         *uint64 // nil means draw one and surface it in the report
	Concurrency  int     // 0 means the host's core count
	ReporterKind string
	Progress     bool   // decorate the reporter with a live progress bar
	LogDir       string // empty disables run artifact storage
	Metrics      bool   // expose healthz/metrics listeners during the run
	Log          log.Logger
}

// fileConfig is the YAML run-config file schema. Every field is optional;
// explicit flags take precedence over file values.
type fileConfig struct {
	Filter         *string `yaml:"filter,omitempty"`
	FilterLocation *string `yaml:"filter_location,omitempty"`
	Seed           *uint64 `yaml:"seed,omitempty"`
	Concurrency    *int    `yaml:"concurrency,omitempty"`
	Reporter       *string `yaml:"reporter,omitempty"`
	LogDir         *string `yaml:"logdir,omitempty"`
}

// NewConfig creates a new Config from the CLI context, overlaying an
// optional YAML run-config file underneath explicitly set flags.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckExclusive(ctx); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New()
	}

	cfg := &Config{
		Filter:       types.NoFilter(),
		Concurrency:  ctx.Int(flags.Concurrency.Name),
		ReporterKind: ctx.String(flags.ReporterKind.Name),
		Progress:     ctx.Bool(flags.Progress.Name),
		LogDir:       ctx.String(flags.LogDir.Name),
		Metrics:      ctx.Bool(flags.Metrics.Name),
		Log:          logger,
	}

	if path := ctx.String(flags.ConfigFile.Name); path != "" {
		if err := cfg.applyFile(ctx, path); err != nil {
			return nil, err
		}
	}

	if pattern := ctx.String(flags.Filter.Name); pattern != "" {
		cfg.Filter = types.PatternFilter(pattern)
	}
	if location := ctx.String(flags.FilterLocation.Name); location != "" {
		cfg.Filter = types.LocationFilter(canonicalFilterPath(location))
	}
	if ctx.IsSet(flags.Seed.Name) {
		seed := ctx.Uint64(flags.Seed.Name)
		cfg.Seed = &seed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays values from a YAML run-config file for every setting
// the command line left untouched
func (c *Config) applyFile(ctx *cli.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fc.Filter != nil && fc.FilterLocation != nil {
		return fmt.Errorf("config file sets both filter and filter_location; filters are exclusive")
	}
	if fc.Filter != nil && !ctx.IsSet(flags.Filter.Name) && !ctx.IsSet(flags.FilterLocation.Name) {
		c.Filter = types.PatternFilter(*fc.Filter)
	}
	if fc.FilterLocation != nil && !ctx.IsSet(flags.Filter.Name) && !ctx.IsSet(flags.FilterLocation.Name) {
		c.Filter = types.LocationFilter(canonicalFilterPath(*fc.FilterLocation))
	}
	if fc.Seed != nil && !ctx.IsSet(flags.Seed.Name) {
		c.Seed = fc.Seed
	}
	if fc.Concurrency != nil && !ctx.IsSet(flags.Concurrency.Name) {
		c.Concurrency = *fc.Concurrency
	}
	if fc.Reporter != nil && !ctx.IsSet(flags.ReporterKind.Name) {
		c.ReporterKind = *fc.Reporter
	}
	if fc.LogDir != nil && !ctx.IsSet(flags.LogDir.Name) {
		c.LogDir = *fc.LogDir
	}
	return nil
}

func (c *Config) validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	switch c.ReporterKind {
	case ReporterText, ReporterJSON, ReporterSilent:
	default:
		return fmt.Errorf("unknown reporter %q; expected %q, %q or %q",
			c.ReporterKind, ReporterText, ReporterJSON, ReporterSilent)
	}
	return nil
}

// canonicalFilterPath rewrites a Location filter argument that names an
// existing file into the same module-qualified form the registry records
// for tests. Values that are already canonical pass through unchanged.
func canonicalFilterPath(location string) string {
	abs, err := filepath.Abs(location)
	if err != nil {
		return location
	}
	if _, err := os.Stat(abs); err != nil {
		return location
	}
	return registry.CanonicalPath(abs)
}

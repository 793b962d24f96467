package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "CRUCIBLE"

// PrefixEnvVar adds the application prefix to an environment variable name
func PrefixEnvVar(prefix, suffix string) []string {
	return []string{prefix + "_" + suffix}
}

var (
	Filter = &cli.StringFlag{
		Name:    "filter",
		Value:   "",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "FILTER"),
		Usage:   "Run only tests whose name contains this substring",
	}
	FilterLocation = &cli.StringFlag{
		Name:    "filter-location",
		Value:   "",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "FILTER_LOCATION"),
		Usage:   "Run only tests registered from exactly this source path",
	}
	Seed = &cli.Uint64Flag{
		Name:    "seed",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "SEED"),
		Usage:   "Seed for the deterministic test-order shuffle (default: random)",
	}
	Concurrency = &cli.IntFlag{
		Name:    "concurrency",
		Value:   0,
		EnvVars: PrefixEnvVar(EnvVarPrefix, "CONCURRENCY"),
		Usage:   "Number of concurrent test workers (0 = host core count)",
	}
	ReporterKind = &cli.StringFlag{
		Name:    "reporter",
		Value:   "text",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "REPORTER"),
		Usage:   "Reporter to use: 'text', 'json' or 'silent'",
	}
	Progress = &cli.BoolFlag{
		Name:    "progress",
		Value:   false,
		EnvVars: PrefixEnvVar(EnvVarPrefix, "PROGRESS"),
		Usage:   "Show a live progress bar during the run",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store run artifacts; empty disables artifact storage",
	}
	Metrics = &cli.BoolFlag{
		Name:    "metrics",
		Value:   false,
		EnvVars: PrefixEnvVar(EnvVarPrefix, "METRICS"),
		Usage:   "Expose healthz and Prometheus metrics listeners during the run",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Path to a YAML run-config file (eg. 'crucible.yaml')",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: PrefixEnvVar(EnvVarPrefix, "LOG_LEVEL"),
		Usage:   "Log level: 'trace', 'debug', 'info', 'warn', 'error' or 'crit'",
	}
)

var Flags = []cli.Flag{
	Filter,
	FilterLocation,
	Seed,
	Concurrency,
	ReporterKind,
	Progress,
	LogDir,
	Metrics,
	ConfigFile,
	LogLevel,
}

// CheckExclusive rejects invocations that combine filter variants; exactly
// one filter is active per run, never several.
func CheckExclusive(ctx *cli.Context) error {
	if ctx.String(Filter.Name) != "" && ctx.String(FilterLocation.Name) != "" {
		return fmt.Errorf("flags --%s and --%s are mutually exclusive", Filter.Name, FilterLocation.Name)
	}
	return nil
}

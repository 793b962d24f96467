package crucible

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/forgeworks/crucible/flags"
	"github.com/forgeworks/crucible/fork"
	"github.com/forgeworks/crucible/registry"
	"github.com/forgeworks/crucible/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

// Main is the entry point for a crucible test binary. The caller builds a
// registry, registers its suite against it, and hands control here; Main
// parses flags, runs the engine, and exits with the appropriate status.
//
// In child mode (the engine re-executed this binary to isolate one test)
// Main skips telemetry and listeners and only invokes the selected child
// closure, so crashing tests terminate through the runtime's fatal path.
func Main(appName string, reg *registry.Registry) {
	// A missing .env is the common case, not an error.
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = appName
	app.Usage = "Crucible test suite runner"
	app.Flags = flags.Flags
	app.Action = func(ctx *cli.Context) error {
		return run(ctx, reg)
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), 2))
			} else if IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), 1))
			}
		}
	}

	ctx := context.Background()
	_, childMode := os.LookupEnv(fork.EnvChildIndex)
	if !childMode {
		shutdown, err := otelconfig.ConfigureOpenTelemetry(
			otelconfig.WithServiceName(app.Name),
			otelconfig.WithServiceVersion(app.Version),
		)
		if err != nil {
			log.Crit("Failed to setup open telemetry", "message", err)
		}
		defer shutdown()
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context, reg *registry.Registry) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))

	cfg, err := NewConfig(ctx, logger)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	engine, err := New(cfg, reg)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to create engine: %w", err))
	}

	if cfg.Metrics {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	return engine.Run(ctx.Context)
}

// newLogger builds the process logger from the --log.level flag. An
// unrecognized level falls back to info rather than fail the run.
func newLogger(level string) log.Logger {
	lvl := log.LevelInfo
	switch strings.ToLower(level) {
	case "trace", "trce":
		lvl = log.LevelTrace
	case "debug", "dbug":
		lvl = log.LevelDebug
	case "info":
		lvl = log.LevelInfo
	case "warn":
		lvl = log.LevelWarn
	case "error", "eror":
		lvl = log.LevelError
	case "crit":
		lvl = log.LevelCrit
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, lvl, false)
	logger := log.NewLogger(handler)
	log.SetDefault(logger)
	return logger
}

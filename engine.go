// Package crucible is a unit-test execution engine: it orders and filters
// registered test cases deterministically, executes them across a bounded
// pool of concurrent workers, and isolates tests that are expected to
// crash the process in re-executed child processes.
package crucible

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/forgeworks/crucible/exitcodes"
	"github.com/forgeworks/crucible/fork"
	"github.com/forgeworks/crucible/logging"
	"github.com/forgeworks/crucible/metrics"
	"github.com/forgeworks/crucible/registry"
	"github.com/forgeworks/crucible/reporting"
	"github.com/forgeworks/crucible/runner"
)

// Engine coordinates registry → filter/shuffle → scheduler → reporter for
// one process run.
type Engine struct {
	config     *Config
	registry   *registry.Registry
	fileLogger *logging.FileLogger
	result     *runner.Result
	runID      string

	childIndex int
	childMode  bool
}

// New creates an engine for the given configuration and registry. When the
// child-selector environment variable is present the engine is set up for
// child mode and skips all parent-side machinery, including artifact
// directories.
func New(config *Config, reg *registry.Registry) (*Engine, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if reg == nil {
		return nil, errors.New("registry is required")
	}

	e := &Engine{config: config, registry: reg}

	if raw, ok := os.LookupEnv(fork.EnvChildIndex); ok {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NewRuntimeError(fmt.Errorf("invalid %s value %q: %w", fork.EnvChildIndex, raw, err))
		}
		e.childMode = true
		e.childIndex = index
		return e, nil
	}

	if config.LogDir != "" {
		fileLogger, err := logging.NewFileLogger(config.LogDir, "")
		if err != nil {
			return nil, NewRuntimeError(fmt.Errorf("creating file logger: %w", err))
		}
		e.fileLogger = fileLogger
		e.runID = fileLogger.RunID()
		reg.SetArtifacts(fileLogger)
	} else {
		e.runID = uuid.New().String()
	}

	config.Log.Debug("Created engine",
		"filter", config.Filter.Kind,
		"concurrency", config.Concurrency,
		"reporter", config.ReporterKind,
		"runID", e.runID)
	return e, nil
}

// Run executes the engine. In child mode it invokes exactly the selected
// child closure and returns, letting the process terminate through the
// runtime's normal or fatal path. Otherwise it performs
// filter → shuffle → schedule → report and returns a TestFailureError when
// any test failed, so the CLI maps the outcome to the process exit status.
func (e *Engine) Run(ctx context.Context) error {
	// Child panics must reach the runtime untouched: the parent's verdict
	// reads the fatal exit status and the stack trace from captured stderr.
	if e.childMode {
		return e.runChild()
	}

	// A panic reaching this frame means the engine itself is broken (for
	// example a harness that could not spawn its child); exit through the
	// runtime error path rather than report a test verdict.
	defer func() {
		if r := recover(); r != nil {
			e.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	seed := runner.RandomSeed()
	if e.config.Seed != nil {
		seed = *e.config.Seed
	}

	ordered := runner.Plan(e.registry.Tests(), e.config.Filter, seed)
	e.config.Log.Info("Starting test run",
		"registered", len(e.registry.Tests()),
		"selected", len(ordered),
		"seed", seed,
		"concurrency", e.config.Concurrency)

	reporter := e.buildReporter(len(ordered))

	sched, err := runner.NewScheduler(runner.Config{
		Log:         e.config.Log,
		Reporter:    reporter,
		Concurrency: e.config.Concurrency,
		RunID:       e.runID,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	result := sched.Run(ctx, ordered, seed)
	e.result = result

	metrics.RecordRun(e.runID, string(result.Status()),
		result.Stats.Total, result.Stats.Passed, result.Stats.Failed, result.Duration)

	if e.fileLogger != nil {
		if err := e.fileLogger.SaveSummary(result.String()); err != nil {
			e.config.Log.Warn("Failed to store run summary", "error", err)
		}
	}

	if ok := reporter.Finished(result.Duration, seed); !ok {
		return NewTestFailureError(result.String())
	}
	return nil
}

// runChild looks up and invokes the single child closure selected by the
// environment. An out-of-range index means the parent and child disagree
// about the registered suite; that is unrecoverable.
func (e *Engine) runChild() error {
	child, ok := e.registry.Child(e.childIndex)
	if !ok {
		panic(fmt.Sprintf("no child closure registered under index %d", e.childIndex))
	}
	child()
	return nil
}

// buildReporter selects the reporter variant at construction time
func (e *Engine) buildReporter(total int) reporting.Reporter {
	var reporter reporting.Reporter
	switch e.config.ReporterKind {
	case ReporterJSON:
		reporter = reporting.NewJSONReporter(os.Stdout)
	case ReporterSilent:
		reporter = reporting.NewSilentReporter()
	default:
		reporter = reporting.NewTextReporter(os.Stdout)
	}
	if e.config.Progress {
		reporter = reporting.NewProgressReporter(reporter, total, os.Stderr)
	}
	return reporter
}

// Result returns the aggregated outcome of the last run, or nil before the
// first run completes. Embedding programs use it for their own reporting.
func (e *Engine) Result() *runner.Result {
	return e.result
}

// Package runner executes an ordered sequence of tests across a bounded
// pool of concurrent workers and aggregates their results.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeworks/crucible/metrics"
	"github.com/forgeworks/crucible/reporting"
	"github.com/forgeworks/crucible/types"
)

// Config holds configuration for creating a new scheduler
type Config struct {
	Log         log.Logger
	Reporter    reporting.Reporter
	Concurrency int    // number of workers; 0 means the host's core count
	RunID       string // identifies the run in logs and metrics
}

// Scheduler drains an ordered test sequence through a fixed-size worker
// pool. Scheduling order follows the shuffle; completion order depends on
// each test's runtime and is not deterministic.
type Scheduler struct {
	log         log.Logger
	reporter    reporting.Reporter
	concurrency int
	runID       string
	tracer      trace.Tracer
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = reporting.NewSilentReporter()
	}

	return &Scheduler{
		log:         cfg.Log.New("component", "scheduler"),
		reporter:    cfg.Reporter,
		concurrency: cfg.Concurrency,
		runID:       cfg.RunID,
		tracer:      otel.Tracer("test scheduler"),
	}, nil
}

// Run executes every test in the ordered sequence exactly once and returns
// the aggregated result. The work queue is pre-loaded with the whole
// sequence before any worker starts, so enqueuing never blocks and the
// queue guarantees at most one consumer per item. The collector performs
// exactly len(ordered) blocking dequeues from the result queue and drives
// the reporter's pass/fail callbacks as completions arrive.
func (s *Scheduler) Run(ctx context.Context, ordered []*types.Test, seed uint64) *Result {
	start := time.Now()
	result := &Result{
		RunID: s.runID,
		Seed:  seed,
		Stats: Stats{StartTime: start},
	}

	count := len(ordered)
	s.log.Debug("Starting run", "tests", count, "concurrency", s.concurrency, "seed", seed)

	if count > 0 {
		work := make(chan *types.Test, count)
		for _, t := range ordered {
			work <- t
		}
		results := make(chan *types.Test, count)

		for i := 0; i < s.concurrency; i++ {
			go s.worker(ctx, i, work, results)
		}

		for i := 0; i < count; i++ {
			t := <-results
			result.Record(t)
			if t.Passed() {
				s.reporter.Passed(t)
			} else {
				s.reporter.Failed(t)
			}
			metrics.RecordTest(s.runID, t.Name, t.Status())
		}
	}

	result.Duration = time.Since(start)
	result.Stats.EndTime = time.Now()
	s.log.Debug("Run finished", "status", result.Status(), "duration", result.Duration,
		"passed", result.Stats.Passed, "failed", result.Stats.Failed)
	return result
}

// worker repeatedly performs a non-blocking dequeue from the work queue,
// executes the obtained test and enqueues it on the result queue. The
// queue is never refilled, so an empty dequeue doubles as the shutdown
// signal and no explicit stop message is needed.
func (s *Scheduler) worker(ctx context.Context, id int, work <-chan *types.Test, results chan<- *types.Test) {
	for {
		select {
		case t := <-work:
			s.execute(ctx, t)
			results <- t
		default:
			s.log.Debug("Work queue empty, worker exiting", "worker", id)
			return
		}
	}
}

// execute runs a single test body to completion against its own ledger.
// Assertion failures accumulate on the test and never stop the pool; a
// broken crash-isolation harness panics through here and aborts the run.
func (s *Scheduler) execute(ctx context.Context, t *types.Test) {
	_, span := s.tracer.Start(ctx, fmt.Sprintf("test %s", t.Name))
	defer span.End()

	s.log.Debug("Running test", "id", t.ID, "name", t.Name)
	start := time.Now()
	t.Body(t)
	t.Duration = time.Since(start)
}

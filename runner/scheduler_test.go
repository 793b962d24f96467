package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/crucible/types"
)

// countingReporter records pass/fail callbacks; the scheduler invokes it
// only from the collector, so no locking is needed here beyond what the
// contract already guarantees.
type countingReporter struct {
	passed []*types.Test
	failed []*types.Test
	done   bool
}

func (r *countingReporter) Passed(t *types.Test) { r.passed = append(r.passed, t) }
func (r *countingReporter) Failed(t *types.Test) { r.failed = append(r.failed, t) }
func (r *countingReporter) Finished(time.Duration, uint64) bool {
	r.done = true
	return len(r.failed) == 0
}

func bodies(n int, run func(i int, t *types.Test)) []*types.Test {
	out := make([]*types.Test, n)
	for i := range out {
		i := i
		out[i] = &types.Test{
			ID:   i,
			Name: fmt.Sprintf("test %d", i),
			Body: func(t *types.Test) { run(i, t) },
		}
	}
	return out
}

func TestSchedulerValidatesConcurrency(t *testing.T) {
	_, err := NewScheduler(Config{Concurrency: -1})
	require.Error(t, err)

	s, err := NewScheduler(Config{Concurrency: 0})
	require.NoError(t, err)
	assert.Greater(t, s.concurrency, 0)
}

func TestSchedulerRunsEveryTestExactlyOnce(t *testing.T) {
	var counts [50]atomic.Int32
	tests := bodies(50, func(i int, _ *types.Test) {
		counts[i].Add(1)
	})

	s, err := NewScheduler(Config{Concurrency: 8, RunID: "once"})
	require.NoError(t, err)
	result := s.Run(context.Background(), tests, 1)

	assert.Equal(t, 50, result.Stats.Total)
	for i := range counts {
		assert.Equal(t, int32(1), counts[i].Load(), "test %d execution count", i)
	}
}

func TestSchedulerSerialExecutionOrder(t *testing.T) {
	// With one worker the execution order is exactly the scheduling order.
	var mu sync.Mutex
	var order []int
	tests := bodies(10, func(i int, _ *types.Test) {
		mu.Lock()
		order = append(order, i)
		mu.Unlock()
	})

	s, err := NewScheduler(Config{Concurrency: 1})
	require.NoError(t, err)
	s.Run(context.Background(), tests, 1)

	require.Len(t, order, 10)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestSchedulerAggregatesIndependentOfCompletionOrder(t *testing.T) {
	// Stagger runtimes so completions interleave across workers; counts
	// and per-test verdicts must come out identical regardless.
	tests := bodies(20, func(i int, t *types.Test) {
		time.Sleep(time.Duration(i%4) * time.Millisecond)
		if i%5 == 0 {
			t.Record(types.Failure{Got: "odd", Expected: "even"})
		}
	})

	reporter := &countingReporter{}
	s, err := NewScheduler(Config{Concurrency: 6, Reporter: reporter})
	require.NoError(t, err)
	result := s.Run(context.Background(), tests, 3)

	assert.Equal(t, 20, result.Stats.Total)
	assert.Equal(t, 4, result.Stats.Failed)
	assert.Equal(t, 16, result.Stats.Passed)
	assert.Len(t, reporter.passed, 16)
	assert.Len(t, reporter.failed, 4)
	assert.Len(t, result.Tests, 20)
}

func TestSchedulerRecordsDurations(t *testing.T) {
	tests := bodies(1, func(int, *types.Test) {
		time.Sleep(5 * time.Millisecond)
	})

	s, err := NewScheduler(Config{Concurrency: 1})
	require.NoError(t, err)
	result := s.Run(context.Background(), tests, 1)

	require.Len(t, result.Tests, 1)
	assert.GreaterOrEqual(t, result.Tests[0].Duration, 5*time.Millisecond)
	assert.GreaterOrEqual(t, result.Duration, result.Tests[0].Duration)
}

func TestSchedulerEmptyRun(t *testing.T) {
	reporter := &countingReporter{}
	s, err := NewScheduler(Config{Concurrency: 4, Reporter: reporter})
	require.NoError(t, err)

	result := s.Run(context.Background(), nil, 1)
	assert.True(t, result.Passed())
	assert.Equal(t, 0, result.Stats.Total)
	assert.Empty(t, reporter.passed)
	assert.Empty(t, reporter.failed)
}

// Three tests, seed 42, one worker: the plan fixes the order A, C, B,
// each completion drives one reporter callback, and B's single mismatch
// makes the run fail.
func TestSchedulerSeededSerialScenario(t *testing.T) {
	var mu sync.Mutex
	var executed []string
	body := func(name string) func(*types.Test) {
		return func(tt *types.Test) {
			mu.Lock()
			executed = append(executed, name)
			mu.Unlock()
			if name == "B" {
				tt.Record(types.Failure{Got: "1", Expected: "2"})
			}
		}
	}
	suite := []*types.Test{
		{ID: 0, Name: "A"},
		{ID: 1, Name: "B"},
		{ID: 2, Name: "C"},
	}
	for _, tc := range suite {
		tc.Body = body(tc.Name)
	}

	ordered := Plan(suite, types.NoFilter(), 42)
	require.Equal(t, []string{"A", "C", "B"}, names(ordered))

	reporter := &countingReporter{}
	s, err := NewScheduler(Config{Concurrency: 1, Reporter: reporter})
	require.NoError(t, err)
	result := s.Run(context.Background(), ordered, 42)

	assert.Equal(t, []string{"A", "C", "B"}, executed)
	require.Len(t, reporter.passed, 2)
	require.Len(t, reporter.failed, 1)
	assert.Equal(t, "B", reporter.failed[0].Name)
	require.Len(t, reporter.failed[0].Failures, 1)
	assert.Equal(t, "1", reporter.failed[0].Failures[0].Got)
	assert.Equal(t, "2", reporter.failed[0].Failures[0].Expected)

	// The negative verdict is what the engine turns into exit status 1.
	assert.False(t, reporter.Finished(result.Duration, 42))
	assert.False(t, result.Passed())
}

func TestSchedulerMoreWorkersThanTests(t *testing.T) {
	var ran atomic.Int32
	tests := bodies(3, func(int, *types.Test) { ran.Add(1) })

	s, err := NewScheduler(Config{Concurrency: 32})
	require.NoError(t, err)
	result := s.Run(context.Background(), tests, 1)

	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, 3, result.Stats.Total)
}

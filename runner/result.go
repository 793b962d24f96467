package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/forgeworks/crucible/reporting"
	"github.com/forgeworks/crucible/types"
)

// Stats tracks test counts for a run
type Stats struct {
	Total     int
	Passed    int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
}

// Result captures the complete outcome of a run. Tests are stored in
// completion order, which is not the scheduling order and must not be
// relied upon.
type Result struct {
	RunID    string
	Seed     uint64
	Tests    []*types.Test
	Stats    Stats
	Duration time.Duration
}

// Record adds a completed test to the result and updates statistics
func (r *Result) Record(t *types.Test) {
	r.Tests = append(r.Tests, t)
	r.Stats.Total++
	if t.Passed() {
		r.Stats.Passed++
	} else {
		r.Stats.Failed++
	}
}

// Passed reports whether no test recorded a failure. An empty run passes.
func (r *Result) Passed() bool {
	return r.Stats.Failed == 0
}

// Status returns the overall run status
func (r *Result) Status() types.TestStatus {
	if r.Passed() {
		return types.TestStatusPass
	}
	return types.TestStatusFail
}

// FailedTests returns the completed tests carrying at least one failure,
// in completion order
func (r *Result) FailedTests() []*types.Test {
	var failed []*types.Test
	for _, t := range r.Tests {
		if !t.Passed() {
			failed = append(failed, t)
		}
	}
	return failed
}

// String returns a short human-readable summary of the run
func (r *Result) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Test Run Results (%s):\n", reporting.FormatDuration(r.Duration)))
	b.WriteString(fmt.Sprintf("Total: %d, Passed: %d, Failed: %d, Seed: %d\n",
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Seed))
	for _, t := range r.FailedTests() {
		b.WriteString(fmt.Sprintf("  ✗ %s (%s:%d)\n", t.Name, t.SourcePath, t.SourceLine))
		for _, f := range t.Failures {
			b.WriteString(fmt.Sprintf("      %s\n", f.String()))
		}
	}
	return b.String()
}

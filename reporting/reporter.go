// Package reporting consumes pass/fail events as results arrive and
// produces the final run summary.
package reporting

import (
	"fmt"
	"time"

	"github.com/forgeworks/crucible/types"
)

// Reporter consumes completed tests in completion order, which depends on
// each test's runtime and must not be assumed to follow scheduling order.
// Finished reports whether the run should be considered successful; its
// result becomes the process exit status. All three methods are invoked
// from the single collector goroutine, so implementations need no locking
// of their own.
type Reporter interface {
	Passed(t *types.Test)
	Failed(t *types.Test)
	Finished(duration time.Duration, seed uint64) bool
}

// SilentReporter records outcomes without producing output. Embedding
// programs and tests use it when they only care about the verdict.
type SilentReporter struct {
	passed []*types.Test
	failed []*types.Test
}

// NewSilentReporter creates a reporter that produces no output
func NewSilentReporter() *SilentReporter {
	return &SilentReporter{}
}

func (s *SilentReporter) Passed(t *types.Test) {
	s.passed = append(s.passed, t)
}

func (s *SilentReporter) Failed(t *types.Test) {
	s.failed = append(s.failed, t)
}

func (s *SilentReporter) Finished(time.Duration, uint64) bool {
	return len(s.failed) == 0
}

// PassedTests returns the tests reported as passed, in completion order
func (s *SilentReporter) PassedTests() []*types.Test {
	return s.passed
}

// FailedTests returns the tests reported as failed, in completion order
func (s *SilentReporter) FailedTests() []*types.Test {
	return s.failed
}

// FormatDuration renders a duration for humans: seconds above one second,
// milliseconds otherwise.
func FormatDuration(d time.Duration) string {
	if d > time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

package types

import (
	"fmt"
	"time"
)

// TestStatus represents the possible outcomes of a test execution
type TestStatus string

const (
	TestStatusPass TestStatus = "pass"
	TestStatusFail TestStatus = "fail"
)

// Failure records one assertion mismatch. It is immutable once constructed.
type Failure struct {
	Got        string
	Expected   string
	SourcePath string
	SourceLine int
}

// String returns a single-line description of the mismatch
func (f Failure) String() string {
	return fmt.Sprintf("%s:%d: expected %q, got %q", f.SourcePath, f.SourceLine, f.Expected, f.Got)
}

// Body is a test's executable closure. It runs against the Test that owns
// it, recording failures as it goes; it is always run to completion.
type Body func(*Test)

// Test is one registered case. It is created at registration time, mutated
// only by the worker executing it, and read-only afterwards.
type Test struct {
	ID         int
	Name       string
	SourcePath string
	SourceLine int
	Failures   []Failure
	Body       Body
	Duration   time.Duration
}

// Record appends a failure to the test's ledger. Recording a failure never
// aborts the test body; remaining assertions still run.
func (t *Test) Record(f Failure) {
	t.Failures = append(t.Failures, f)
}

// RecordHere appends a failure attributed to the test's own registration
// site rather than an assertion call site. The crash-isolation harness uses
// this because a child process has no access to the parent's call stack.
func (t *Test) RecordHere(got, expected string) {
	t.Record(Failure{
		Got:        got,
		Expected:   expected,
		SourcePath: t.SourcePath,
		SourceLine: t.SourceLine,
	})
}

// Passed reports whether the test recorded no failures
func (t *Test) Passed() bool {
	return len(t.Failures) == 0
}

// Status returns the test's outcome based on its ledger
func (t *Test) Status() TestStatus {
	if t.Passed() {
		return TestStatusPass
	}
	return TestStatusFail
}

package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/crucible/types"
)

func TestResultRecord(t *testing.T) {
	r := &Result{RunID: "run", Seed: 9}

	passing := &types.Test{ID: 0, Name: "ok"}
	failing := &types.Test{ID: 1, Name: "broken"}
	failing.Record(types.Failure{Got: "1", Expected: "2"})

	r.Record(passing)
	r.Record(failing)

	assert.Equal(t, 2, r.Stats.Total)
	assert.Equal(t, 1, r.Stats.Passed)
	assert.Equal(t, 1, r.Stats.Failed)
	assert.False(t, r.Passed())
	assert.Equal(t, types.TestStatusFail, r.Status())

	failed := r.FailedTests()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].Name)
}

func TestEmptyRunPasses(t *testing.T) {
	r := &Result{}
	assert.True(t, r.Passed())
	assert.Equal(t, types.TestStatusPass, r.Status())
	assert.Empty(t, r.FailedTests())
}

func TestResultString(t *testing.T) {
	r := &Result{Seed: 17, Duration: 250 * time.Millisecond}
	failing := &types.Test{
		Name:       "broken",
		SourcePath: "example.com/mod/suite/b.go",
		SourceLine: 12,
	}
	failing.Record(types.Failure{Got: "1", Expected: "2", SourcePath: "example.com/mod/suite/b.go", SourceLine: 13})
	r.Record(&types.Test{Name: "ok"})
	r.Record(failing)

	s := r.String()
	assert.Contains(t, s, "Total: 2, Passed: 1, Failed: 1, Seed: 17")
	assert.Contains(t, s, "✗ broken (example.com/mod/suite/b.go:12)")
	assert.Contains(t, s, `expected "2", got "1"`)
	assert.NotContains(t, s, "✗ ok")
}

package assert

import (
	"strings"
	"testing"

	stassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/crucible/types"
)

func TestEqual(t *testing.T) {
	test := &types.Test{Name: "equal"}

	Equal(test, 4, 4)
	stassert.Empty(t, test.Failures)

	Equal(test, 1, 2)
	require.Len(t, test.Failures, 1)
	stassert.Equal(t, "1", test.Failures[0].Got)
	stassert.Equal(t, "2", test.Failures[0].Expected)
}

func TestEqualStrings(t *testing.T) {
	test := &types.Test{Name: "equal strings"}
	Equal(test, "got", "want")
	require.Len(t, test.Failures, 1)
	stassert.Equal(t, "got", test.Failures[0].Got)
	stassert.Equal(t, "want", test.Failures[0].Expected)
}

func TestNotEqual(t *testing.T) {
	test := &types.Test{Name: "not equal"}

	NotEqual(test, "a", "b")
	stassert.Empty(t, test.Failures)

	NotEqual(test, "a", "a")
	require.Len(t, test.Failures, 1)
	stassert.Equal(t, "a", test.Failures[0].Got)
	stassert.Equal(t, "!= a", test.Failures[0].Expected)
}

func TestGreater(t *testing.T) {
	test := &types.Test{Name: "greater"}

	Greater(test, 10, 3)
	stassert.Empty(t, test.Failures)

	Greater(test, 3, 3)
	Greater(test, 2, 3)
	require.Len(t, test.Failures, 2)
	stassert.Equal(t, "3", test.Failures[0].Got)
	stassert.Equal(t, "> 3", test.Failures[0].Expected)
}

func TestTrueFalse(t *testing.T) {
	test := &types.Test{Name: "booleans"}

	True(test, true)
	False(test, false)
	stassert.Empty(t, test.Failures)

	True(test, false)
	False(test, true)
	require.Len(t, test.Failures, 2)
	stassert.Equal(t, "false", test.Failures[0].Got)
	stassert.Equal(t, "true", test.Failures[0].Expected)
	stassert.Equal(t, "true", test.Failures[1].Got)
	stassert.Equal(t, "false", test.Failures[1].Expected)
}

// Failing assertions never abort the body: every independent mismatch
// lands in the ledger, in call order.
func TestFailuresAccumulate(t *testing.T) {
	test := &types.Test{Name: "accumulate"}

	Equal(test, 1, 2)
	Equal(test, 2, 2)
	True(test, false)
	Greater(test, 0, 1)

	require.Len(t, test.Failures, 3)
	stassert.Equal(t, "1", test.Failures[0].Got)
	stassert.Equal(t, "false", test.Failures[1].Got)
	stassert.Equal(t, "0", test.Failures[2].Got)
}

func TestFailureLocationIsCallSite(t *testing.T) {
	test := &types.Test{Name: "location"}
	Equal(test, 1, 2)

	require.Len(t, test.Failures, 1)
	f := test.Failures[0]
	stassert.True(t, strings.HasSuffix(f.SourcePath, "assert_test.go"),
		"failure should point at the calling test file, got %q", f.SourcePath)
	stassert.Greater(t, f.SourceLine, 0)
}

// helper wraps an assertion the way suite authors write shared checks.
// The recorded location must still be inside this file, not assert.go.
func requirePositive(test *types.Test, v int) {
	Greater(test, v, 0)
}

func TestHelperFunctionsKeepCallerAttribution(t *testing.T) {
	test := &types.Test{Name: "helper"}
	requirePositive(test, -1)

	require.Len(t, test.Failures, 1)
	stassert.True(t, strings.HasSuffix(test.Failures[0].SourcePath, "assert_test.go"))
}

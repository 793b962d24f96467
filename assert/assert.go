// Package assert provides the assertion operations recorded against a
// test's failure ledger. A failing assertion appends one Failure and
// returns; it never panics or short-circuits the remaining test body, so a
// test with five independent checks reports all five mismatches.
package assert

import (
	"cmp"
	"fmt"
	"runtime"

	"github.com/forgeworks/crucible/stack"
	"github.com/forgeworks/crucible/types"
)

// ownFile is this package's source file, used to skip the assertion
// machinery itself when attributing a failure to a call site.
var ownFile string

func init() {
	_, ownFile, _, _ = runtime.Caller(0)
}

// callSite resolves the location of the failing assertion. Frames inside
// this package are skipped so that assertions invoked through user helper
// functions still point at user code.
func callSite() stack.Frame {
	return stack.CallSite(2, func(path string) bool {
		return path == ownFile
	})
}

func record(t *types.Test, got, expected string) {
	site := callSite()
	t.Record(types.Failure{
		Got:        got,
		Expected:   expected,
		SourcePath: site.Path,
		SourceLine: site.Line,
	})
}

// Equal records a failure unless got equals expected
func Equal[T comparable](t *types.Test, got, expected T) {
	if got == expected {
		return
	}
	record(t, fmt.Sprintf("%v", got), fmt.Sprintf("%v", expected))
}

// NotEqual records a failure when got equals unwanted
func NotEqual[T comparable](t *types.Test, got, unwanted T) {
	if got != unwanted {
		return
	}
	record(t, fmt.Sprintf("%v", got), fmt.Sprintf("!= %v", unwanted))
}

// Greater records a failure unless got is strictly greater than threshold
func Greater[T cmp.Ordered](t *types.Test, got, threshold T) {
	if got > threshold {
		return
	}
	record(t, fmt.Sprintf("%v", got), fmt.Sprintf("> %v", threshold))
}

// True records a failure unless v is true
func True(t *types.Test, v bool) {
	if v {
		return
	}
	record(t, "false", "true")
}

// False records a failure unless v is false
func False(t *types.Test, v bool) {
	if !v {
		return
	}
	record(t, "true", "false")
}

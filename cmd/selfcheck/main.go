// selfcheck exercises the engine against itself: a small suite covering
// passing tests, accumulated assertion failures, and crash isolation.
// Run it with --filter, --seed or --reporter to try the CLI surface.
package main

import (
	"strings"
	"time"

	"github.com/forgeworks/crucible"
	"github.com/forgeworks/crucible/assert"
	"github.com/forgeworks/crucible/registry"
	"github.com/forgeworks/crucible/types"
)

func main() {
	reg := registry.New(registry.Config{})

	reg.Register("arithmetic", func(t *types.Test) {
		assert.Equal(t, 2+2, 4)
		assert.Greater(t, 10, 3)
	})

	reg.Register("strings", func(t *types.Test) {
		assert.True(t, strings.HasPrefix("selfcheck", "self"))
		assert.NotEqual(t, "a", "b")
	})

	reg.Register("slow", func(t *types.Test) {
		time.Sleep(50 * time.Millisecond)
		assert.False(t, false)
	})

	// Two assertions fail here; both land in the ledger and the summary.
	reg.Register("expected failure", func(t *types.Test) {
		assert.Equal(t, 1, 2)
		assert.Equal(t, "got", "want")
		assert.True(t, true)
	})

	reg.ExpectCrash("index out of range crashes", func() {
		var empty []int
		_ = empty[3]
	})

	reg.ExpectNoCrash("recovered panic does not crash", func() {
		defer func() { _ = recover() }()
		panic("contained")
	})

	crucible.Main("selfcheck", reg)
}

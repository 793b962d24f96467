package runner

import (
	"math/rand/v2"

	"github.com/forgeworks/crucible/types"
)

// Plan produces the execution sequence for a run: the registered tests
// matching the filter, permuted by an unbiased Fisher-Yates shuffle seeded
// by the run's seed. For a fixed seed and filtered set the order is
// reproducible across runs.
func Plan(tests []*types.Test, filter types.Filter, seed uint64) []*types.Test {
	var selected []*types.Test
	for _, t := range tests {
		if filter.Matches(t) {
			selected = append(selected, t)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// RandomSeed draws a seed for runs that did not specify one explicitly.
// Whatever seed is used, it is surfaced in the final report so a failing
// order can be reproduced.
func RandomSeed() uint64 {
	return rand.Uint64()
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterMatches(t *testing.T) {
	alpha := &Test{Name: "alpha handles zero", SourcePath: "example.com/mod/suite/alpha.go"}
	beta := &Test{Name: "beta rejects nil", SourcePath: "example.com/mod/suite/beta.go"}

	tests := []struct {
		name      string
		filter    Filter
		wantAlpha bool
		wantBeta  bool
	}{
		{"no filter matches everything", NoFilter(), true, true},
		{"pattern substring", PatternFilter("alpha"), true, false},
		{"pattern shared substring", PatternFilter("e"), true, true},
		{"pattern no match", PatternFilter("gamma"), false, false},
		{"empty pattern matches everything", PatternFilter(""), true, true},
		{"location exact", LocationFilter("example.com/mod/suite/beta.go"), false, true},
		{"location is not a substring match", LocationFilter("suite/beta.go"), false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantAlpha, tc.filter.Matches(alpha))
			assert.Equal(t, tc.wantBeta, tc.filter.Matches(beta))
		})
	}
}

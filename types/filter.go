package types

import "strings"

// FilterKind identifies which filter variant is active for a run
type FilterKind string

const (
	// FilterNone matches every registered test
	FilterNone FilterKind = "none"
	// FilterPattern matches tests whose name contains a substring
	FilterPattern FilterKind = "pattern"
	// FilterLocation matches tests whose source path equals a path exactly
	FilterLocation FilterKind = "location"
)

// Filter selects which registered tests run in a given invocation.
// Exactly one variant is active per run; filters are never combined.
type Filter struct {
	Kind  FilterKind
	Value string
}

// NoFilter returns the filter that matches everything
func NoFilter() Filter {
	return Filter{Kind: FilterNone}
}

// PatternFilter returns a filter matching tests whose name contains substr
func PatternFilter(substr string) Filter {
	return Filter{Kind: FilterPattern, Value: substr}
}

// LocationFilter returns a filter matching tests registered from exactly
// the given canonical source path
func LocationFilter(path string) Filter {
	return Filter{Kind: FilterLocation, Value: path}
}

// Matches reports whether the test is selected by the filter
func (f Filter) Matches(t *Test) bool {
	switch f.Kind {
	case FilterPattern:
		return strings.Contains(t.Name, f.Value)
	case FilterLocation:
		return t.SourcePath == f.Value
	default:
		return true
	}
}

// Package exitcodes defines the standard exit codes used by crucible.
package exitcodes

// Exit code constants used by the engine and by child processes spawned
// for crash-isolation tests:
//
// * Success (0): all tests passed (or the filtered set was empty)
// * TestFailure (1): one or more tests recorded failures
// * RuntimeErr (2): infrastructure failures such as a broken harness,
//   configuration errors or panics inside the engine itself
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)

// FatalError is the status a process exits with when the Go runtime
// terminates it through its fatal-error path (an unrecovered panic).
// The crash-isolation harness compares a child's exit status against
// this constant to decide whether the child crashed.
const FatalError = 2

// Package fork is the crash-isolation harness. Verifying that code fails
// fatally cannot be done in-process, because an unrecovered panic would
// terminate the whole run. Instead the harness re-invokes the current
// executable with an environment variable selecting a single registered
// child closure, and translates the child's exit status into a verdict.
package fork

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/forgeworks/crucible/exitcodes"
	"github.com/forgeworks/crucible/types"
)

// EnvChildIndex is the environment variable carrying the child-table index
// a spawned copy of the test executable should run. The engine's entry
// point checks it before doing anything else.
const EnvChildIndex = "CRUCIBLE_FORK_INDEX"

// Output captures a finished child process
type Output struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// Crashed reports whether the child terminated through the runtime's
// fatal-error path
func (o Output) Crashed() bool {
	return o.ExitStatus == exitcodes.FatalError
}

// LastStderrLine returns the last non-empty line of the child's stderr,
// with ANSI escape sequences stripped, or a generic message when the child
// wrote nothing.
func (o Output) LastStderrLine() string {
	lines := strings.Split(stripansi.Strip(o.Stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no output produced on stderr"
}

// ArtifactSink stores a child's captured output for later inspection.
// Implemented by logging.FileLogger.
type ArtifactSink interface {
	SaveChildOutput(testID int, out Output) error
}

// InfraError signals that the harness itself is broken (the child could
// not be spawned or waited for). It is deliberately not converted into a
// test Failure: it aborts the entire run.
type InfraError struct {
	Index int
	Err   error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("crash isolation harness: child %d: %v", e.Index, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Process spawns the isolated child registered under Index. A Process is
// handed to fork-style test wrappers by the registry.
type Process struct {
	Index     int
	Stdin     string       // optional payload written to the child's stdin
	Log       log.Logger
	Artifacts ArtifactSink // optional, stores captured output per test
}

// Spawn re-executes the current binary restricted to the child closure for
// p.Index, waits for it, and returns its exit status and captured streams.
// A spawn or wait error is returned as is; callers treat it as fatal.
func (p *Process) Spawn() (Output, error) {
	exe, err := os.Executable()
	if err != nil {
		return Output{}, fmt.Errorf("resolving executable: %w", err)
	}

	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", EnvChildIndex, p.Index))
	if p.Stdin != "" {
		cmd.Stdin = strings.NewReader(p.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if p.Log != nil {
		p.Log.Debug("Spawning isolated child", "index", p.Index, "executable", exe)
	}

	runErr := cmd.Run()
	status := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return Output{}, fmt.Errorf("waiting for child: %w", runErr)
		}
		status = exitErr.ExitCode()
	}

	out := Output{
		ExitStatus: status,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}
	if p.Log != nil {
		p.Log.Debug("Child finished", "index", p.Index, "exitStatus", out.ExitStatus)
	}
	return out, nil
}

// ExpectCrash runs the child and records a failure on t unless it
// terminated through the fatal-error path. Harness errors abort the run.
func ExpectCrash(t *types.Test, p *Process) {
	out := p.mustSpawn(t)
	VerdictCrash(t, out)
}

// ExpectNoCrash runs the child and records a failure on t when it
// terminated through the fatal-error path. Harness errors abort the run.
func ExpectNoCrash(t *types.Test, p *Process) {
	out := p.mustSpawn(t)
	VerdictNoCrash(t, out)
}

func (p *Process) mustSpawn(t *types.Test) Output {
	out, err := p.Spawn()
	if err != nil {
		// The harness is broken, not the test under evaluation; abort the
		// whole run rather than downgrade this to a Failure.
		panic(&InfraError{Index: p.Index, Err: err})
	}
	if p.Artifacts != nil {
		if serr := p.Artifacts.SaveChildOutput(t.ID, out); serr != nil && p.Log != nil {
			p.Log.Warn("Failed to store child output", "test", t.Name, "error", serr)
		}
	}
	return out
}

// VerdictCrash translates a child's output for a "must crash" test. The
// failure is attributed to the parent-side test's location, since the
// child has no access to the parent's call stack.
func VerdictCrash(t *types.Test, out Output) {
	if out.Crashed() {
		return
	}
	t.RecordHere(
		fmt.Sprintf("exit status %d", out.ExitStatus),
		fmt.Sprintf("exit status %d", exitcodes.FatalError),
	)
}

// VerdictNoCrash translates a child's output for a "must not crash" test
func VerdictNoCrash(t *types.Test, out Output) {
	if !out.Crashed() {
		return
	}
	t.RecordHere(
		out.LastStderrLine(),
		fmt.Sprintf("an exit status other than %d", exitcodes.FatalError),
	)
}

// Package logging stores run artifacts on disk: captured output of
// isolated child processes and the final run summary, grouped per run.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/forgeworks/crucible/fork"
)

// FileLogger writes artifacts for one run into <baseDir>/<runID>/.
// Child output file names are derived from the owning test's numeric id,
// which is stable for the process run and safe in file names.
type FileLogger struct {
	baseDir string
	runID   string

	mu sync.Mutex
}

// NewFileLogger creates a logger rooted at baseDir. When runID is empty a
// new one is generated.
func NewFileLogger(baseDir string, runID string) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	l := &FileLogger{baseDir: baseDir, runID: runID}
	if err := os.MkdirAll(l.RunDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	return l, nil
}

// RunID returns the identifier of the run this logger stores artifacts for
func (l *FileLogger) RunID() string {
	return l.runID
}

// BaseDir returns the root directory artifacts are stored under
func (l *FileLogger) BaseDir() string {
	return l.baseDir
}

// RunDir returns the directory holding this run's artifacts
func (l *FileLogger) RunDir() string {
	return filepath.Join(l.baseDir, l.runID)
}

// SaveChildOutput stores a child process's captured streams and exit
// status. Implements fork.ArtifactSink.
func (l *FileLogger) SaveChildOutput(testID int, out fork.Output) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	base := filepath.Join(l.RunDir(), fmt.Sprintf("child-%d", testID))
	if err := os.WriteFile(base+".stdout", []byte(out.Stdout), 0o644); err != nil {
		return fmt.Errorf("writing child stdout: %w", err)
	}
	if err := os.WriteFile(base+".stderr", []byte(out.Stderr), 0o644); err != nil {
		return fmt.Errorf("writing child stderr: %w", err)
	}
	status := fmt.Sprintf("exit status %d\n", out.ExitStatus)
	if err := os.WriteFile(base+".status", []byte(status), 0o644); err != nil {
		return fmt.Errorf("writing child status: %w", err)
	}
	return nil
}

// SaveSummary stores the final human-readable run summary
func (l *FileLogger) SaveSummary(summary string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.RunDir(), "summary.log")
	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

var _ fork.ArtifactSink = (*FileLogger)(nil)

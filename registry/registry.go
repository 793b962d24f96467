// Package registry holds the registered test descriptors for a run and the
// child-closure table used by crash-isolation tests.
package registry

import (
	"runtime"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/forgeworks/crucible/fork"
	"github.com/forgeworks/crucible/stack"
	"github.com/forgeworks/crucible/types"
)

// ownFile is the registry's source file. Location capture walks outward
// past frames in this file so a test points at the code that registered it.
var ownFile string

func init() {
	_, ownFile, _, _ = runtime.Caller(0)
}

// Config contains registry configuration
type Config struct {
	Log log.Logger
}

// Registry is an explicit, constructed object passed through the program's
// entry point; there is no hidden process-wide singleton. Source files that
// want to self-register tests expose a registration function invoked by a
// composing entry point instead.
type Registry struct {
	config    Config
	mu        sync.Mutex
	tests     []*types.Test
	children  []func()
	artifacts fork.ArtifactSink
}

// New creates a new registry instance
func New(cfg Config) *Registry {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	return &Registry{config: cfg}
}

// Register adds a test case and returns its id. Ids increase monotonically
// from 0 and are stable for the process run; the source location is
// captured here, once, from the first call-stack frame outside the
// registry's own machinery.
func (r *Registry) Register(name string, body types.Body) int {
	// Start the walk at Register's caller; the predicate skips the
	// RegisterFork/ExpectCrash frames when registration went through them.
	site := stack.CallSite(1, func(path string) bool {
		return path == ownFile
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	id := len(r.tests)
	r.tests = append(r.tests, &types.Test{
		ID:         id,
		Name:       name,
		SourcePath: CanonicalPath(site.Path),
		SourceLine: site.Line,
		Body:       body,
	})
	r.config.Log.Debug("Registered test", "id", id, "name", name, "source", site.Path, "line", site.Line)
	return id
}

// RegisterFork allocates the next child-table index for childBody and
// registers wrapper as the visible test. The wrapper receives a helper
// capable of spawning the isolated child for that index, which lets
// crash-expectation semantics be expressed as ordinary test bodies.
func (r *Registry) RegisterFork(name string, childBody func(), wrapper func(*types.Test, *fork.Process)) int {
	r.mu.Lock()
	index := len(r.children)
	r.children = append(r.children, childBody)
	r.mu.Unlock()

	return r.Register(name, func(t *types.Test) {
		wrapper(t, &fork.Process{
			Index:     index,
			Log:       r.config.Log,
			Artifacts: r.artifacts,
		})
	})
}

// ExpectCrash registers a test that passes only when childBody terminates
// the child process through the runtime's fatal-error path
func (r *Registry) ExpectCrash(name string, childBody func()) int {
	return r.RegisterFork(name, childBody, fork.ExpectCrash)
}

// ExpectNoCrash registers a test that passes only when childBody lets the
// child process exit normally
func (r *Registry) ExpectNoCrash(name string, childBody func()) int {
	return r.RegisterFork(name, childBody, fork.ExpectNoCrash)
}

// SetArtifacts sets the sink that stores child output captured by
// fork-style tests. Must be called before the run starts.
func (r *Registry) SetArtifacts(sink fork.ArtifactSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = sink
}

// Tests returns the registered tests in registration order
func (r *Registry) Tests() []*types.Test {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Test, len(r.tests))
	copy(out, r.tests)
	return out
}

// Child returns the child closure stored under index. The child table is
// built before any worker starts and read-only afterwards.
func (r *Registry) Child(index int) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.children) {
		return nil, false
	}
	return r.children[index], true
}

package gha

import "sync"

// DefaultName is the name of the pipeline that Define and the step builders
// attach to when no explicit pipeline is given.
const DefaultName = "default"

var (
	registryMu sync.Mutex
	registry   = make(map[string]*Pipeline)
)

// Default returns the process-wide default pipeline, creating it on first
// use.
func Default() *Pipeline {
	return Register(DefaultName)
}

// Register returns the named pipeline from the process-wide registry,
// creating it if absent. Registering an existing name is a no-op that
// returns the existing pipeline.
func Register(name string) *Pipeline {
	registryMu.Lock()
	defer registryMu.Unlock()

	p, ok := registry[name]
	if !ok {
		p = New(name)
		registry[name] = p
	}

	return p
}

// Get returns the named pipeline without creating it.
func Get(name string) (*Pipeline, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	p, ok := registry[name]

	return p, ok
}

// Reset drops every registered pipeline and the declarative builder state.
// Test support: call it between test cases that use the default registry.
func Reset() {
	registryMu.Lock()
	registry = make(map[string]*Pipeline)
	registryMu.Unlock()

	activeJob = nil
	lastJob = nil
	lastWasStep = false
}

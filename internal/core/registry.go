package core

import (
	"sync"
)

// SharedDouble returns the double named name for the given test, creating one if
// needed. Every caller passing the same TestReporter and name gets the same
// Double, so all instances of a generated spy type share one ledger and action
// table, the way static members share state across instances.
//
// If the TestReporter supports Cleanup (like *testing.T), the double is removed
// from the registry when the test completes.
func SharedDouble(t TestReporter, name string) *Double {
	key := sharedKey{t: t, name: name}

	registryMu.Lock()
	defer registryMu.Unlock()

	if double, ok := registry[key]; ok {
		return double
	}

	double := NewDouble(t, name)
	registry[key] = double

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, key)
			registryMu.Unlock()
		})
	}

	return double
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for per-test sharing
	registry = make(map[sharedKey]*Double)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

type sharedKey struct {
	t    TestReporter
	name string
}

// isShared reports whether a shared double is registered for t and name.
func isShared(t TestReporter, name string) bool {
	registryMu.Lock()
	defer registryMu.Unlock()

	_, ok := registry[sharedKey{t: t, name: name}]

	return ok
}

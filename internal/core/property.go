package core

import (
	"sync"
	"time"
)

// Snapshot is one recorded write to a Property.
type Snapshot[T any] struct {
	Value T
	At    time.Time
}

// Property is an observable value on a double that remembers every write.
// Tests can assert on the whole sequence of values it took, not just the last one.
type Property[T any] struct {
	name  string
	clock Clock

	mu      sync.Mutex
	current T
	history []Snapshot[T]
}

// NewProperty creates a property named name, stamped by the double's clock.
func NewProperty[T any](d *Double, name string) *Property[T] {
	return &Property[T]{name: name, clock: d.clock}
}

// Get returns the current value, or the zero value if it was never written.
func (p *Property[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// History returns every write, oldest first.
func (p *Property[T]) History() []Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	history := make([]Snapshot[T], len(p.history))
	copy(history, p.history)

	return history
}

// Name returns the property name.
func (p *Property[T]) Name() string {
	return p.name
}

// Set writes value and appends it to the history.
func (p *Property[T]) Set(value T) {
	at := p.clock.Now()

	p.mu.Lock()
	p.current = value
	p.history = append(p.history, Snapshot[T]{Value: value, At: at})
	p.mu.Unlock()
}

// Values returns the written values, oldest first.
func (p *Property[T]) Values() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := make([]T, 0, len(p.history))
	for _, snap := range p.history {
		values = append(values, snap.Value)
	}

	return values
}

// Writes returns how many times the property was written.
func (p *Property[T]) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.history)
}

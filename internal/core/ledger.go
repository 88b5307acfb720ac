package core

import (
	"iter"
	"slices"
	"sync"
)

// Ledger is the append-only history of invocations for one double.
//
// Retrieval is ordered by invocation timestamp, not by recording position, so an
// invocation built earlier but recorded later still comes out first. Invocations
// with equal timestamps keep the order in which they were recorded.
type Ledger struct {
	mu          sync.Mutex
	invocations []*Invocation
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// All yields every recorded invocation in timestamp order.
// The sequence can be ranged over repeatedly; each pass reflects the ledger as it
// is when the pass starts.
func (l *Ledger) All() iter.Seq[*Invocation] {
	return func(yield func(*Invocation) bool) {
		for _, inv := range l.sorted() {
			if !yield(inv) {
				return
			}
		}
	}
}

// Count returns how many recorded invocations have identifier id.
func (l *Ledger) Count(id MethodID) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0

	for _, inv := range l.invocations {
		if inv.Method == id {
			count++
		}
	}

	return count
}

// Find yields the invocations with identifier id, in the same order as All.
func (l *Ledger) Find(id MethodID) iter.Seq[*Invocation] {
	return func(yield func(*Invocation) bool) {
		for inv := range l.All() {
			if inv.Method != id {
				continue
			}

			if !yield(inv) {
				return
			}
		}
	}
}

// IsInvoked reports whether at least one invocation with identifier id was recorded.
func (l *Ledger) IsInvoked(id MethodID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.ContainsFunc(l.invocations, func(inv *Invocation) bool {
		return inv.Method == id
	})
}

// Last returns the latest invocation with identifier id.
func (l *Ledger) Last(id MethodID) (*Invocation, bool) {
	var last *Invocation

	for inv := range l.Find(id) {
		last = inv
	}

	return last, last != nil
}

// Len returns the number of recorded invocations.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.invocations)
}

// Record appends inv. Nothing is deduplicated.
func (l *Ledger) Record(inv *Invocation) {
	l.mu.Lock()
	l.invocations = append(l.invocations, inv)
	l.mu.Unlock()
}

// sorted returns a timestamp-ordered copy of the recorded invocations.
func (l *Ledger) sorted() []*Invocation {
	l.mu.Lock()
	snapshot := slices.Clone(l.invocations)
	l.mu.Unlock()

	// stable: equal timestamps keep recording order
	slices.SortStableFunc(snapshot, func(a, b *Invocation) int {
		return a.Time.Compare(b.Time)
	})

	return snapshot
}

// Matching yields the invocations of id whose parameters match expected, in the
// same order as All. Expected values may be plain values or Matchers.
func (l *Ledger) Matching(id MethodID, expected map[string]any) iter.Seq[*Invocation] {
	return func(yield func(*Invocation) bool) {
		for inv := range l.Find(id) {
			if ok, _ := MatchParameters(inv, expected); !ok {
				continue
			}

			if !yield(inv) {
				return
			}
		}
	}
}

// Package impspy provides recording test doubles for Go.
// A double records every call it receives, answers from canned return values
// and errors, and lets tests assert on the recorded history afterward.
//
// This is the public API entry point. Implementation lives in internal/core.
package impspy

import (
	"time"

	"github.com/toejough/impspy/internal/core"
)

// Types re-exported from internal/core.

// ActionTable holds the canned return values and errors configured per method.
type ActionTable = core.ActionTable

// Clock stamps invocations and property writes.
type Clock = core.Clock

// Double is the substrate every recording double is built on.
type Double = core.Double

// ErrorPolicy decides whether a configured error or return value wins.
type ErrorPolicy = core.ErrorPolicy

// Invocation is one recorded call against a double.
type Invocation = core.Invocation

// Ledger is the timestamp-ordered history of invocations for one double.
type Ledger = core.Ledger

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// MethodID names one operation on one double type.
type MethodID = core.MethodID

// Outcome is what the action table resolved for one call.
type Outcome = core.Outcome

// OutcomeKind tags an Outcome.
type OutcomeKind = core.OutcomeKind

// Parameter is one named argument handed to Double.Call.
type Parameter = core.Parameter

// Property is an observable value on a double that remembers every write.
type Property[T any] = core.Property[T]

// Snapshot is one recorded write to a Property.
type Snapshot[T any] = core.Snapshot[T]

// TestReporter is the minimal interface impspy needs from test frameworks.
type TestReporter = core.TestReporter

// ErrorPolicy and OutcomeKind values re-exported from internal/core.
const (
	ErrorFirst = core.ErrorFirst
	ValueFirst = core.ValueFirst

	OutcomeAbsent = core.OutcomeAbsent
	OutcomeValue  = core.OutcomeValue
	OutcomeError  = core.OutcomeError
)

// Functions re-exported from internal/core.

// DisambiguateMethodIDs turns operation names into identifiers unique within one double.
func DisambiguateMethodIDs(names []string) []MethodID {
	return core.DisambiguateMethodIDs(names)
}

// FillFuncs replaces every nil func field of the struct target points to with a
// recording function, and returns the identifiers it used.
func FillFuncs(d *Double, target any) []MethodID {
	return core.FillFuncs(d, target)
}

// Func builds a recording function of type F whose calls are recorded under id.
func Func[F any](d *Double, id MethodID, paramNames ...string) F {
	return core.Func[F](d, id, paramNames...)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// NewActionTable creates an empty action table.
func NewActionTable() *ActionTable {
	return core.NewActionTable()
}

// NewDouble creates a double named name.
func NewDouble(t TestReporter, name string) *Double {
	return core.NewDouble(t, name)
}

// NewDoubleWithClock creates a double with a custom clock.
func NewDoubleWithClock(t TestReporter, name string, clock Clock) *Double {
	return core.NewDoubleWithClock(t, name, clock)
}

// NewInvocation creates an invocation of method stamped with at.
func NewInvocation(method MethodID, at time.Time) *Invocation {
	return core.NewInvocation(method, at)
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return core.NewLedger()
}

// NewProperty creates a property named name on double d.
func NewProperty[T any](d *Double, name string) *Property[T] {
	return core.NewProperty[T](d, name)
}

// OptionalParam builds a parameter that is recorded only when value is not nil.
func OptionalParam(key string, value any) Parameter {
	return core.OptionalParam(key, value)
}

// Param builds a parameter that is always recorded.
func Param(key string, value any) Parameter {
	return core.Param(key, value)
}

// PropertyValue converts an outcome for a property getter.
func PropertyValue[T any](d *Double, outcome Outcome, prop *Property[T]) T {
	return core.PropertyValue(d, outcome, prop)
}

// SharedDouble returns the double named name for t, creating it if needed.
func SharedDouble(t TestReporter, name string) *Double {
	return core.SharedDouble(t, name)
}

// Value converts an outcome for an operation without an error result.
func Value[T any](d *Double, outcome Outcome) T {
	return core.Value[T](d, outcome)
}

// ValueErr converts an outcome for an operation whose last result is an error.
func ValueErr[T any](d *Double, outcome Outcome) (T, error) {
	return core.ValueErr[T](d, outcome)
}

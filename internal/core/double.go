// Package core provides the internal implementation of impspy's recording
// doubles: invocations, the ledger, the action table, and property history.
package core

import (
	"reflect"
	"strings"
	"time"
)

// Clock stamps invocations and property writes.
type Clock interface {
	Now() time.Time
}

// Double is the substrate every recording double is built on.
// It records each call in its Ledger and answers from its ActionTable.
type Double struct {
	*Ledger
	*ActionTable

	t     TestReporter
	name  string
	clock Clock
}

// NewDouble creates a double named name that stamps calls with the wall clock.
func NewDouble(t TestReporter, name string) *Double {
	return NewDoubleWithClock(t, name, realClock{})
}

// NewDoubleWithClock creates a double with a custom clock, for deterministic timestamps.
func NewDoubleWithClock(t TestReporter, name string, clock Clock) *Double {
	return &Double{
		Ledger:      NewLedger(),
		ActionTable: NewActionTable(),
		t:           t,
		name:        name,
		clock:       clock,
	}
}

// AssertCount fails the test unless id was invoked exactly want times.
func (d *Double) AssertCount(id MethodID, want int) {
	d.t.Helper()

	got := d.Count(id)
	if got != want {
		d.t.Fatalf("%s.%s: expected %d invocation(s), got %d%s", d.name, id, want, got, d.describeCalls(id))
	}
}

// AssertInvoked fails the test unless id was invoked at least once.
func (d *Double) AssertInvoked(id MethodID) {
	d.t.Helper()

	if !d.IsInvoked(id) {
		d.t.Fatalf("%s.%s: expected to be invoked, but it was not%s", d.name, id, d.describeAll())
	}
}

// AssertInvokedWith fails the test unless some invocation of id carried a
// parameter key matching expected. expected may be a plain value, compared
// with reflect.DeepEqual, or a Matcher such as a gomega matcher.
func (d *Double) AssertInvokedWith(id MethodID, key string, expected any) {
	d.t.Helper()

	var mismatches []string

	for inv := range d.Find(id) {
		actual, ok := inv.Parameter(key)
		if !ok {
			mismatches = append(mismatches, inv.String()+": no parameter "+key)

			continue
		}

		matched, msg := MatchValue(actual, expected)
		if matched {
			return
		}

		mismatches = append(mismatches, inv.String()+": "+msg)
	}

	if len(mismatches) == 0 {
		d.t.Fatalf("%s.%s: expected an invocation with %s, but it was never invoked", d.name, id, key)

		return
	}

	d.t.Fatalf("%s.%s: no invocation matched %s:\n  %s", d.name, id, key, strings.Join(mismatches, "\n  "))
}

// AssertNotInvoked fails the test if id was invoked.
func (d *Double) AssertNotInvoked(id MethodID) {
	d.t.Helper()

	if d.IsInvoked(id) {
		d.t.Fatalf("%s.%s: expected no invocations%s", d.name, id, d.describeCalls(id))
	}
}

// Call records an invocation of id carrying params and returns what the action
// table resolves for it. Parameters built with OptionalParam are skipped when nil.
func (d *Double) Call(id MethodID, params ...Parameter) Outcome {
	inv := NewInvocation(id, d.clock.Now())

	for _, param := range params {
		if param.present {
			inv.SetParameter(param.Key, param.Value)
		}
	}

	d.Record(inv)

	return d.Resolve(id)
}

// Name returns the name the double reports failures under.
func (d *Double) Name() string {
	return d.name
}

// describeAll lists every recorded call, for failure messages.
func (d *Double) describeAll() string {
	var lines []string
	for inv := range d.All() {
		lines = append(lines, inv.String())
	}

	return formatCalls(lines)
}

// describeCalls lists the recorded calls of id, for failure messages.
func (d *Double) describeCalls(id MethodID) string {
	var lines []string
	for inv := range d.Find(id) {
		lines = append(lines, inv.String())
	}

	return formatCalls(lines)
}

// PropertyValue converts an outcome for a property getter. Unless a value or
// error was configured for the getter, the property's current value is returned.
func PropertyValue[T any](d *Double, outcome Outcome, prop *Property[T]) T {
	if outcome.kind == OutcomeAbsent {
		return prop.Get()
	}

	return Value[T](d, outcome)
}

// TestReporter is the minimal interface impspy needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Value converts an outcome for an operation without an error result.
// Absent yields the zero value. An error outcome panics with the error. A value
// of the wrong type is a misconfigured double and fails the test.
func Value[T any](d *Double, outcome Outcome) T {
	switch outcome.kind {
	case OutcomeError:
		panic(outcome.err)
	case OutcomeValue:
		return castValue[T](d, outcome)
	default:
		var zero T

		return zero
	}
}

// ValueErr converts an outcome for an operation whose last result is an error.
func ValueErr[T any](d *Double, outcome Outcome) (T, error) {
	if outcome.kind == OutcomeError {
		var zero T

		return zero, outcome.err
	}

	return Value[T](d, outcome), nil
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// castValue asserts the outcome's value to T, failing the test on mismatch.
func castValue[T any](d *Double, outcome Outcome) T {
	var zero T

	// untyped nil configured for a nilable result
	if outcome.value == nil && isNilable(reflect.TypeFor[T]()) {
		return zero
	}

	value, ok := outcome.value.(T)
	if !ok {
		d.t.Helper()
		d.t.Fatalf(
			"%s.%s: configured return value has type %T, but the method returns %s",
			d.name, outcome.method, outcome.value, reflect.TypeFor[T](),
		)

		return zero
	}

	return value
}

func isNilable(typ reflect.Type) bool {
	switch typ.Kind() { //nolint:exhaustive // only kinds that can hold nil
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func formatCalls(lines []string) string {
	if len(lines) == 0 {
		return " (no calls recorded)"
	}

	return "; recorded calls:\n  " + strings.Join(lines, "\n  ")
}

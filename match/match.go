// Package match provides matchers for use with impspy's parameter assertions
// and ledger queries. Its matchers work anywhere a gomega matcher does in
// impspy, and gomega matchers work as their expected values:
//
//	spy.AssertInvokedWith(TodoRepositorySpySetItem, "item", match.BeAny)
//	ok, _ := match.HaveParameter("title", HavePrefix("Buy")).Match(last)
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/impspy/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when a parameter must be recorded but its value does not matter.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeInvocationOf returns a matcher for an *impspy.Invocation of method id.
func BeInvocationOf(id core.MethodID) Matcher {
	return &methodMatcher{id: id}
}

// HaveParameter returns a matcher for an *impspy.Invocation that recorded a
// parameter key whose value matches expected. expected may be a plain value or
// another matcher.
//
// Example:
//
//	ok, _ := match.HaveParameter("title", HavePrefix("Buy")).Match(inv)
func HaveParameter(key string, expected any) Matcher {
	return &parameterMatcher{key: key, expected: expected}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	spy.AssertInvokedWith(RepoSpyInsert, "position", match.Satisfy(func(p int) error {
//	    if p < 0 { return fmt.Errorf("expected a position, got %d", p) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var (
	errNotInvocation = errors.New("not an invocation")
	errTypeMismatch  = errors.New("type mismatch")
)

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type methodMatcher struct {
	id core.MethodID
}

func (m *methodMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected an invocation of %s, got %v", m.id, actual)
}

func (m *methodMatcher) Match(actual any) (bool, error) {
	inv, err := asInvocation(actual)
	if err != nil {
		return false, err
	}

	return inv.Method == m.id, nil
}

type parameterMatcher struct {
	key      string
	expected any
	lastMsg  string
}

func (m *parameterMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to have parameter %s: %s", actual, m.key, m.lastMsg)
}

func (m *parameterMatcher) Match(actual any) (bool, error) {
	inv, err := asInvocation(actual)
	if err != nil {
		return false, err
	}

	value, ok := inv.Parameter(m.key)
	if !ok {
		m.lastMsg = "not recorded"

		return false, nil
	}

	var matched bool

	matched, m.lastMsg = core.MatchValue(value, m.expected)

	return matched, nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func asInvocation(actual any) (*core.Invocation, error) {
	inv, ok := actual.(*core.Invocation)
	if !ok || inv == nil {
		return nil, fmt.Errorf("%w: got %T", errNotInvocation, actual)
	}

	return inv, nil
}

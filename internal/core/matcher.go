package core

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Matcher is satisfied by gomega matchers and by the matchers in impspy/match.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchParameters checks every expected key of inv. Each expected value may be a
// plain value or a Matcher. Returns (true, "") on success, otherwise the first
// failure.
func MatchParameters(inv *Invocation, expected map[string]any) (bool, string) {
	for _, key := range slices.Sorted(maps.Keys(expected)) {
		actual, ok := inv.Parameter(key)
		if !ok {
			return false, fmt.Sprintf("parameter %q was not recorded", key)
		}

		matched, msg := MatchValue(actual, expected[key])
		if !matched {
			return false, fmt.Sprintf("parameter %q: %s", key, msg)
		}
	}

	return true, ""
}

// MatchValue checks if actual matches expected.
// A Matcher is asked directly; anything else is compared with reflect.DeepEqual.
// Returns (success, failureMessage).
func MatchValue(actual, expected any) (bool, string) {
	matcher, isMatcher := expected.(Matcher)
	if !isMatcher {
		if reflect.DeepEqual(actual, expected) {
			return true, ""
		}

		return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
	}

	success, err := matcher.Match(actual)
	if err != nil {
		return false, err.Error()
	}

	if !success {
		return false, matcher.FailureMessage(actual)
	}

	return true, ""
}

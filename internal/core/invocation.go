package core

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
)

// MethodID names one operation on one double type.
// It is the join key between invocations, the ledger, and the action table.
type MethodID string

// String returns the identifier as a plain string.
func (id MethodID) String() string {
	return string(id)
}

// Invocation is one recorded call against a double.
// Method and Time are fixed at construction; parameters are attached while the
// double builds the invocation and are not changed afterward.
type Invocation struct {
	Method MethodID
	Time   time.Time

	params map[string]any
}

// NewInvocation creates an invocation of method stamped with at.
func NewInvocation(method MethodID, at time.Time) *Invocation {
	return &Invocation{
		Method: method,
		Time:   at,
		params: make(map[string]any),
	}
}

// Parameter returns the value stored under key, and whether one was stored.
func (inv *Invocation) Parameter(key string) (any, bool) {
	value, ok := inv.params[key]

	return value, ok
}

// ParameterKeys returns the keys of all attached parameters, sorted.
func (inv *Invocation) ParameterKeys() []string {
	return slices.Sorted(maps.Keys(inv.params))
}

// SetParameter stores value under key. Any value may be stored, including nil.
func (inv *Invocation) SetParameter(key string, value any) {
	inv.params[key] = value
}

// String renders the invocation as Method(key=value, ...) for failure messages.
func (inv *Invocation) String() string {
	keys := inv.ParameterKeys()
	parts := make([]string, 0, len(keys))

	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%#v", key, inv.params[key]))
	}

	return fmt.Sprintf("%s(%s)", inv.Method, strings.Join(parts, ", "))
}

// Parameter is one named argument handed to Double.Call.
type Parameter struct {
	Key   string
	Value any

	present bool
}

// Present reports whether the parameter will be attached to the invocation.
func (p Parameter) Present() bool {
	return p.present
}

// OptionalParam builds a parameter that is attached only when value is not nil.
// Typed nils (nil pointers, maps, slices, funcs, channels, interfaces) count as nil.
func OptionalParam(key string, value any) Parameter {
	return Parameter{Key: key, Value: value, present: !isNil(value)}
}

// Param builds a parameter that is always attached.
func Param(key string, value any) Parameter {
	return Parameter{Key: key, Value: value, present: true}
}

// isNil reports whether value is nil or a typed nil.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)

	//nolint:exhaustive // only nilable kinds matter here
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

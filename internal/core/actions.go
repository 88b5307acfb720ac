package core

import (
	"fmt"
	"sync"
)

// ErrorPolicy decides what a double hands back when both an error and a return
// value are configured for the same method.
type ErrorPolicy int

// ErrorPolicy values.
const (
	// ErrorFirst returns the configured error whenever one is set. This is the default.
	ErrorFirst ErrorPolicy = iota
	// ValueFirst returns an explicit return value when one is set, then the error,
	// then the default return value.
	ValueFirst
)

// String returns the policy name.
func (p ErrorPolicy) String() string {
	switch p {
	case ErrorFirst:
		return "ErrorFirst"
	case ValueFirst:
		return "ValueFirst"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

// OutcomeKind values.
const (
	// OutcomeAbsent means nothing was configured for the method.
	OutcomeAbsent OutcomeKind = iota
	// OutcomeValue carries a return value.
	OutcomeValue
	// OutcomeError carries an error.
	OutcomeError
)

// String returns the kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAbsent:
		return "absent"
	case OutcomeValue:
		return "value"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is what the action table resolved for one call: nothing, a value, or an error.
type Outcome struct {
	method MethodID
	kind   OutcomeKind
	value  any
	err    error
}

// Err returns the carried error, or nil unless the outcome is an error.
func (o Outcome) Err() error {
	return o.err
}

// Kind returns the outcome's tag.
func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

// Method returns the identifier the outcome was resolved for.
func (o Outcome) Method() MethodID {
	return o.method
}

// PanicIfError panics with the carried error. Doubles call it for operations that
// have no error result, where a configured error stands in for a fault.
func (o Outcome) PanicIfError() {
	if o.kind == OutcomeError {
		panic(o.err)
	}
}

// Value returns the carried value, and whether the outcome is a value.
func (o Outcome) Value() (any, bool) {
	return o.value, o.kind == OutcomeValue
}

// ActionTable holds the canned behavior configured per method.
// It stores values by identifier only and never checks their types.
type ActionTable struct {
	mu      sync.Mutex
	actions map[MethodID]*action
}

// NewActionTable creates an empty action table.
func NewActionTable() *ActionTable {
	return &ActionTable{actions: make(map[MethodID]*action)}
}

// ClearActions removes the explicit return value, error, and policy configured
// for id. The default return value stays, so generated doubles keep answering
// collection queries with an empty collection.
func (a *ActionTable) ClearActions(id MethodID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok {
		return
	}

	if !act.hasDefault {
		delete(a.actions, id)

		return
	}

	a.actions[id] = &action{policy: ErrorFirst, defaultValue: act.defaultValue, hasDefault: true}
}

// DefaultReturnValue returns the fallback value configured for id.
func (a *ActionTable) DefaultReturnValue(id MethodID) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok || !act.hasDefault {
		return nil, false
	}

	return act.defaultValue, true
}

// Error returns the error configured for id, or nil.
func (a *ActionTable) Error(id MethodID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok {
		return nil
	}

	return act.err
}

// ErrorPolicyFor returns the precedence policy for id.
func (a *ActionTable) ErrorPolicyFor(id MethodID) ErrorPolicy {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok {
		return ErrorFirst
	}

	return act.policy
}

// Resolve decides what a call to id should produce, applying id's ErrorPolicy.
// An explicit return value always beats the default return value.
func (a *ActionTable) Resolve(id MethodID) Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok {
		return Outcome{method: id, kind: OutcomeAbsent}
	}

	errOutcome := Outcome{method: id, kind: OutcomeError, err: act.err}

	if act.policy == ErrorFirst && act.err != nil {
		return errOutcome
	}

	if act.hasReturn {
		return Outcome{method: id, kind: OutcomeValue, value: act.returnValue}
	}

	if act.err != nil {
		return errOutcome
	}

	if act.hasDefault {
		return Outcome{method: id, kind: OutcomeValue, value: act.defaultValue}
	}

	return Outcome{method: id, kind: OutcomeAbsent}
}

// ReturnValue returns the value a call to id should produce: the explicit return
// value if one is set, otherwise the default return value.
func (a *ActionTable) ReturnValue(id MethodID) (any, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act, ok := a.actions[id]
	if !ok {
		return nil, false
	}

	if act.hasReturn {
		return act.returnValue, true
	}

	if act.hasDefault {
		return act.defaultValue, true
	}

	return nil, false
}

// SetDefaultReturnValue configures the fallback value for id.
// Generated doubles set it so that tests need not configure every query.
func (a *ActionTable) SetDefaultReturnValue(id MethodID, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act := a.actionFor(id)
	act.defaultValue = value
	act.hasDefault = true
}

// SetError configures the error for id. A nil err clears it.
func (a *ActionTable) SetError(id MethodID, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.actionFor(id).err = err
}

// SetErrorPolicy configures the precedence policy for id.
func (a *ActionTable) SetErrorPolicy(id MethodID, policy ErrorPolicy) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.actionFor(id).policy = policy
}

// SetReturnValue configures the explicit return value for id.
func (a *ActionTable) SetReturnValue(id MethodID, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	act := a.actionFor(id)
	act.returnValue = value
	act.hasReturn = true
}

// actionFor returns the entry for id, creating it. Must be called with a.mu held.
func (a *ActionTable) actionFor(id MethodID) *action {
	act, ok := a.actions[id]
	if !ok {
		act = &action{policy: ErrorFirst}
		a.actions[id] = act
	}

	return act
}

type action struct {
	returnValue  any
	hasReturn    bool
	defaultValue any
	hasDefault   bool
	err          error
	policy       ErrorPolicy
}

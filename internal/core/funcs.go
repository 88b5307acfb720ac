package core

import (
	"fmt"
	"reflect"
)

// FillFuncs turns a struct of funcs into a recording double. Every nil, exported
// func field of *target, including fields of embedded structs, is replaced by a
// function built with Func. Field names become method identifiers; names that
// repeat across embedded structs are disambiguated positionally. The identifiers
// are returned in field order.
func FillFuncs(d *Double, target any) []MethodID {
	d.t.Helper()

	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		d.t.Fatalf("%s: FillFuncs needs a non-nil pointer to a struct, got %T", d.name, target)

		return nil
	}

	structVal := ptr.Elem()
	fields := collectFuncFields(structVal.Type(), nil)

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.name)
	}

	ids := DisambiguateMethodIDs(names)

	for i, field := range fields {
		fieldVal := structVal.FieldByIndex(field.index)
		if !fieldVal.CanSet() || !fieldVal.IsNil() {
			continue
		}

		fieldVal.Set(makeRecordingFunc(d, fieldVal.Type(), ids[i], nil))
	}

	return ids
}

// Func builds a function of type F that records each call under id and answers
// from the action table. paramNames name the arguments in order; unnamed
// arguments are recorded as arg0, arg1, ...
//
// Results are filled from the resolved outcome. A trailing error result carries a
// configured error; without one, a configured error panics. A single other
// result takes the configured value directly; several take a []any holding one
// value per result.
func Func[F any](d *Double, id MethodID, paramNames ...string) F {
	fnType := reflect.TypeFor[F]()
	if fnType.Kind() != reflect.Func {
		d.t.Helper()
		d.t.Fatalf("%s.%s: Func needs a function type, got %s", d.name, id, fnType)

		var zero F

		return zero
	}

	fn, _ := makeRecordingFunc(d, fnType, id, paramNames).Interface().(F)

	return fn
}

type funcField struct {
	name  string
	index []int
}

// collectFuncFields walks a struct type depth-first, descending into embedded
// structs (not pointers), and returns the exported func fields it finds.
func collectFuncFields(structType reflect.Type, prefix []int) []funcField {
	var fields []funcField

	for i := range structType.NumField() {
		field := structType.Field(i)
		index := append(append([]int{}, prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			fields = append(fields, collectFuncFields(field.Type, index)...)

			continue
		}

		if field.IsExported() && field.Type.Kind() == reflect.Func {
			fields = append(fields, funcField{name: field.Name, index: index})
		}
	}

	return fields
}

//nolint:gochecknoglobals // reflect type constant
var errorType = reflect.TypeFor[error]()

// fillResults converts an outcome into the result values of fnType.
func fillResults(d *Double, fnType reflect.Type, outcome Outcome) []reflect.Value {
	numOut := fnType.NumOut()
	results := make([]reflect.Value, numOut)

	for i := range numOut {
		results[i] = reflect.Zero(fnType.Out(i))
	}

	hasErr := numOut > 0 && fnType.Out(numOut-1) == errorType

	valueCount := numOut
	if hasErr {
		valueCount--
	}

	switch outcome.kind {
	case OutcomeError:
		if !hasErr {
			panic(outcome.err)
		}

		errVal := reflect.New(errorType).Elem()
		errVal.Set(reflect.ValueOf(outcome.err))
		results[numOut-1] = errVal
	case OutcomeValue:
		fillValues(d, fnType, outcome, results[:valueCount])
	case OutcomeAbsent:
	}

	return results
}

// fillValues assigns the configured value(s) to the non-error result slots.
func fillValues(d *Double, fnType reflect.Type, outcome Outcome, slots []reflect.Value) {
	switch len(slots) {
	case 0:
		return
	case 1:
		assignResult(d, outcome.method, slots, 0, outcome.value)
	default:
		values, ok := outcome.value.([]any)
		if !ok || len(values) != len(slots) {
			d.t.Helper()
			d.t.Fatalf(
				"%s.%s: %s has %d value results; configure a []any with %d values, got %#v",
				d.name, outcome.method, fnType, len(slots), len(slots), outcome.value,
			)

			return
		}

		for i, value := range values {
			assignResult(d, outcome.method, slots, i, value)
		}
	}
}

// assignResult stores value in slots[i] when it is assignable to the slot's type.
func assignResult(d *Double, id MethodID, slots []reflect.Value, i int, value any) {
	if value == nil {
		return
	}

	slotType := slots[i].Type()
	valueVal := reflect.ValueOf(value)

	if !valueVal.Type().AssignableTo(slotType) {
		d.t.Helper()
		d.t.Fatalf(
			"%s.%s: configured result %d has type %T, but the function returns %s",
			d.name, id, i, value, slotType,
		)

		return
	}

	converted := reflect.New(slotType).Elem()
	converted.Set(valueVal)
	slots[i] = converted
}

// makeRecordingFunc builds the reflect function value behind Func and FillFuncs.
func makeRecordingFunc(d *Double, fnType reflect.Type, id MethodID, paramNames []string) reflect.Value {
	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		params := make([]Parameter, 0, len(args))

		for i, arg := range args {
			params = append(params, Param(argName(paramNames, i), arg.Interface()))
		}

		return fillResults(d, fnType, d.Call(id, params...))
	})
}

func argName(paramNames []string, index int) string {
	if index < len(paramNames) && paramNames[index] != "" {
		return paramNames[index]
	}

	return fmt.Sprintf("arg%d", index)
}

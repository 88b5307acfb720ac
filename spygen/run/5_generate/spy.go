// Package generate renders recording doubles for flattened interfaces.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dave/dst"
	"github.com/toejough/impspy"
	astutil "github.com/toejough/impspy/spygen/run/0_util"
	detect "github.com/toejough/impspy/spygen/run/3_detect"
)

// ImpspyImportPath is the import path generated doubles use for the runtime.
const ImpspyImportPath = "github.com/toejough/impspy"

// Options controls how a spy is generated.
type Options struct {
	PkgName string // package the spy is generated into
	SpyName string
	// Qualifier is the package name the generated code uses to reach the
	// interface's package, and PkgPath that package's import path. Both are
	// empty when the spy lives in the interface's own package.
	Qualifier string
	PkgPath   string
	Shared    bool
}

// ErrReservedMethod reports an interface method the spy cannot implement
// because its name is taken by the embedded double.
var ErrReservedMethod = errors.New("method name is reserved by the generated spy")

// SpyCode renders the Go source of a recording double for iface.
// The result still needs import cleanup and formatting. Declarations come out in
// the order go-reorder settles on, so reordering leaves them in place.
func SpyCode(iface detect.Interface, opts Options) (string, error) {
	for _, method := range iface.Methods {
		if method.Name == "Double" {
			return "", fmt.Errorf("%w: %s.%s", ErrReservedMethod, iface.Name, method.Name)
		}
	}

	data := newSpyBuilder(iface, opts).build()
	registry := NewTemplateRegistry()

	var buf bytes.Buffer

	registry.WriteHeader(&buf, data)
	registry.WriteConstants(&buf, data)
	registry.WriteSpyStruct(&buf, data)
	registry.WriteConstructor(&buf, data)

	for _, method := range data.Methods {
		registry.WriteMethod(&buf, method)
	}

	for _, results := range data.ResultsStructs {
		registry.WriteResultsStruct(&buf, results)
	}

	registry.WriteInterfaceCheck(&buf, data)

	return buf.String(), nil
}

// unexported constants.
const (
	shapeErrOnly   = "errOnly"
	shapeGetter    = "getter"
	shapeMulti     = "multi"
	shapeMultiErr  = "multiErr"
	shapeSetter    = "setter"
	shapeSingle    = "single"
	shapeSingleErr = "singleErr"
	shapeVoid      = "void"
)

type defaultData struct {
	ConstName string
	Value     string
}

type fieldData struct {
	Name string
	Type string
}

type methodData struct {
	SpyName    string
	Name       string
	ConstName  string
	ID         string
	Params     string
	Results    string
	Shape      string
	Call       string
	ValueType  string
	ReturnList string
	Property   string
	SetterArg  string
}

type paramData struct {
	Key      string // recorded parameter key
	Ident    string // Go identifier in the generated method
	Type     string
	Optional bool
}

type propertyData struct {
	Name  string
	Field string
	Type  string
}

type resultsStructData struct {
	SpyName   string
	Method    string
	Name      string
	ConstName string
	Fields    []fieldData
}

type spyBuilder struct {
	iface detect.Interface
	o     Options

	getters map[string]string // getter method name -> property field
	setters map[string]string // setter method name -> property field
	taken   map[string]bool   // package-level names the spy declares
}

type spyData struct {
	PkgName        string
	ImpspyPath     string
	SpyName        string
	InterfaceType  string
	DoubleName     string
	Shared         bool
	Imports        []detect.Import
	Constants      []methodData
	Methods        []methodData
	Properties     []propertyData
	Defaults       []defaultData
	ResultsStructs []resultsStructData
}

func newSpyBuilder(iface detect.Interface, opts Options) *spyBuilder {
	return &spyBuilder{
		iface:   iface,
		o:       opts,
		getters: make(map[string]string),
		setters: make(map[string]string),
		taken:   map[string]bool{opts.SpyName: true},
	}
}

func (b *spyBuilder) build() spyData {
	data := spyData{
		PkgName:       b.o.PkgName,
		ImpspyPath:    ImpspyImportPath,
		SpyName:       b.o.SpyName,
		InterfaceType: b.iface.Name,
		DoubleName:    b.o.SpyName,
		Shared:        b.o.Shared,
		Imports:       b.iface.Imports,
		Properties:    b.detectProperties(),
	}

	if b.o.Qualifier != "" {
		data.InterfaceType = b.o.Qualifier + "." + b.iface.Name
		data.Imports = append([]detect.Import{{Alias: b.o.Qualifier, Path: b.o.PkgPath}}, data.Imports...)
	}

	names := make([]string, 0, len(b.iface.Methods))
	for _, method := range b.iface.Methods {
		names = append(names, method.Name)
	}

	ids := impspy.DisambiguateMethodIDs(names)
	for _, id := range ids {
		b.taken[b.o.SpyName+string(id)] = true
	}

	for i, method := range b.iface.Methods {
		methodInfo, results, fallback := b.buildMethod(method, ids[i])

		data.Methods = append(data.Methods, methodInfo)

		if results != nil {
			data.ResultsStructs = append(data.ResultsStructs, *results)
		}

		if fallback != nil {
			data.Defaults = append(data.Defaults, *fallback)
		}
	}

	data.Constants = slices.SortedStableFunc(slices.Values(data.Methods), func(x, y methodData) int {
		return strings.Compare(x.ConstName, y.ConstName)
	})
	slices.SortStableFunc(data.Methods, func(x, y methodData) int {
		return strings.Compare(x.Name, y.Name)
	})
	slices.SortStableFunc(data.ResultsStructs, func(x, y resultsStructData) int {
		return strings.Compare(x.Name, y.Name)
	})

	return data
}

// buildMethod derives the template data for one method, plus the results
// struct and default return value it needs, if any.
//
//nolint:funlen // one branch per method shape
func (b *spyBuilder) buildMethod(
	method detect.Method, id impspy.MethodID,
) (methodData, *resultsStructData, *defaultData) {
	params := b.params(method)
	constName := b.o.SpyName + string(id)

	data := methodData{
		SpyName:   b.o.SpyName,
		Name:      method.Name,
		ConstName: constName,
		ID:        string(id),
		Params:    b.paramList(params),
		Results:   b.resultList(method),
		Call:      callArgs(constName, params),
	}

	if field, ok := b.getters[method.Name]; ok {
		data.Shape = shapeGetter
		data.Property = field

		return data, nil, nil
	}

	if field, ok := b.setters[method.Name]; ok {
		data.Shape = shapeSetter
		data.Property = field
		data.SetterArg = params[0].Ident

		return data, nil, nil
	}

	values, hasErr := splitResults(method.Results)

	switch {
	case len(values) == 0 && !hasErr:
		data.Shape = shapeVoid
	case len(values) == 0:
		data.Shape = shapeErrOnly
	case len(values) == 1:
		data.Shape = shapeSingle
		if hasErr {
			data.Shape = shapeSingleErr
		}

		data.ValueType = b.typeString(values[0])

		var fallback *defaultData
		if astutil.IsCollection(values[0].Type) {
			fallback = &defaultData{ConstName: constName, Value: data.ValueType + "{}"}
		}

		return data, nil, fallback
	default:
		data.Shape = shapeMulti
		if hasErr {
			data.Shape = shapeMultiErr
		}

		results := &resultsStructData{
			SpyName:   b.o.SpyName,
			Method:    method.Name,
			Name:      b.resultsName(constName),
			ConstName: constName,
		}

		returns := make([]string, 0, len(values))

		for i, value := range values {
			fieldName := fmt.Sprintf("R%d", i)
			results.Fields = append(results.Fields, fieldData{Name: fieldName, Type: b.typeString(value)})
			returns = append(returns, "results."+fieldName)
		}

		data.ValueType = results.Name
		data.ReturnList = strings.Join(returns, ", ")

		return data, results, nil
	}

	return data, nil, nil
}

// detectProperties pairs X() T with SetX(T) and returns the properties backing them.
func (b *spyBuilder) detectProperties() []propertyData {
	byName := make(map[string]detect.Method, len(b.iface.Methods))
	for _, method := range b.iface.Methods {
		byName[method.Name] = method
	}

	var props []propertyData

	for _, getter := range b.iface.Methods {
		if len(getter.Params) != 0 || len(getter.Results) != 1 || astutil.IsErrorType(getter.Results[0].Type) {
			continue
		}

		setter, ok := byName["Set"+getter.Name]
		if !ok || len(setter.Params) != 1 || len(setter.Results) != 0 {
			continue
		}

		valueType := b.typeString(getter.Results[0])
		if b.typeString(setter.Params[0]) != valueType {
			continue
		}

		field := getter.Name + "Property"
		b.getters[getter.Name] = field
		b.setters[setter.Name] = field
		props = append(props, propertyData{Name: getter.Name, Field: field, Type: valueType})
	}

	return props
}

// paramList renders the method's parameter list with generated identifiers.
func (b *spyBuilder) paramList(params []paramData) string {
	parts := make([]string, 0, len(params))
	for _, param := range params {
		parts = append(parts, param.Ident+" "+param.Type)
	}

	return strings.Join(parts, ", ")
}

// params names every parameter. The recorded key is the declared name, or argN
// when unnamed. The identifier is renamed when it would shadow something the
// method body uses.
func (b *spyBuilder) params(method detect.Method) []paramData {
	reserved := map[string]bool{"s": true, "results": true, "err": true, "impspy": true}
	if b.o.Qualifier != "" {
		reserved[b.o.Qualifier] = true
	}

	for _, imp := range b.iface.Imports {
		reserved[imp.Alias] = true
	}

	params := make([]paramData, 0, len(method.Params))

	for i, field := range method.Params {
		key := field.Name
		if key == "" || key == "_" {
			key = fmt.Sprintf("arg%d", i)
		}

		ident := key
		for reserved[ident] {
			ident += "Arg"
		}

		// variadic arguments are always recorded, as a slice
		_, variadic := astutil.VariadicElem(field.Type)

		params = append(params, paramData{
			Key:      key,
			Ident:    ident,
			Type:     b.typeString(field),
			Optional: !variadic && mayBeNil(field.Type, b.iface.Nilable),
		})
	}

	return params
}

// resultList renders the method's result list, including the leading space.
func (b *spyBuilder) resultList(method detect.Method) string {
	switch len(method.Results) {
	case 0:
		return ""
	case 1:
		return " " + b.typeString(method.Results[0])
	default:
		types := make([]string, 0, len(method.Results))
		for _, result := range method.Results {
			types = append(types, b.typeString(result))
		}

		return " (" + strings.Join(types, ", ") + ")"
	}
}

// resultsName names the results struct of the method identified by constName,
// numbering it when a sibling method's identifier already took the name.
func (b *spyBuilder) resultsName(constName string) string {
	name := constName + "Results"
	for n := 2; b.taken[name]; n++ {
		name = fmt.Sprintf("%sResults%d", constName, n)
	}

	b.taken[name] = true

	return name
}

func (b *spyBuilder) typeString(field detect.Field) string {
	return astutil.TypeString(field.Type, b.o.Qualifier)
}

// callArgs renders the arguments of Double.Call for one method.
func callArgs(constName string, params []paramData) string {
	args := make([]string, 0, len(params)+1)
	args = append(args, constName)

	for _, param := range params {
		ctor := "impspy.Param"
		if param.Optional {
			ctor = "impspy.OptionalParam"
		}

		args = append(args, fmt.Sprintf("%s(%q, %s)", ctor, param.Key, param.Ident))
	}

	return strings.Join(args, ", ")
}

// mayBeNil reports whether a parameter of type expr is recorded only when
// non-nil. Types from other packages can't be classified from syntax, so they are
// left to the runtime nil check.
func mayBeNil(expr dst.Expr, localNilable map[string]bool) bool {
	if _, external := expr.(*dst.SelectorExpr); external {
		return true
	}

	return astutil.IsNilable(expr, localNilable)
}

// splitResults separates a trailing error from the value results.
func splitResults(results []detect.Field) ([]detect.Field, bool) {
	if len(results) > 0 && astutil.IsErrorType(results[len(results)-1].Type) {
		return results[:len(results)-1], true
	}

	return results, false
}

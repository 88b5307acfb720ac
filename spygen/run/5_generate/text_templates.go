package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds all parsed text templates for spy generation.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl         *template.Template
	constantsTmpl      *template.Template
	spyStructTmpl      *template.Template
	constructorTmpl    *template.Template
	resultsStructTmpl  *template.Template
	methodTmpl         *template.Template
	interfaceCheckTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{}

	templates := []struct {
		target  **template.Template
		name    string
		content string
	}{
		{&registry.headerTmpl, "header", tmplHeader},
		{&registry.constantsTmpl, "constants", tmplConstants},
		{&registry.spyStructTmpl, "spyStruct", tmplSpyStruct},
		{&registry.constructorTmpl, "constructor", tmplConstructor},
		{&registry.resultsStructTmpl, "resultsStruct", tmplResultsStruct},
		{&registry.methodTmpl, "method", tmplMethod},
		{&registry.interfaceCheckTmpl, "interfaceCheck", tmplInterfaceCheck},
	}

	for _, def := range templates {
		*def.target = template.Must(template.New(def.name).Parse(def.content))
	}

	return registry
}

// WriteConstants writes the method identifier constants.
func (r *TemplateRegistry) WriteConstants(buf *bytes.Buffer, data any) {
	execute(r.constantsTmpl, buf, data)
}

// WriteConstructor writes the spy constructor.
func (r *TemplateRegistry) WriteConstructor(buf *bytes.Buffer, data any) {
	execute(r.constructorTmpl, buf, data)
}

// WriteHeader writes the generated-file header, package clause, and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	execute(r.headerTmpl, buf, data)
}

// WriteInterfaceCheck writes the compile-time assertion that the spy implements its interface.
func (r *TemplateRegistry) WriteInterfaceCheck(buf *bytes.Buffer, data any) {
	execute(r.interfaceCheckTmpl, buf, data)
}

// WriteMethod writes one interface method implementation.
func (r *TemplateRegistry) WriteMethod(buf *bytes.Buffer, data any) {
	execute(r.methodTmpl, buf, data)
}

// WriteResultsStruct writes the struct carrying a multi-result method's values.
func (r *TemplateRegistry) WriteResultsStruct(buf *bytes.Buffer, data any) {
	execute(r.resultsStructTmpl, buf, data)
}

// WriteSpyStruct writes the spy struct.
func (r *TemplateRegistry) WriteSpyStruct(buf *bytes.Buffer, data any) {
	execute(r.spyStructTmpl, buf, data)
}

// unexported constants.
const (
	tmplConstants = `
// Exported constants.
const (
{{- range .Constants}}
	{{.ConstName}} impspy.MethodID = "{{.ID}}"
{{- end}}
)
`
	tmplConstructor = `
// New{{.SpyName}} creates a {{.SpyName}} that reports failures to t.
{{- if .Shared}}
// All {{.SpyName}} values created for the same t share one ledger and action table.
{{- end}}
func New{{.SpyName}}(t impspy.TestReporter) *{{.SpyName}} {
	spy := &{{.SpyName}}{Double: impspy.{{if .Shared}}SharedDouble{{else}}NewDouble{{end}}(t, "{{.DoubleName}}")}
{{- range .Properties}}
	spy.{{.Field}} = impspy.NewProperty[{{.Type}}](spy.Double, "{{.Name}}")
{{- end}}
{{- range .Defaults}}
	spy.Double.SetDefaultReturnValue({{.ConstName}}, {{.Value}})
{{- end}}

	return spy
}
`
	tmplHeader = `// Code generated by spygen. DO NOT EDIT.

package {{.PkgName}}

import (
	"{{.ImpspyPath}}"
{{- range .Imports}}
	{{.Alias}} "{{.Path}}"
{{- end}}
)
`
	tmplInterfaceCheck = `
// unexported variables.
var (
	_ {{.InterfaceType}} = (*{{.SpyName}})(nil)
)
`
	tmplMethod = `
// {{.Name}} records the call and answers from the action table.
func (s *{{.SpyName}}) {{.Name}}({{.Params}}){{.Results}} {
{{- if eq .Shape "void"}}
	s.Double.Call({{.Call}}).PanicIfError()
{{- else if eq .Shape "errOnly"}}
	return s.Double.Call({{.Call}}).Err()
{{- else if eq .Shape "single"}}
	return impspy.Value[{{.ValueType}}](s.Double, s.Double.Call({{.Call}}))
{{- else if eq .Shape "singleErr"}}
	return impspy.ValueErr[{{.ValueType}}](s.Double, s.Double.Call({{.Call}}))
{{- else if eq .Shape "multi"}}
	results := impspy.Value[{{.ValueType}}](s.Double, s.Double.Call({{.Call}}))

	return {{.ReturnList}}
{{- else if eq .Shape "multiErr"}}
	results, err := impspy.ValueErr[{{.ValueType}}](s.Double, s.Double.Call({{.Call}}))

	return {{.ReturnList}}, err
{{- else if eq .Shape "getter"}}
	return impspy.PropertyValue(s.Double, s.Double.Call({{.Call}}), s.{{.Property}})
{{- else if eq .Shape "setter"}}
	s.Double.Call({{.Call}}).PanicIfError()
	s.{{.Property}}.Set({{.SetterArg}})
{{- end}}
}
`
	tmplResultsStruct = `
// {{.Name}} carries the results of {{.SpyName}}.{{.Method}}.
// Configure them with SetReturnValue({{.ConstName}}, {{.Name}}{...}).
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}
`
	tmplSpyStruct = `
// {{.SpyName}} is a recording test double for {{.InterfaceType}}.
type {{.SpyName}} struct {
	*impspy.Double
{{- range .Properties}}

	{{.Field}} *impspy.Property[{{.Type}}]
{{- end}}
}
`
)

func execute(tmpl *template.Template, buf *bytes.Buffer, data any) {
	err := tmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute %s template: %v", tmpl.Name(), err))
	}
}

// Package detect finds the interface a double is generated for and flattens it
// into the list of methods the double must implement.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"maps"
	"slices"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/impspy/spygen/run/0_util"
)

// Field is one parameter or result of a method.
type Field struct {
	Name string // declared name, empty when unnamed
	Type dst.Expr
}

// Import is a package referenced by the interface's method signatures.
type Import struct {
	Alias string // name the signatures use (e.g., "time")
	Path  string // import path (e.g., "time")
}

// Interface is a flattened interface: its own methods followed by those of
// embedded interfaces, in declaration order, without duplicates.
type Interface struct {
	Name    string
	PkgName string // package clause of the file declaring the interface
	Methods []Method
	Imports []Import
	// Nilable lists the package's declared type names whose values can be nil
	// (interfaces, func types, pointers, maps, slices, channels).
	Nilable map[string]bool
}

// Method is one interface method.
type Method struct {
	Name    string
	Params  []Field
	Results []Field
}

// FindInterface looks for the interface named name in files and flattens it.
// Embedded interfaces declared in the same package are expanded in place, and
// an embedded error contributes Error() string. Generic interfaces and
// interfaces embedding types from other packages are not supported.
func FindInterface(files []*dst.File, name string) (Interface, error) {
	decls := collectTypeDecls(files)

	decl, ok := decls[name]
	if !ok {
		return Interface{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
	}

	if _, isIface := decl.spec.Type.(*dst.InterfaceType); !isIface {
		return Interface{}, fmt.Errorf("%w: %s is not an interface", ErrInterfaceNotFound, name)
	}

	flat := &flattener{decls: decls, seen: make(map[string]bool), expanded: make(map[string]bool)}

	err := flat.add(name)
	if err != nil {
		return Interface{}, err
	}

	imports, err := collectImports(flat.methods, flat.files)
	if err != nil {
		return Interface{}, err
	}

	return Interface{
		Name:    name,
		PkgName: decl.file.Name.Name,
		Methods: flat.methods,
		Imports: imports,
		Nilable: nilableTypes(decls),
	}, nil
}

// ImportPathFor finds the import path bound to alias in any of files.
func ImportPathFor(alias string, files []*dst.File) (string, bool) {
	for _, file := range files {
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)

			name := path[strings.LastIndex(path, "/")+1:]
			if imp.Name != nil {
				name = imp.Name.Name
			}

			if name == alias {
				return path, true
			}
		}
	}

	return "", false
}

// Exported errors.
var (
	ErrEmbeddedExternal  = errors.New("embedded interfaces from other packages are not supported")
	ErrGenericInterface  = errors.New("generic interfaces are not supported")
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrUnknownImport     = errors.New("package used in a method signature is not imported")
)

type flattener struct {
	decls    map[string]typeDecl
	seen     map[string]bool
	expanded map[string]bool
	methods  []Method
	files    []*dst.File
}

// add appends the methods of the interface named name, expanding embeds.
func (f *flattener) add(name string) error {
	decl, ok := f.decls[name]
	if !ok {
		return fmt.Errorf("%w: embedded %s", ErrInterfaceNotFound, name)
	}

	iface, ok := decl.spec.Type.(*dst.InterfaceType)
	if !ok {
		return fmt.Errorf("%w: embedded %s is not an interface", ErrInterfaceNotFound, name)
	}

	if decl.spec.TypeParams != nil && len(decl.spec.TypeParams.List) > 0 {
		return fmt.Errorf("%w: %s", ErrGenericInterface, name)
	}

	if f.expanded[name] {
		return nil
	}

	f.expanded[name] = true
	f.files = append(f.files, decl.file)

	if iface.Methods == nil {
		return nil
	}

	for _, field := range iface.Methods.List {
		err := f.addField(field)
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *flattener) addField(field *dst.Field) error {
	if funcType, ok := field.Type.(*dst.FuncType); ok && len(field.Names) > 0 {
		for _, methodName := range field.Names {
			f.addMethod(Method{
				Name:    methodName.Name,
				Params:  fieldsOf(funcType.Params),
				Results: fieldsOf(funcType.Results),
			})
		}

		return nil
	}

	switch embedded := field.Type.(type) {
	case *dst.Ident:
		if embedded.Name == "error" {
			f.addMethod(Method{
				Name:    "Error",
				Results: []Field{{Type: &dst.Ident{Name: "string"}}},
			})

			return nil
		}

		return f.add(embedded.Name)
	case *dst.SelectorExpr:
		return fmt.Errorf("%w: %s", ErrEmbeddedExternal, astutil.TypeString(embedded, ""))
	default:
		return fmt.Errorf("%w: unsupported embedded element %s", ErrEmbeddedExternal, astutil.TypeString(embedded, ""))
	}
}

// addMethod appends m unless a method of the same name was already added.
func (f *flattener) addMethod(m Method) {
	if f.seen[m.Name] {
		return
	}

	f.seen[m.Name] = true
	f.methods = append(f.methods, m)
}

type typeDecl struct {
	spec *dst.TypeSpec
	file *dst.File
}

// collectImports resolves the package selectors used in method signatures
// against the imports of the files the methods were declared in.
func collectImports(methods []Method, files []*dst.File) ([]Import, error) {
	aliases := make(map[string]bool)

	for _, method := range methods {
		for _, field := range slices.Concat(method.Params, method.Results) {
			dst.Inspect(field.Type, func(node dst.Node) bool {
				sel, ok := node.(*dst.SelectorExpr)
				if !ok {
					return true
				}

				if pkg, isIdent := sel.X.(*dst.Ident); isIdent {
					aliases[pkg.Name] = true
				}

				return false
			})
		}
	}

	var imports []Import

	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		path, ok := ImportPathFor(alias, files)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownImport, alias)
		}

		imports = append(imports, Import{Alias: alias, Path: path})
	}

	return imports, nil
}

func collectTypeDecls(files []*dst.File) map[string]typeDecl {
	decls := make(map[string]typeDecl)

	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, isTypeSpec := spec.(*dst.TypeSpec)
				if !isTypeSpec {
					continue
				}

				if _, exists := decls[typeSpec.Name.Name]; !exists {
					decls[typeSpec.Name.Name] = typeDecl{spec: typeSpec, file: file}
				}
			}
		}
	}

	return decls
}

func fieldsOf(list *dst.FieldList) []Field {
	if list == nil {
		return nil
	}

	var fields []Field

	for _, field := range list.List {
		if len(field.Names) == 0 {
			fields = append(fields, Field{Type: field.Type})

			continue
		}

		for _, name := range field.Names {
			fields = append(fields, Field{Name: name.Name, Type: field.Type})
		}
	}

	return fields
}

// nilableTypes returns the declared type names whose values can be nil.
func nilableTypes(decls map[string]typeDecl) map[string]bool {
	nilable := make(map[string]bool)

	for name, decl := range decls {
		if astutil.IsNilable(decl.spec.Type, nil) {
			nilable[name] = true
		}
	}

	return nilable
}


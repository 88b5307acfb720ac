// Package astutil provides shared utilities for rendering DST type expressions.
package astutil

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dave/dst"
)

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// IsBuiltinType checks if a type name is a Go builtin.
func IsBuiltinType(name string) bool {
	switch name {
	case "bool", "byte", "complex64", "complex128",
		"error", "float32", "float64", "int",
		"int8", "int16", "int32", "int64",
		"rune", "string", "uint", "uint8",
		"uint16", "uint32", "uint64", "uintptr",
		"comparable", "any":
		return true
	}

	return false
}

// IsCollection reports whether expr is a slice or map type literal. Doubles give
// such results an empty default so callers can range over them unconfigured.
func IsCollection(expr dst.Expr) bool {
	switch typed := expr.(type) {
	case *dst.ArrayType:
		return typed.Len == nil
	case *dst.MapType:
		return true
	default:
		return false
	}
}

// IsErrorType reports whether expr is the builtin error type.
func IsErrorType(expr dst.Expr) bool {
	ident, ok := expr.(*dst.Ident)

	return ok && ident.Name == "error"
}

// IsNilable reports whether values of expr can be nil. It decides from syntax
// alone; localNilable names the package's own declared types that are nilable,
// such as named interfaces and func types.
func IsNilable(expr dst.Expr, localNilable map[string]bool) bool {
	switch typed := expr.(type) {
	case *dst.StarExpr, *dst.MapType, *dst.FuncType, *dst.ChanType, *dst.InterfaceType, *dst.Ellipsis:
		return true
	case *dst.ArrayType:
		return typed.Len == nil
	case *dst.Ident:
		return typed.Name == "any" || typed.Name == "error" || localNilable[typed.Name]
	case *dst.ParenExpr:
		return IsNilable(typed.X, localNilable)
	default:
		return false
	}
}

// TypeString renders expr as Go source. When qualifier is not empty, exported
// identifiers declared in the source package are prefixed with it, so the type
// can be named from another package.
func TypeString(expr dst.Expr, qualifier string) string {
	return typeRenderer{qualifier: qualifier}.render(expr)
}

// VariadicElem returns the element type of a variadic parameter, and whether
// expr was variadic.
func VariadicElem(expr dst.Expr) (dst.Expr, bool) {
	ellipsis, ok := expr.(*dst.Ellipsis)
	if !ok {
		return expr, false
	}

	return ellipsis.Elt, true
}

type typeRenderer struct {
	qualifier string
}

// render converts a DST expression to its string representation.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func (r typeRenderer) render(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typed := expr.(type) {
	case *dst.Ident:
		return r.renderIdent(typed)
	case *dst.BasicLit:
		return typed.Value
	case *dst.SelectorExpr:
		// package selectors are never qualified
		if pkg, ok := typed.X.(*dst.Ident); ok {
			return pkg.Name + "." + typed.Sel.Name
		}

		return r.render(typed.X) + "." + typed.Sel.Name
	case *dst.StarExpr:
		return "*" + r.render(typed.X)
	case *dst.ArrayType:
		if typed.Len != nil {
			return "[" + r.render(typed.Len) + "]" + r.render(typed.Elt)
		}

		return "[]" + r.render(typed.Elt)
	case *dst.MapType:
		return "map[" + r.render(typed.Key) + "]" + r.render(typed.Value)
	case *dst.ChanType:
		switch typed.Dir {
		case dst.SEND:
			return "chan<- " + r.render(typed.Value)
		case dst.RECV:
			return "<-chan " + r.render(typed.Value)
		default:
			return "chan " + r.render(typed.Value)
		}
	case *dst.InterfaceType:
		return r.renderInterface(typed)
	case *dst.StructType:
		return r.renderStruct(typed)
	case *dst.FuncType:
		return "func" + r.renderSignature(typed)
	case *dst.Ellipsis:
		return "..." + r.render(typed.Elt)
	case *dst.IndexExpr:
		return r.render(typed.X) + "[" + r.render(typed.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typed.Indices))
		for i, idx := range typed.Indices {
			indices[i] = r.render(idx)
		}

		return r.render(typed.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + r.render(typed.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func (r typeRenderer) renderIdent(ident *dst.Ident) string {
	if r.qualifier == "" || IsBuiltinType(ident.Name) || !isExported(ident.Name) {
		return ident.Name
	}

	return r.qualifier + "." + ident.Name
}

func (r typeRenderer) renderInterface(iface *dst.InterfaceType) string {
	if iface.Methods == nil || len(iface.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(iface.Methods.List))

	for _, method := range iface.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			parts = append(parts, r.render(method.Type))

			continue
		}

		parts = append(parts, method.Names[0].Name+r.renderSignature(funcType))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

// renderSignature renders a parameter and result list without the func keyword.
func (r typeRenderer) renderSignature(funcType *dst.FuncType) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, r.render), ", "))
	}

	buf.WriteString(")")

	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return buf.String()
	}

	results := ExpandFieldListTypes(funcType.Results.List, r.render)
	if len(results) == 1 {
		buf.WriteString(" " + results[0])

		return buf.String()
	}

	buf.WriteString(" (" + strings.Join(results, ", ") + ")")

	return buf.String()
}

func (r typeRenderer) renderStruct(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			names := make([]string, len(field.Names))
			for i, name := range field.Names {
				names[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(names, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(r.render(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" " + field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return "struct{ " + strings.Join(fields, "; ") + " }"
}

func isExported(name string) bool {
	return name != "" && unicode.IsUpper(rune(name[0]))
}

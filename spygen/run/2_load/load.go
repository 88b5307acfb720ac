// Package load reads Go packages into DST files for the generator.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/mod/modfile"
)

// ImportPathForDir returns the import path of the package in dir, derived from
// the module path declared by the nearest go.mod at or above dir.
func ImportPathForDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	root, modulePath, err := findModule(absDir)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, absDir)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to module root %s: %w", absDir, root, err)
	}

	if rel == "." {
		return modulePath, nil
	}

	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}

// PackageDST loads a package by import path and returns its DST files and FileSet.
// The current package (".") includes its test files, since doubles are usually
// generated for interfaces declared next to the tests that use them.
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := resolveDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	includeTests := importPath == "."
	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: no .go files in %s", errNoPackagesFound, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		file, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			// half-written files should not block generation for the rest
			continue
		}

		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: failed to parse any .go files in %s", errNoPackagesFound, dir)
	}

	return files, fset, nil
}

// unexported variables.
var (
	errNoModule        = errors.New("no go.mod found")
	errNoPackagesFound = errors.New("no packages found")
)

// findModule walks up from dir to the nearest go.mod and returns its directory
// and module path.
func findModule(dir string) (string, string, error) {
	for current := dir; ; {
		data, err := os.ReadFile(filepath.Join(current, "go.mod"))
		if err == nil {
			modulePath := modfile.ModulePath(data)
			if modulePath == "" {
				return "", "", fmt.Errorf("%w: %s/go.mod declares no module path", errNoModule, current)
			}

			return current, modulePath, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", "", fmt.Errorf("%w: at or above %s", errNoModule, dir)
		}

		current = parent
	}
}

// resolveDir maps an import path to the directory holding its sources.
func resolveDir(importPath string) (string, error) {
	srcDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return srcDir, nil
	}

	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		return filepath.Join(srcDir, importPath), nil
	}

	pkg, err := build.Import(importPath, srcDir, build.FindOnly)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	return pkg.Dir, nil
}

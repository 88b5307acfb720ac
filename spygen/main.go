// spygen generates recording test doubles for Go interfaces.
// Install it with `go install github.com/toejough/impspy/spygen@latest` and add a
// `//go:generate spygen <interface>` comment next to the code that needs the double. By default the spy is named
// <interface>Spy; pass `--name <SpyName>` to choose another name and `--shared` to have every spy created for the
// same test share one ledger and action table. The spy is written to generated_<SpyName>.go, or
// generated_<SpyName>_test.go when generating from test code.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/impspy/spygen/run"
	load "github.com/toejough/impspy/spygen/run/2_load"
)

// main is the entry point of the spygen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// ImportPath returns the import path of the package in the directory importPath names.
func (pl *realPackageLoader) ImportPath(importPath string) (string, error) {
	path, err := load.ImportPathForDir(importPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve import path for %q: %w", importPath, err)
	}

	return path, nil
}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.PackageDST(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}

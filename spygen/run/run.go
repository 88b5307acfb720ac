// Package run implements the main logic for the spygen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	detect "github.com/toejough/impspy/spygen/run/3_detect"
	generate "github.com/toejough/impspy/spygen/run/5_generate"
	output "github.com/toejough/impspy/spygen/run/6_output"
)

// FileSystem interface for mocking.
type FileSystem interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader reads packages for the generator.
type PackageLoader interface {
	// Load returns the files of the package at importPath. "." is the package
	// being generated into, including its test files.
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
	// ImportPath returns the import path of the package at importPath, which
	// may be relative, such as ".".
	ImportPath(importPath string) (string, error)
}

// Run executes the spygen tool logic. It takes command-line arguments, an environment variable getter, a FileSystem
// for writing the result, a PackageLoader for reading sources, and a writer for progress messages. On success, it
// writes a recording double for the named interface into the package running go generate.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	info, err := getGeneratorCallInfo(args, getEnv)
	if err != nil {
		return err
	}

	localFiles, _, err := pkgLoader.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load current package: %w", err)
	}

	iface, opts, err := findTarget(info, localFiles, pkgLoader)
	if err != nil {
		return err
	}

	code, err := generate.SpyCode(iface, opts)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", info.spyName, err)
	}

	return output.WriteGeneratedCode(code, info.spyName, info.pkgName, getEnv, fileSys, out)
}

// unexported variables.
var (
	errNoPackage     = errors.New("GOPACKAGE is not set; run spygen from go generate")
	errUnknownPrefix = errors.New("package qualifier is not imported by the current package")
)

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional,required" help:"interface to spy on (e.g. Repository or store.Repository)"`
	Name      string `arg:"--name"              help:"name for the generated spy (defaults to <Interface>Spy)"`
	Shared    bool   `arg:"--shared"            help:"spies created for the same test share one ledger and action table"`
}

// generatorInfo holds information gathered for generation.
type generatorInfo struct {
	pkgName, qualifier, interfaceName, spyName string
	shared                                     bool
}

// findTarget locates the interface and decides how the generated code refers to it.
func findTarget(
	info generatorInfo, localFiles []*dst.File, pkgLoader PackageLoader,
) (detect.Interface, generate.Options, error) {
	opts := generate.Options{PkgName: info.pkgName, SpyName: info.spyName, Shared: info.shared}

	if info.qualifier != "" {
		pkgPath, ok := detect.ImportPathFor(info.qualifier, localFiles)
		if !ok {
			return detect.Interface{}, opts, fmt.Errorf("%w: %s", errUnknownPrefix, info.qualifier)
		}

		files, _, err := pkgLoader.Load(pkgPath)
		if err != nil {
			return detect.Interface{}, opts, fmt.Errorf("failed to load %s: %w", pkgPath, err)
		}

		iface, err := detect.FindInterface(files, info.interfaceName)
		if err != nil {
			return detect.Interface{}, opts, fmt.Errorf("failed to find %s.%s: %w", info.qualifier, info.interfaceName, err)
		}

		opts.Qualifier = info.qualifier
		opts.PkgPath = pkgPath

		return iface, opts, nil
	}

	iface, err := detect.FindInterface(localFiles, info.interfaceName)
	if err != nil {
		return detect.Interface{}, opts, fmt.Errorf("failed to find %s: %w", info.interfaceName, err)
	}

	// an external test package reaches the package under test by import
	if iface.PkgName != info.pkgName {
		pkgPath, err := pkgLoader.ImportPath(".")
		if err != nil {
			return detect.Interface{}, opts, fmt.Errorf("failed to resolve import path of %s: %w", iface.PkgName, err)
		}

		opts.Qualifier = iface.PkgName
		opts.PkgPath = pkgPath
	}

	return iface, opts, nil
}

// getGeneratorCallInfo returns basic information about the current call to the generator.
func getGeneratorCallInfo(args []string, getEnv func(string) string) (generatorInfo, error) {
	pkgName := getEnv("GOPACKAGE")
	if pkgName == "" {
		return generatorInfo{}, errNoPackage
	}

	parsed, err := parseArgs(args)
	if err != nil {
		return generatorInfo{}, err
	}

	qualifier, interfaceName, found := strings.Cut(parsed.Interface, ".")
	if !found {
		qualifier, interfaceName = "", parsed.Interface
	}

	spyName := parsed.Name

	// set spy name if not provided
	if spyName == "" {
		spyName = interfaceName + "Spy"
	}

	return generatorInfo{
		pkgName:       pkgName,
		qualifier:     qualifier,
		interfaceName: interfaceName,
		spyName:       spyName,
		shared:        parsed.Shared,
	}, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "spygen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

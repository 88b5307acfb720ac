//go:build targ

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Build builds the local spygen binary.
func Build() error {
	fmt.Println("Building spygen...")

	if err := os.MkdirAll("bin", 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	return sh.Run("go", "build", "-o", "bin/spygen", "./spygen")
}

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,           // clean up the module dependencies
		FixImports,     // fix imports to remove unused ones
		CheckGenerated, // checked-in spies must match the generator
		CheckCoverage,  // does our code work?
		ReorderDecls,   // linter will yell about declaration order if not correct
		Lint,
	)
}

// CheckCoverage checks that function coverage meets the minimum threshold.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	out, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return err
	}

	linesAndCoverage := []lineAndCoverage{}

	for line := range strings.SplitSeq(out, "\n") {
		if strings.Contains(line, "main.go") || strings.Contains(line, "generated_") || strings.Contains(line, "total:") {
			continue
		}

		percent, err := strconv.ParseFloat(coveragePercent.FindString(line), 64)
		if err != nil {
			return fmt.Errorf("failed to parse coverage line %q: %w", line, err)
		}

		linesAndCoverage = append(linesAndCoverage, lineAndCoverage{line, percent})
	}

	if len(linesAndCoverage) == 0 {
		return errors.New("no coverage data found")
	}

	slices.SortStableFunc(linesAndCoverage, func(a, b lineAndCoverage) int {
		if a.coverage < b.coverage {
			return -1
		}

		if a.coverage > b.coverage {
			return 1
		}

		return 0
	})

	sortedLines := make([]string, len(linesAndCoverage))
	for i := range linesAndCoverage {
		sortedLines[i] = linesAndCoverage[i].line
	}

	fmt.Println(strings.Join(sortedLines, "\n"))

	const coverage = 80.0

	lowest := linesAndCoverage[0]
	if lowest.coverage < coverage {
		return fmt.Errorf("function coverage was less than the limit of %.1f:\n  %s", coverage, lowest.line)
	}

	return nil
}

// CheckForFail runs all checks on the code for determining whether any fail.
func CheckForFail() error {
	fmt.Println("Checking...")

	// Checks from fastest to slowest
	return targ.Deps(
		ReorderDeclsCheck,
		Lint,
		Deadcode,
		TestForFail,
		CheckGenerated,
		CheckCoverage,
	)
}

// CheckGenerated regenerates every spy and fails if any checked-in spy changed.
func CheckGenerated() error {
	fmt.Println("Checking generated spies...")

	before, err := generatedContents()
	if err != nil {
		return err
	}

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	after, err := generatedContents()
	if err != nil {
		return err
	}

	stale := 0

	for _, name := range slices.Sorted(maps.Keys(after)) {
		diff := textdiff.Unified(name+" (checked in)", name+" (generated)", before[name], after[name])
		if diff == "" {
			continue
		}

		stale++

		fmt.Printf("\n%s\n", diff)
	}

	if stale > 0 {
		return fmt.Errorf("%d generated file(s) were out of date and have been rewritten", stale)
	}

	fmt.Printf("All %d generated file(s) are up to date.\n", len(after))

	return nil
}

// Clean cleans up the dev env.
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove("coverage.out")
	os.RemoveAll("bin")
}

// Deadcode checks that there's no dead code in codebase.
func Deadcode() error {
	fmt.Println("Checking for dead code...")

	out, err := output("deadcode", "-test", "./...")
	if err != nil {
		return err
	}

	filteredLines := []string{}

	for line := range strings.SplitSeq(out, "\n") {
		// generated spies carry every interface method, used or not
		if line == "" || strings.Contains(line, "generated_") {
			continue
		}

		filteredLines = append(filteredLines, line)
	}

	if len(filteredLines) > 0 {
		fmt.Println(strings.Join(filteredLines, "\n"))

		return errors.New("found dead code")
	}

	return nil
}

// FixImports fixes all imports in the codebase.
func FixImports() error {
	fmt.Println("Fixing imports...")
	return sh.Run("goimports", "-w", ".")
}

// Generate runs go generate on all packages using the locally-built spygen binary.
func Generate() error {
	fmt.Println("Generating...")

	if err := targ.Deps(Build); err != nil {
		return err
	}

	binDir, err := filepath.Abs("bin")
	if err != nil {
		return fmt.Errorf("failed to get absolute path for bin: %w", err)
	}

	// go generate finds spygen on PATH
	newPath := binDir + string(filepath.ListSeparator) + os.Getenv("PATH")

	cmd := exec.Command("go", "generate", "./...")
	cmd.Env = append(os.Environ(), "PATH="+newPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "-c", "dev/golangci.toml", "--fix=false")
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=6000s",
		"-tags=mutation",
		"-ooze.v",
		"./...",
		"-run=TestMutation",
	)
}

// ReorderDecls reorders declarations in Go files per conventions.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	changed, err := reorderSources(true)
	if err != nil {
		return err
	}

	fmt.Printf("Reordered %d file(s).\n", changed)

	return nil
}

// ReorderDeclsCheck reports the files that need reordering without modifying them.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	changed, err := reorderSources(false)
	if err != nil {
		return err
	}

	if changed > 0 {
		return fmt.Errorf("%d file(s) need reordering; run 'targ reorder-decls' to fix", changed)
	}

	return nil
}

// Test runs the unit tests.
func Test() error {
	fmt.Println("Running unit tests...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	// Use -count=1 to disable caching so coverage is regenerated
	return sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=./,./internal/...,./match/...,./spygen/...",
		"-cover",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	if err := targ.Deps(Generate); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=30s",
		"./...",
		"-failfast",
	)
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

//nolint:gochecknoglobals // compiled once
var coveragePercent = regexp.MustCompile(`\d+\.\d`)

type lineAndCoverage struct {
	line     string
	coverage float64
}

// generatedContents maps every generated_*.go file to its content.
func generatedContents() (map[string]string, error) {
	files, err := globs(".", []string{".go"})
	if err != nil {
		return nil, fmt.Errorf("failed to find Go files: %w", err)
	}

	contents := make(map[string]string)

	for _, name := range files {
		if !strings.HasPrefix(filepath.Base(name), "generated_") {
			continue
		}

		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		contents[name] = string(data)
	}

	return contents, nil
}

func globs(dir string, ext []string) ([]string, error) {
	files := []string{}

	err := filepath.Walk(dir, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("unable to find all glob matches: %w", err)
		}

		if slices.Contains(ext, filepath.Ext(path)) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func isGeneratedFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 200)

	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(buf[:n])

	return strings.Contains(content, "Code generated") || strings.Contains(content, "DO NOT EDIT"), nil
}

// output runs a command and captures stdout only (stderr goes to os.Stderr).
func output(command string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := exec.Command(command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

// reorderSources runs go-reorder over the hand-written sources, rewriting them
// when write is set and printing a diff otherwise. It returns how many files
// were out of order.
func reorderSources(write bool) (int, error) {
	files, err := sourceFiles()
	if err != nil {
		return 0, err
	}

	changed := 0

	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return changed, fmt.Errorf("failed to read %s: %w", name, err)
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", name, err)

			continue
		}

		if string(content) == reordered {
			continue
		}

		changed++

		if !write {
			fmt.Printf("\n%s\n", textdiff.Unified(name+" (current)", name+" (reordered)", string(content), reordered))

			continue
		}

		err = os.WriteFile(name, []byte(reordered), 0o600)
		if err != nil {
			return changed, fmt.Errorf("failed to write %s: %w", name, err)
		}

		fmt.Printf("  Reordered: %s\n", name)
	}

	return changed, nil
}

// sourceFiles lists the hand-written Go files: no generated code, vendor, or
// hidden directories.
func sourceFiles() ([]string, error) {
	files, err := globs(".", []string{".go"})
	if err != nil {
		return nil, fmt.Errorf("failed to find Go files: %w", err)
	}

	kept := make([]string, 0, len(files))

	for _, file := range files {
		if strings.Contains(file, "generated_") || strings.HasPrefix(file, "vendor/") ||
			strings.HasPrefix(file, "_examples/") || strings.Contains(file, "/.") {
			continue
		}

		isGenerated, err := isGeneratedFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to check if %s is generated: %w", file, err)
		}

		if !isGenerated {
			kept = append(kept, file)
		}
	}

	return kept, nil
}

// Package output formats generated spies and writes them next to their sources.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
	"golang.org/x/tools/imports"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// FileName returns the name of the file a spy is written to: generated_<spyName>.go,
// or generated_<spyName>_test.go when the spy belongs to test code.
func FileName(spyName, pkgName string, getEnv func(string) string) string {
	filename := "generated_" + spyName
	// a spy generated into a test package, or from a test file, is test-only code
	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(getEnv("GOFILE"), "_test.go")

	if isTestFile && !strings.HasSuffix(spyName, "_test") {
		return "generated_" + strings.TrimSuffix(spyName, ".go") + "_test.go"
	}

	if !strings.HasSuffix(filename, ".go") {
		filename += ".go"
	}

	return filename
}

// WriteGeneratedCode formats code, settles its imports, and writes it to the
// file named by FileName.
func WriteGeneratedCode(
	code string, spyName string, pkgName string, getEnv func(string) string, fileWriter Writer, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	filename := FileName(spyName, pkgName, getEnv)

	formatted, err := imports.Process(filename, []byte(code), nil)
	if err != nil {
		return fmt.Errorf("generated code for %s is not valid Go: %w", filename, err)
	}

	// Reorder declarations according to project conventions
	reordered, err := reorder.Source(string(formatted))
	if err != nil {
		// If reordering fails, log but continue with the formatted code
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = string(formatted)
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

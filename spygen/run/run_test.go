package run_test

import (
	"bytes"
	"errors"
	"go/token"
	"os"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	. "github.com/onsi/gomega"
	"github.com/toejough/impspy/spygen/run"
)

const (
	todoSource = `package todo

import "context"

type Item struct{ Title string }

type Repo interface {
	Save(ctx context.Context, item Item) error
	All() []Item
}
`
	todoTestSource = `package todo_test

import "testing"

func TestNothing(t *testing.T) {}
`
	storeSource = `package store

type Backend interface {
	Put(key string, value []byte) error
}
`
	consumerSource = `package consumer

import st "example.com/app/store"

var _ st.Backend
`
)

func TestRun_LocalInterface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := newMemLoader("example.com/app/todo", map[string][]string{".": {todoSource}})
	fs := newMemFS()
	out := &bytes.Buffer{}

	err := run.Run([]string{"spygen", "Repo"}, env("todo", "todo.go"), fs, loader, out)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fs.files).To(HaveKey("generated_RepoSpy.go"))
	code := fs.files["generated_RepoSpy.go"]
	g.Expect(code).To(ContainSubstring("package todo\n"))
	g.Expect(code).To(ContainSubstring("type RepoSpy struct"))
	g.Expect(code).To(ContainSubstring("// unexported variables.\nvar (\n\t_ Repo = (*RepoSpy)(nil)\n)\n"))
	g.Expect(code).To(ContainSubstring(`impspy.NewDouble(t, "RepoSpy")`))
	g.Expect(code).To(ContainSubstring(`SetDefaultReturnValue(RepoSpyAll, []Item{})`))
	g.Expect(out.String()).To(Equal("generated_RepoSpy.go written successfully.\n"))
}

func TestRun_NameAndShared(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := newMemLoader("example.com/app/todo", map[string][]string{".": {todoSource}})
	fs := newMemFS()

	err := run.Run([]string{"spygen", "Repo", "--name", "FakeRepo", "--shared"},
		env("todo", "todo_test.go"), fs, loader, &bytes.Buffer{})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fs.files).To(HaveKey("generated_FakeRepo_test.go"))
	code := fs.files["generated_FakeRepo_test.go"]
	g.Expect(code).To(ContainSubstring("type FakeRepo struct"))
	g.Expect(code).To(ContainSubstring(`impspy.SharedDouble(t, "FakeRepo")`))
}

func TestRun_ExternalTestPackage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := newMemLoader("example.com/app/todo", map[string][]string{".": {todoSource, todoTestSource}})
	fs := newMemFS()

	err := run.Run([]string{"spygen", "Repo"}, env("todo_test", "todo_test.go"), fs, loader, &bytes.Buffer{})
	g.Expect(err).NotTo(HaveOccurred())

	code := fs.files["generated_RepoSpy_test.go"]
	g.Expect(code).To(ContainSubstring("package todo_test\n"))
	g.Expect(code).To(ContainSubstring(`"example.com/app/todo"`))
	g.Expect(code).To(ContainSubstring("var (\n\t_ todo.Repo = (*RepoSpy)(nil)\n)"))
	g.Expect(code).To(ContainSubstring("item todo.Item"))
}

func TestRun_QualifiedInterface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := newMemLoader("example.com/app/consumer", map[string][]string{
		".":                     {consumerSource},
		"example.com/app/store": {storeSource},
	})
	fs := newMemFS()

	err := run.Run([]string{"spygen", "st.Backend"}, env("consumer", "consumer.go"), fs, loader, &bytes.Buffer{})
	g.Expect(err).NotTo(HaveOccurred())

	code := fs.files["generated_BackendSpy.go"]
	g.Expect(code).To(ContainSubstring(`st "example.com/app/store"`))
	g.Expect(code).To(ContainSubstring("var (\n\t_ st.Backend = (*BackendSpy)(nil)\n)"))
	g.Expect(code).To(ContainSubstring(`impspy.OptionalParam("value", value)`))
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		pkgName string
		loadErr error
		want    string
	}{
		{name: "no GOPACKAGE", args: []string{"spygen", "Repo"}, want: "GOPACKAGE is not set"},
		{name: "missing interface argument", args: []string{"spygen"}, pkgName: "todo", want: "failed to parse arguments"},
		{name: "unknown flag", args: []string{"spygen", "Repo", "--bogus"}, pkgName: "todo", want: "failed to parse arguments"},
		{name: "interface not found", args: []string{"spygen", "Missing"}, pkgName: "todo", want: "interface not found"},
		{name: "unimported qualifier", args: []string{"spygen", "nope.Repo"}, pkgName: "todo", want: "not imported"},
		{
			name:    "load failure",
			args:    []string{"spygen", "Repo"},
			pkgName: "todo",
			loadErr: errLoad,
			want:    "failed to load current package",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			loader := newMemLoader("example.com/app/todo", map[string][]string{".": {todoSource}})
			loader.err = tc.loadErr
			fs := newMemFS()

			err := run.Run(tc.args, env(tc.pkgName, "todo.go"), fs, loader, &bytes.Buffer{})
			g.Expect(err).To(MatchError(ContainSubstring(tc.want)))
			g.Expect(fs.files).To(BeEmpty())
		})
	}
}

var errLoad = errors.New("disk on fire")

type memFS struct {
	files map[string]string
}

func (m *memFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	m.files[name] = string(data)

	return nil
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string]string)}
}

// memLoader serves packages parsed from in-memory sources.
type memLoader struct {
	importPath string
	sources    map[string][]string
	err        error
}

func (m *memLoader) ImportPath(string) (string, error) {
	return m.importPath, nil
}

func (m *memLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	if m.err != nil {
		return nil, nil, m.err
	}

	sources, ok := m.sources[importPath]
	if !ok {
		return nil, nil, errors.New("no such package: " + importPath)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	files := make([]*dst.File, 0, len(sources))

	for _, src := range sources {
		file, err := dec.Parse(src)
		if err != nil {
			return nil, nil, err
		}

		files = append(files, file)
	}

	return files, fset, nil
}

func newMemLoader(importPath string, sources map[string][]string) *memLoader {
	return &memLoader{importPath: importPath, sources: sources}
}

func env(pkgName, goFile string) func(string) string {
	return func(key string) string {
		switch key {
		case "GOPACKAGE":
			return pkgName
		case "GOFILE":
			return goFile
		default:
			return ""
		}
	}
}

package detect_test

import (
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	. "github.com/onsi/gomega"
	astutil "github.com/toejough/impspy/spygen/run/0_util"
	detect "github.com/toejough/impspy/spygen/run/3_detect"
)

func parseFiles(t *testing.T, sources ...string) []*dst.File {
	t.Helper()

	files := make([]*dst.File, 0, len(sources))

	for _, src := range sources {
		file, err := decorator.Parse(src)
		if err != nil {
			t.Fatalf("failed to parse source: %v", err)
		}

		files = append(files, file)
	}

	return files
}

func methodNames(iface detect.Interface) []string {
	names := make([]string, 0, len(iface.Methods))
	for _, method := range iface.Methods {
		names = append(names, method.Name)
	}

	return names
}

const repoSource = `package todo

import (
	"context"
	clock "time"
)

type Item struct{ Title string }

type Callback func(error)

type Reader interface {
	FetchItems(ctx context.Context, filter string) ([]Item, error)
}

type Writer interface {
	Reader
	Insert(item Item, position int)
	Touch(at clock.Time)
}

type Repository interface {
	Writer
	error
	Reader
	Delete(Item, Callback) error
}
`

func TestFindInterface_FlattensEmbeds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface, err := detect.FindInterface(parseFiles(t, repoSource), "Repository")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(iface.Name).To(Equal("Repository"))
	g.Expect(iface.PkgName).To(Equal("todo"))
	g.Expect(methodNames(iface)).To(Equal([]string{"FetchItems", "Insert", "Touch", "Error", "Delete"}))
	g.Expect(iface.Imports).To(Equal([]detect.Import{
		{Alias: "clock", Path: "time"},
		{Alias: "context", Path: "context"},
	}))
	g.Expect(iface.Nilable).To(HaveKey("Callback"))
	g.Expect(iface.Nilable).To(HaveKey("Reader"))
	g.Expect(iface.Nilable).NotTo(HaveKey("Item"))
}

func TestFindInterface_Fields(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface, err := detect.FindInterface(parseFiles(t, repoSource), "Repository")
	g.Expect(err).NotTo(HaveOccurred())

	fetch := iface.Methods[0]
	g.Expect(fetch.Params).To(HaveLen(2))
	g.Expect(fetch.Params[0].Name).To(Equal("ctx"))
	g.Expect(astutil.TypeString(fetch.Params[1].Type, "")).To(Equal("string"))
	g.Expect(fetch.Results).To(HaveLen(2))
	g.Expect(fetch.Results[0].Name).To(BeEmpty())
	g.Expect(astutil.TypeString(fetch.Results[0].Type, "todo")).To(Equal("[]todo.Item"))

	errMethod := iface.Methods[3]
	g.Expect(errMethod.Params).To(BeEmpty())
	g.Expect(astutil.TypeString(errMethod.Results[0].Type, "")).To(Equal("string"))

	deleteMethod := iface.Methods[4]
	g.Expect(deleteMethod.Params[0].Name).To(BeEmpty())
	g.Expect(deleteMethod.Params[1].Name).To(BeEmpty())
}

func TestFindInterface_MultipleNamesPerField(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	iface, err := detect.FindInterface(parseFiles(t, `package p

type Mover interface {
	Move(dx, dy int) (x, y int)
}
`), "Mover")
	g.Expect(err).NotTo(HaveOccurred())

	move := iface.Methods[0]
	g.Expect(move.Params).To(HaveLen(2))
	g.Expect(move.Params[1].Name).To(Equal("dy"))
	g.Expect(move.Results).To(HaveLen(2))
	g.Expect(move.Results[1].Name).To(Equal("y"))
}

func TestFindInterface_AcrossFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files := parseFiles(t,
		"package todo\n\nimport \"io\"\n\ntype Closer interface{ Close(w io.Writer) }\n",
		"package todo\n\ntype Store interface {\n\tCloser\n\tReset()\n}\n",
	)

	iface, err := detect.FindInterface(files, "Store")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(methodNames(iface)).To(Equal([]string{"Close", "Reset"}))
	g.Expect(iface.Imports).To(Equal([]detect.Import{{Alias: "io", Path: "io"}}))
}

func TestFindInterface_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		target  string
		wantErr error
	}{
		{
			name:    "missing",
			source:  "package p\n",
			target:  "Missing",
			wantErr: detect.ErrInterfaceNotFound,
		},
		{
			name:    "not an interface",
			source:  "package p\n\ntype Repo struct{}\n",
			target:  "Repo",
			wantErr: detect.ErrInterfaceNotFound,
		},
		{
			name:    "generic",
			source:  "package p\n\ntype Repo[T any] interface{ Get() T }\n",
			target:  "Repo",
			wantErr: detect.ErrGenericInterface,
		},
		{
			name:    "external embed",
			source:  "package p\n\nimport \"io\"\n\ntype Repo interface{ io.Reader }\n",
			target:  "Repo",
			wantErr: detect.ErrEmbeddedExternal,
		},
		{
			name:    "unknown embed",
			source:  "package p\n\ntype Repo interface{ Missing }\n",
			target:  "Repo",
			wantErr: detect.ErrInterfaceNotFound,
		},
		{
			name:    "unimported package",
			source:  "package p\n\ntype Repo interface{ Touch(at time.Time) }\n",
			target:  "Repo",
			wantErr: detect.ErrUnknownImport,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := detect.FindInterface(parseFiles(t, tc.source), tc.target)
			g.Expect(err).To(MatchError(tc.wantErr))
		})
	}
}

func TestImportPathFor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	files := parseFiles(t, repoSource, "package todo\n\nimport \"example.com/app/store\"\n")

	path, ok := detect.ImportPathFor("clock", files)
	g.Expect(ok).To(BeTrue())
	g.Expect(path).To(Equal("time"))

	path, ok = detect.ImportPathFor("store", files)
	g.Expect(ok).To(BeTrue())
	g.Expect(path).To(Equal("example.com/app/store"))

	_, ok = detect.ImportPathFor("time", files)
	g.Expect(ok).To(BeFalse(), "an aliased import is only reachable through its alias")
}

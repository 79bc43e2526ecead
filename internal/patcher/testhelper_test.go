package patcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/platform"
)

// faultSystem wraps a System and fails chosen operations on chosen paths.
type faultSystem struct {
	base       platform.System
	writeErrs  map[string]error
	removeErrs map[string]error
	readErrs   map[string]error
	writes     []string
}

func newFaultSystem() *faultSystem {
	return &faultSystem{
		base:       platform.OS{},
		writeErrs:  map[string]error{},
		removeErrs: map[string]error{},
		readErrs:   map[string]error{},
	}
}

func (f *faultSystem) Stat(name string) (os.FileInfo, error) { return f.base.Stat(name) }

func (f *faultSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := f.readErrs[filepath.Clean(name)]; ok {
		return nil, err
	}
	return f.base.ReadFile(name)
}

func (f *faultSystem) ReadDir(name string) ([]fs.DirEntry, error) { return f.base.ReadDir(name) }

func (f *faultSystem) MkdirAll(path string, perm os.FileMode) error {
	return f.base.MkdirAll(path, perm)
}

func (f *faultSystem) Remove(name string) error {
	if err, ok := f.removeErrs[filepath.Clean(name)]; ok {
		return err
	}
	return f.base.Remove(name)
}

func (f *faultSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	f.writes = append(f.writes, filepath.Clean(filename))
	if err, ok := f.writeErrs[filepath.Clean(filename)]; ok {
		return err
	}
	return f.base.WriteFileAtomic(filename, data, perm)
}

// project is a host checkout in a temp dir.
type project struct {
	root   string
	target Target
}

func newProject(t *testing.T, entry, goMod string) *project {
	t.Helper()
	root := t.TempDir()
	p := &project{
		root: root,
		target: Target{
			EntryPoint: filepath.Join(root, "cmd", "answer", "main.go"),
			GoMod:      filepath.Join(root, "go.mod"),
		},
	}
	if err := os.MkdirAll(filepath.Dir(p.target.EntryPoint), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, p.target.EntryPoint, entry)
	writeFile(t, p.target.GoMod, goMod)
	return p
}

func (p *project) entry(t *testing.T) string {
	t.Helper()
	return readFile(t, p.target.EntryPoint)
}

func (p *project) goMod(t *testing.T) string {
	t.Helper()
	return readFile(t, p.target.GoMod)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func plugin(name string) manifest.PluginManifest {
	return manifest.PluginManifest{Name: name, PackageName: name, Kind: manifest.KindBackend}
}

var testLayout = Layout{ImportPrefix: "github.com/org/plugins", LocalPrefix: "./plugins"}

package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/runtime"
)

type recordingRunner struct {
	commands []string
	dirs     []string
	fail     map[string]error
}

func (r *recordingRunner) Execute(_ context.Context, command string, opts runtime.Options) (string, error) {
	r.commands = append(r.commands, command)
	r.dirs = append(r.dirs, opts.Dir)
	return "", r.fail[command]
}

func newProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	cfg := config.Default()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, cfg.Paths.Plugins), 0755); err != nil {
		t.Fatal(err)
	}
	return root, cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertNoPlaceholders(t *testing.T, dir string, files []string) {
	t.Helper()
	for _, f := range files {
		if content := readFile(t, filepath.Join(dir, f)); strings.Contains(content, "{{") {
			t.Errorf("%s still contains a placeholder:\n%s", f, content)
		}
	}
}

func TestGenerate_Backend(t *testing.T) {
	root, cfg := newProject(t)
	runner := &recordingRunner{}

	res, err := New(cfg, WithRunner(runner)).Generate(context.Background(), Request{
		Name:        "demo-cache",
		ProjectPath: root,
		Kind:        manifest.KindBackend,
		SubKind:     manifest.SubKindCache,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantDir := filepath.Join(root, cfg.Paths.Plugins, "demo-cache")
	if res.OutputDir != wantDir {
		t.Errorf("OutputDir = %q, want %q", res.OutputDir, wantDir)
	}
	want := []string{
		"README.md",
		"demo_cache.go",
		"go.mod",
		"i18n/en_US.yaml",
		"i18n/translation.go",
		"i18n/zh_CN.yaml",
		"info.yaml",
	}
	if !slices.Equal(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	assertNoPlaceholders(t, res.OutputDir, res.Files)

	goFile := readFile(t, filepath.Join(wantDir, "demo_cache.go"))
	for _, s := range []string{
		"package demo_cache",
		"type DemoCache struct",
		`"github.com/apache/answer-plugins/demo-cache/i18n"`,
		"func (p *DemoCache) GetString(",
	} {
		if !strings.Contains(goFile, s) {
			t.Errorf("demo_cache.go missing %q", s)
		}
	}

	info := readFile(t, filepath.Join(wantDir, "info.yaml"))
	if !strings.Contains(info, "slug_name: demo_cache") || !strings.Contains(info, "type: cache") {
		t.Errorf("info.yaml = %q", info)
	}

	goMod := readFile(t, filepath.Join(wantDir, "go.mod"))
	if !strings.HasPrefix(goMod, "module github.com/apache/answer-plugins/demo-cache\n") {
		t.Errorf("go.mod = %q", goMod)
	}

	if !slices.Equal(runner.commands, []string{"go mod tidy"}) {
		t.Errorf("post steps = %v, want only go mod tidy", runner.commands)
	}
	if runner.dirs[0] != wantDir {
		t.Errorf("post step dir = %q, want %q", runner.dirs[0], wantDir)
	}
}

func TestGenerate_EveryType(t *testing.T) {
	all := append(slices.Clone(manifest.BackendSubKinds), manifest.StandardUISubKinds...)
	for _, sub := range all {
		t.Run(string(sub), func(t *testing.T) {
			root, cfg := newProject(t)
			res, err := New(cfg, WithRunner(&recordingRunner{})).Generate(context.Background(), Request{
				Name:        "my_" + strings.ReplaceAll(string(sub), "-", "_"),
				ProjectPath: root,
				SubKind:     sub,
				RoutePath:   "/hello",
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("Warnings = %v", res.Warnings)
			}
			assertNoPlaceholders(t, res.OutputDir, res.Files)

			m, ok := manifest.Read(res.OutputDir)
			if !ok {
				t.Fatal("generated plugin has no readable descriptor")
			}
			if m.SubKind != sub {
				t.Errorf("descriptor sub-kind = %q, want %q", m.SubKind, sub)
			}
		})
	}
}

func TestGenerate_StandardUI(t *testing.T) {
	root, cfg := newProject(t)
	runner := &recordingRunner{}

	res, err := New(cfg, WithRunner(runner)).Generate(context.Background(), Request{
		Name:        "helloRoute",
		ProjectPath: root,
		Kind:        manifest.KindStandardUI,
		SubKind:     manifest.SubKindRoute,
		RoutePath:   "/hello",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, f := range []string{"Component.tsx", "index.ts", "package.json", "vite.config.ts", "hello_route.go", "i18n/index.ts"} {
		if !slices.Contains(res.Files, f) {
			t.Errorf("Files missing %s: %v", f, res.Files)
		}
	}
	info := readFile(t, filepath.Join(res.OutputDir, "info.yaml"))
	if !strings.Contains(info, "route: /hello") {
		t.Errorf("info.yaml = %q, want route", info)
	}
	if !slices.Equal(runner.commands, []string{"pnpm install", "go mod tidy"}) {
		t.Errorf("post steps = %v", runner.commands)
	}
}

func TestGenerate_PostStepFailureIsWarning(t *testing.T) {
	root, cfg := newProject(t)
	runner := &recordingRunner{fail: map[string]error{
		"go mod tidy": apperr.CommandExecution("go mod tidy", 1, os.ErrNotExist),
	}}

	res, err := New(cfg, WithRunner(runner)).Generate(context.Background(), Request{
		Name:        "demo",
		ProjectPath: root,
		SubKind:     manifest.SubKindSearch,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "go mod tidy") {
		t.Errorf("Warnings = %v, want one go mod tidy warning", res.Warnings)
	}
}

func TestGenerate_SkipPostSteps(t *testing.T) {
	root, cfg := newProject(t)
	runner := &recordingRunner{}

	_, err := New(cfg, WithRunner(runner)).Generate(context.Background(), Request{
		Name: "demo", ProjectPath: root, SubKind: manifest.SubKindEditor, SkipPostSteps: true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("post steps ran: %v", runner.commands)
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	root, cfg := newProject(t)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty name", Request{ProjectPath: root, SubKind: manifest.SubKindCache}},
		{"path in name", Request{Name: "../evil", ProjectPath: root, SubKind: manifest.SubKindCache}},
		{"unknown type", Request{Name: "demo", ProjectPath: root, SubKind: "widget"}},
		{"kind mismatch", Request{Name: "demo", ProjectPath: root, Kind: manifest.KindStandardUI, SubKind: manifest.SubKindCache}},
		{"route without path", Request{Name: "demo", ProjectPath: root, SubKind: manifest.SubKindRoute}},
		{"route not absolute", Request{Name: "demo", ProjectPath: root, SubKind: manifest.SubKindRoute, RoutePath: "hello"}},
		{"not a project", Request{Name: "demo", ProjectPath: t.TempDir(), SubKind: manifest.SubKindCache}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{}
			_, err := New(cfg, WithRunner(runner)).Generate(context.Background(), tt.req)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("Generate() error = %v, want validation error", err)
			}
			if len(runner.commands) != 0 {
				t.Errorf("post steps ran: %v", runner.commands)
			}
		})
	}

	entries, _ := os.ReadDir(filepath.Join(root, cfg.Paths.Plugins))
	if len(entries) != 0 {
		t.Errorf("plugins dir not left empty: %v", entries)
	}
}

func TestGenerate_RefusesNonEmptyDir(t *testing.T) {
	root, cfg := newProject(t)
	existing := filepath.Join(root, cfg.Paths.Plugins, "demo", "keep.txt")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(cfg, WithRunner(&recordingRunner{})).Generate(context.Background(), Request{
		Name: "demo", ProjectPath: root, SubKind: manifest.SubKindCache,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("Generate() error = %v, want validation error", err)
	}
	if got := readFile(t, existing); got != "mine" {
		t.Errorf("existing file changed to %q", got)
	}
}

func TestGenerate_AcceptsEmptyDir(t *testing.T) {
	root, cfg := newProject(t)
	if err := os.MkdirAll(filepath.Join(root, cfg.Paths.Plugins, "demo"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := New(cfg, WithRunner(&recordingRunner{})).Generate(context.Background(), Request{
		Name: "demo", ProjectPath: root, SubKind: manifest.SubKindCache, SkipPostSteps: true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/patcher"
	"github.com/answer-tools/answer-plugin/internal/prompts"
	"github.com/answer-tools/answer-plugin/internal/runtime"
	"github.com/answer-tools/answer-plugin/internal/scaffold"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	commands []string
	fail     error
}

func (s *stubRunner) Execute(_ context.Context, command string, _ runtime.Options) (string, error) {
	s.commands = append(s.commands, command)
	return "", s.fail
}

type noUI struct{}

func (noUI) Select(string, []prompts.Option, *string) error {
	return errors.New("unexpected prompt")
}
func (noUI) Input(string, func(string) error, *string) error { return errors.New("unexpected prompt") }
func (noUI) Confirm(string, *bool) error                     { return errors.New("unexpected prompt") }

// setup isolates HOME, replaces the prompt UI and command runner, and
// resets flag state left over from earlier runs.
func setup(t *testing.T) *stubRunner {
	t.Helper()
	color.NoColor = true
	t.Setenv("HOME", t.TempDir())

	runner := &stubRunner{}
	origUI, origRunner := newUI, commandRunner
	newUI = func() prompts.UI { return noUI{} }
	commandRunner = func() scaffold.CommandRunner { return runner }
	t.Cleanup(func() { newUI, commandRunner = origUI, origRunner })

	installFlags, uninstallFlags = registrationFlags{}, registrationFlags{}
	createPath, createType, createKind, createRoute, createSkip = "", "", "", "", false
	listPath, listJSON = "", false
	verifyPath, verifyIntegration, verifyCompile = "", false, false
	return runner
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newAnswerProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"cmd/answer/main.go": "package main\n\nfunc main() {}\n",
		"go.mod":             "module github.com/apache/answer\n\ngo 1.23\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ui/src/plugins"), 0755))
	return root
}

func TestHandleError(t *testing.T) {
	color.NoColor = true
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, 0, ""},
		{"validation", apperr.Validation("name", "bad name"), 0, "Warning: bad name"},
		{"command", apperr.CommandExecution("go mod tidy", 1, errors.New("boom")), 0, "Warning: command failed"},
		{"filesystem", apperr.FileSystem("/x", "writing", errors.New("denied")), 1, "Error: writing (/x): denied"},
		{"plain", errors.New("unexpected"), 1, "Error: unexpected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, handleError(&buf, tt.err))
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}
}

func TestListSummary(t *testing.T) {
	assert.Equal(t, "1 plugin: 1 installed, 0 not installed\n", listSummary([]listEntry{{Installed: true}}))
	assert.Equal(t, "3 plugins: 1 installed, 2 not installed\n", listSummary([]listEntry{{Installed: true}, {}, {}}))
}

func TestRenderList(t *testing.T) {
	out := renderList([]listEntry{
		{Name: "demo-cache", Type: "cache", Slug: "demo_cache", Version: "1.0.0", Installed: true},
		{Name: "editor-x", Type: "editor", Version: "0.0.1"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "installed")
	assert.Contains(t, lines[2], "not installed")
	assert.Contains(t, lines[2], "-")
	assert.Equal(t, strings.Index(lines[0], "TYPE"), strings.Index(lines[1], " cache")+1, "type column aligned with its header")
}

func TestPrintPreview(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printPreview(&buf, patcher.OpInstall, "/p", []patcher.FileChange{
		{Path: "/p/go.mod", Before: "module x\n", After: "module x\n\nreplace a => ./a\n"},
	})
	out := buf.String()
	assert.Contains(t, out, "--- a/go.mod")
	assert.Contains(t, out, "+++ b/go.mod")
	assert.Contains(t, out, "+replace a => ./a")

	buf.Reset()
	printPreview(&buf, patcher.OpInstall, "/p", nil)
	assert.Equal(t, "No changes.\n", buf.String())
}

func TestCreateInstallListUninstall(t *testing.T) {
	runner := setup(t)
	root := newAnswerProject(t)

	out, err := run(t, "create", "demo-cache", "--type", "cache", "--path", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Created cache plugin demo-cache")
	assert.Equal(t, []string{"go mod tidy"}, runner.commands)

	runner.commands = nil
	out, err = run(t, "install", "--dry-run", "--path", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, `+	_ "github.com/apache/answer-plugins/demo-cache"`)
	mainGo, _ := os.ReadFile(filepath.Join(root, "cmd/answer/main.go"))
	assert.NotContains(t, string(mainGo), "demo-cache", "dry run wrote the entry point")
	assert.Empty(t, runner.commands)

	installFlags = registrationFlags{}
	out, err = run(t, "install", "--path", root, "--yes")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Installed demo-cache")
	require.Len(t, runner.commands, 2)
	assert.Equal(t, "go mod tidy", runner.commands[0])
	assert.True(t, strings.HasPrefix(runner.commands[1], "go run ./cmd/answer/main.go i18n -s "))
	assert.DirExists(t, filepath.Join(root, "answer-data/i18n"))

	goMod, _ := os.ReadFile(filepath.Join(root, "go.mod"))
	assert.Contains(t, string(goMod), "replace github.com/apache/answer-plugins/demo-cache => ./ui/src/plugins/demo-cache\n")

	out, err = run(t, "list", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "demo-cache")
	assert.Contains(t, out, "1 plugin: 1 installed, 0 not installed")

	installFlags = registrationFlags{}
	out, err = run(t, "install", "--path", root)
	require.NoError(t, err, out)
	assert.Contains(t, out, "All plugins are already installed.")

	runner.commands = nil
	out, err = run(t, "uninstall", "demo-cache", "--path", root, "--yes")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Uninstalled demo-cache")
	assert.Equal(t, []string{"go mod tidy"}, runner.commands)

	mainGo, _ = os.ReadFile(filepath.Join(root, "cmd/answer/main.go"))
	assert.Equal(t, "package main\n\nfunc main() {}\n", string(mainGo))
}

func TestInstall_UnknownPlugin(t *testing.T) {
	setup(t)
	root := newAnswerProject(t)

	_, err := run(t, "install", "ghost", "--path", root, "--yes")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, 0, handleError(&bytes.Buffer{}, err))
}

func TestInstall_TidyFailureIsWarning(t *testing.T) {
	runner := setup(t)
	root := newAnswerProject(t)
	_, err := run(t, "create", "demo", "--type", "search", "--path", root, "--skip-install")
	require.NoError(t, err)

	runner.fail = apperr.CommandExecution("go mod tidy", 1, errors.New("offline"))
	out, err := run(t, "install", "--path", root, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed demo")
	assert.Contains(t, out, "Warning: go mod tidy failed")
}

func TestVersion(t *testing.T) {
	setup(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc", "today"
	versionShort, versionJSON = true, false
	t.Cleanup(func() { versionShort = false })

	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

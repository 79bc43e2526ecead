// Package verify checks that a plugin directory is complete and usable by
// the host: required files, descriptor schema, Go package clause, plugin
// go.mod, and optionally registration status and a compile check.
package verify

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/names"
	"github.com/answer-tools/answer-plugin/internal/patcher"
	"github.com/answer-tools/answer-plugin/internal/platform"
	"github.com/answer-tools/answer-plugin/internal/runtime"
	"golang.org/x/mod/modfile"
)

// Status is the outcome of one check.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
	StatusSkip
)

// Label returns the fixed-width tag printed before a check.
func (s Status) Label() string {
	switch s {
	case StatusOK:
		return "[ OK ]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[SKIP]"
	}
}

// Check is one verification step.
type Check struct {
	Step    string
	Status  Status
	Message string
}

// Report collects the checks run against one plugin.
type Report struct {
	Plugin string
	Dir    string
	Checks []Check
}

func (r *Report) add(step string, status Status, format string, args ...any) {
	r.Checks = append(r.Checks, Check{Step: step, Status: status, Message: fmt.Sprintf(format, args...)})
}

// Passed reports whether no check failed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

// Count returns how many checks ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Write prints one line per check.
func (r *Report) Write(w io.Writer) {
	r.WriteWith(w, Status.Label)
}

// WriteWith is Write with a custom status label, e.g. a colored one.
func (r *Report) WriteWith(w io.Writer, label func(Status) string) {
	fmt.Fprintf(w, "Verifying %s (%s):\n", r.Plugin, r.Dir)
	for _, c := range r.Checks {
		fmt.Fprintf(w, "  %s %s: %s\n", label(c.Status), c.Step, c.Message)
	}
}

// CommandRunner runs the compile check.
type CommandRunner interface {
	Execute(ctx context.Context, command string, opts runtime.Options) (string, error)
}

// Options selects the plugin and the optional checks.
type Options struct {
	ProjectPath string
	Plugin      string
	Config      *config.Config
	// Integration checks that the host imports and replaces the plugin.
	Integration bool
	// Compile runs go build in the plugin directory. Requires Runner.
	Compile bool
	Runner  CommandRunner
}

// Run verifies the plugin named opts.Plugin under the configured plugins
// directory. Problems are reported as failed checks, not as errors; the
// returned error is non-nil only for an unusable plugin name.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := names.Validate(opts.Plugin); err != nil {
		return nil, err
	}
	cfg := opts.Config
	dir := filepath.Join(opts.ProjectPath, cfg.Paths.Plugins, opts.Plugin)
	r := &Report{Plugin: opts.Plugin, Dir: dir}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		r.add("Plugin directory", StatusFail, "%s not found", dir)
		return r, nil
	}
	r.add("Plugin directory", StatusOK, "%s exists", dir)

	goFiles := checkRequiredFiles(r, dir)
	checkDescriptor(r, dir)
	checkGoPackage(r, dir, goFiles)
	checkGoMod(r, dir, cfg.Registration.ImportPrefix, opts.Plugin)

	if opts.Integration {
		checkIntegration(r, opts.ProjectPath, cfg, opts.Plugin)
	}
	if opts.Compile {
		checkCompile(ctx, r, dir, cfg, opts.Runner)
	}
	return r, nil
}

func checkRequiredFiles(r *Report, dir string) []string {
	goFiles, _ := filepath.Glob(filepath.Join(dir, "*.go"))
	sort.Strings(goFiles)

	required := []struct {
		name   string
		exists bool
	}{
		{"Go source", len(goFiles) > 0},
		{manifest.DescriptorFile, platform.Exists(platform.OS{}, filepath.Join(dir, manifest.DescriptorFile))},
		{"go.mod", platform.Exists(platform.OS{}, filepath.Join(dir, "go.mod"))},
	}
	for _, f := range required {
		if f.exists {
			r.add("Required file", StatusOK, "%s present", f.name)
		} else {
			r.add("Required file", StatusFail, "%s missing", f.name)
		}
	}
	return goFiles
}

func checkDescriptor(r *Report, dir string) {
	file := filepath.Join(dir, manifest.DescriptorFile)
	res, err := manifest.ValidateFile(file)
	if err != nil {
		r.add("Descriptor", StatusFail, "%v", err)
		return
	}
	if !res.Valid {
		msgs := make([]string, len(res.Issues))
		for i, issue := range res.Issues {
			msgs[i] = issue.String()
		}
		r.add("Descriptor", StatusFail, "%s", strings.Join(msgs, "; "))
		return
	}
	r.add("Descriptor", StatusOK, "%s matches the schema", manifest.DescriptorFile)
}

func checkGoPackage(r *Report, dir string, goFiles []string) {
	if len(goFiles) == 0 {
		r.add("Go package", StatusSkip, "no Go files")
		return
	}
	f, err := parser.ParseFile(token.NewFileSet(), goFiles[0], nil, parser.PackageClauseOnly)
	if err != nil {
		r.add("Go package", StatusFail, "%s: %v", filepath.Base(goFiles[0]), err)
		return
	}
	pkg := f.Name.Name
	if want := names.Transform(filepath.Base(dir)).GoPackage; pkg != want {
		r.add("Go package", StatusWarn, "package %s does not match directory (expected %s)", pkg, want)
		return
	}
	r.add("Go package", StatusOK, "package %s", pkg)
}

func checkGoMod(r *Report, dir, importPrefix, plugin string) {
	file := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(file)
	if err != nil {
		r.add("Plugin go.mod", StatusSkip, "go.mod not readable")
		return
	}
	mf, err := modfile.ParseLax(file, data, nil)
	if err != nil {
		r.add("Plugin go.mod", StatusFail, "%v", err)
		return
	}
	switch {
	case mf.Module == nil:
		r.add("Plugin go.mod", StatusFail, "no module directive")
	case mf.Go == nil:
		r.add("Plugin go.mod", StatusFail, "no go directive")
	case mf.Module.Mod.Path != path.Join(importPrefix, names.Transform(plugin).PackageName):
		r.add("Plugin go.mod", StatusWarn, "module %s is not under %s", mf.Module.Mod.Path, importPrefix)
	default:
		r.add("Plugin go.mod", StatusOK, "module %s, go %s", mf.Module.Mod.Path, mf.Go.Version)
	}
}

func checkIntegration(r *Report, projectPath string, cfg *config.Config, plugin string) {
	layout := patcher.Layout{ImportPrefix: cfg.Registration.ImportPrefix, LocalPrefix: cfg.Registration.LocalPrefix}
	ref, err := layout.Reference(names.Transform(plugin).PackageName)
	if err != nil {
		r.add("Integration", StatusFail, "%v", err)
		return
	}

	sys := platform.OS{}
	entry, _ := platform.ReadOrEmpty(sys, filepath.Join(projectPath, cfg.Paths.MainGo))
	mod, _ := platform.ReadOrEmpty(sys, filepath.Join(projectPath, cfg.Paths.GoMod))
	imported := patcher.HasImport(string(entry), ref.ImportPath)
	replaced := patcher.HasReplace(string(mod), ref.ImportPath)
	if imported && replaced {
		r.add("Integration", StatusOK, "imported in %s and replaced in %s", cfg.Paths.MainGo, cfg.Paths.GoMod)
		return
	}
	r.add("Integration", StatusFail, "not registered (import: %t, replace: %t)", imported, replaced)
}

func checkCompile(ctx context.Context, r *Report, dir string, cfg *config.Config, runner CommandRunner) {
	if runner == nil {
		r.add("Compile", StatusSkip, "no command runner")
		return
	}
	tidy := runtime.Options{Dir: dir, Timeout: cfg.Timeouts.GoModTidy, Retries: cfg.Retries.GoModTidy, RetryDelay: cfg.RetryDelay}
	if _, err := runner.Execute(ctx, cfg.Commands.GoModTidy, tidy); err != nil {
		r.add("Compile", StatusWarn, "%s failed: %v", cfg.Commands.GoModTidy, err)
	}
	build := runtime.Options{Dir: dir, Timeout: cfg.Timeouts.Default, Retries: 0}
	if _, err := runner.Execute(ctx, "go build ./...", build); err != nil {
		r.add("Compile", StatusFail, "%v", err)
		return
	}
	r.add("Compile", StatusOK, "go build succeeded")
}

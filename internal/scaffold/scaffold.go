package scaffold

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/names"
	"github.com/answer-tools/answer-plugin/internal/runtime"
	"github.com/answer-tools/answer-plugin/internal/template"
	"github.com/rs/zerolog"
)

//go:embed all:templates
var templatesFS embed.FS

const templatesRoot = "templates"

// Template context keys.
const (
	KeyPluginName        = "plugin_name"
	KeyPackageName       = "package_name"
	KeyPluginDisplayName = "plugin_display_name"
	KeyPluginSlugName    = "plugin_slug_name"
	KeyInfoSlugName      = "info_slug_name"
	KeyPluginType        = "plugin_type"
	KeyRoutePath         = "route_path"
	KeyImportPath        = "import_path"
	KeyCLIName           = "cli_name"
)

// Request describes the plugin to generate.
type Request struct {
	Name        string
	ProjectPath string
	Kind        manifest.Kind
	SubKind     manifest.SubKind
	// RoutePath is required for route plugins and ignored otherwise.
	RoutePath string
	// SkipPostSteps leaves out pnpm install and go mod tidy.
	SkipPostSteps bool
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	// Files are relative to OutputDir, slash-separated and sorted.
	Files    []string
	Warnings []string
}

// CommandRunner runs the post-generation commands.
type CommandRunner interface {
	Execute(ctx context.Context, command string, opts runtime.Options) (string, error)
}

// Generator renders plugins for one configuration.
type Generator struct {
	cfg    *config.Config
	runner CommandRunner
	engine *template.Engine
	logger zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRunner replaces the command runner used for post steps.
func WithRunner(r CommandRunner) Option {
	return func(g *Generator) { g.runner = r }
}

// WithLogger sets the logger. The default logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New returns a Generator. Without WithRunner, post steps run real processes.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.runner == nil {
		g.runner = runtime.New(runtime.WithLogger(g.logger))
	}
	g.engine = template.New(template.WithLogger(g.logger))
	return g
}

// Generate validates req and writes the plugin into
// <ProjectPath>/<plugins path>/<kebab name>. The output directory must not
// exist or be empty; if generation fails partway, a directory created by
// this call is removed again. Post-step command failures and descriptor
// schema issues become warnings on the result.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}

	n := names.Transform(req.Name)
	importPath, err := names.ImportPath(g.cfg.Registration.ImportPrefix, n.PackageName)
	if err != nil {
		return nil, err
	}
	tctx := template.Context{
		KeyPluginName:        n.PackageName,
		KeyPackageName:       n.GoPackage,
		KeyPluginDisplayName: n.DisplayName,
		KeyPluginSlugName:    n.SlugName,
		KeyInfoSlugName:      n.InfoSlugName,
		KeyPluginType:        string(req.SubKind),
		KeyRoutePath:         req.RoutePath,
		KeyImportPath:        importPath,
		KeyCLIName:           branding.CLIName(),
	}

	pluginsDir := filepath.Join(req.ProjectPath, g.cfg.Paths.Plugins)
	outputDir := filepath.Join(pluginsDir, n.PackageName)
	created, err := prepareDir(outputDir)
	if err != nil {
		return nil, err
	}

	files, err := g.render(req, n, tctx, outputDir)
	if err != nil {
		if created {
			if rmErr := os.RemoveAll(outputDir); rmErr != nil {
				g.logger.Warn().Str("component", "scaffold").Str("path", outputDir).Err(rmErr).Msg("Failed to clean up partial plugin directory")
			}
		}
		return nil, err
	}
	sort.Strings(files)

	result := &Result{OutputDir: outputDir, Files: files}
	result.Warnings = append(result.Warnings, validateDescriptor(filepath.Join(outputDir, manifest.DescriptorFile))...)

	if !req.SkipPostSteps {
		result.Warnings = append(result.Warnings, g.postSteps(ctx, req.Kind, outputDir)...)
	}

	g.logger.Info().
		Str("component", "scaffold").
		Str("plugin", n.PackageName).
		Str("type", string(req.SubKind)).
		Int("files", len(files)).
		Msg("Generated plugin")
	return result, nil
}

func (g *Generator) validate(req Request) error {
	if err := names.Validate(req.Name); err != nil {
		return err
	}
	kind, ok := manifest.KindOf(req.SubKind)
	if !ok {
		return apperr.Validation("type", "unknown plugin type %q", req.SubKind)
	}
	if req.Kind != "" && req.Kind != kind {
		return apperr.Validation("type", "plugin type %q is not a %s plugin", req.SubKind, req.Kind)
	}
	if req.SubKind == manifest.SubKindRoute {
		if err := names.ValidateRoutePath(req.RoutePath); err != nil {
			return err
		}
	}

	pluginsDir := filepath.Join(req.ProjectPath, g.cfg.Paths.Plugins)
	info, err := os.Stat(pluginsDir)
	if err != nil || !info.IsDir() {
		return apperr.Validation("path", "%s has no plugins directory at %s; is it an Answer checkout?", req.ProjectPath, g.cfg.Paths.Plugins)
	}
	return nil
}

// prepareDir creates dir, or accepts it when it already exists and is
// empty. created reports whether this call made it.
func prepareDir(dir string) (created bool, err error) {
	entries, err := os.ReadDir(dir)
	switch {
	case err == nil && len(entries) > 0:
		return false, apperr.Validation("name", "plugin directory %s already exists and is not empty", dir)
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, apperr.FileSystem(dir, "reading plugin directory", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, apperr.FileSystem(dir, "creating plugin directory", err)
	}
	return true, nil
}

// file maps one embedded template to its output path.
type file struct {
	src, dest string
}

func (g *Generator) render(req Request, n names.Names, tctx template.Context, outputDir string) ([]string, error) {
	kind, _ := manifest.KindOf(req.SubKind)
	goFile := n.GoPackage + ".go"

	var plan []file
	switch kind {
	case manifest.KindBackend:
		src := path.Join(templatesRoot, "backend", string(req.SubKind)+".go"+template.TemplateSuffix)
		if _, err := fs.Stat(templatesFS, src); err != nil {
			src = path.Join(templatesRoot, "plugin.go"+template.TemplateSuffix)
		}
		plan = append(plan,
			file{src, goFile},
			file{path.Join(templatesRoot, "backend", "info.yaml"+template.TemplateSuffix), manifest.DescriptorFile},
		)
	case manifest.KindStandardUI:
		typeDir := path.Join(templatesRoot, "ui", "types", string(req.SubKind))
		plan = append(plan,
			file{path.Join(templatesRoot, "ui", "plugin.go"+template.TemplateSuffix), goFile},
			file{path.Join(typeDir, "Component.tsx"+template.TemplateSuffix), "Component.tsx"},
			file{path.Join(typeDir, "index.ts"+template.TemplateSuffix), "index.ts"},
			file{path.Join(typeDir, "info.yaml"+template.TemplateSuffix), manifest.DescriptorFile},
		)
		for _, name := range []string{"package.json", "tsconfig.json", "tsconfig.node.json", "vite.config.ts"} {
			plan = append(plan, file{path.Join(templatesRoot, "ui", name+template.TemplateSuffix), name})
		}
	}

	i18nDir := path.Join(templatesRoot, "i18n")
	entries, err := fs.ReadDir(templatesFS, i18nDir)
	if err != nil {
		return nil, apperr.Template(i18nDir, "reading i18n templates", err)
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), template.TemplateSuffix)
		if e.IsDir() || (kind == manifest.KindBackend && name == "index.ts") {
			continue
		}
		plan = append(plan, file{path.Join(i18nDir, e.Name()), "i18n/" + name})
	}

	plan = append(plan,
		file{path.Join(templatesRoot, "README.md"+template.TemplateSuffix), "README.md"},
		file{path.Join(templatesRoot, "go.mod"+template.TemplateSuffix), "go.mod"},
	)

	written := make([]string, 0, len(plan))
	for _, f := range plan {
		content, err := g.engine.RenderFile(templatesFS, f.src, tctx)
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(outputDir, filepath.FromSlash(f.dest))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, apperr.FileSystem(filepath.Dir(dest), "creating directory", err)
		}
		if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
			return nil, apperr.FileSystem(dest, "writing generated file", err)
		}
		written = append(written, f.dest)
	}
	return written, nil
}

func validateDescriptor(file string) []string {
	res, err := manifest.ValidateFile(file)
	if err != nil {
		return []string{fmt.Sprintf("Could not validate %s: %v", manifest.DescriptorFile, err)}
	}
	var warnings []string
	for _, issue := range res.Issues {
		warnings = append(warnings, manifest.DescriptorFile+": "+issue.String())
	}
	return warnings
}

func (g *Generator) postSteps(ctx context.Context, kind manifest.Kind, dir string) []string {
	type step struct {
		command string
		opts    runtime.Options
	}
	var steps []step
	if kind == manifest.KindStandardUI {
		steps = append(steps, step{g.cfg.Commands.PnpmInstall, runtime.Options{
			Dir: dir, Timeout: g.cfg.Timeouts.PnpmInstall, Retries: g.cfg.Retries.PnpmInstall, RetryDelay: g.cfg.RetryDelay,
		}})
	}
	steps = append(steps, step{g.cfg.Commands.GoModTidy, runtime.Options{
		Dir: dir, Timeout: g.cfg.Timeouts.GoModTidy, Retries: g.cfg.Retries.GoModTidy, RetryDelay: g.cfg.RetryDelay,
	}})

	var warnings []string
	for _, s := range steps {
		if _, err := g.runner.Execute(ctx, s.command, s.opts); err != nil {
			if !apperr.IsRecoverable(err) {
				g.logger.Error().Str("component", "scaffold").Str("command", s.command).Err(err).Msg("Post-generation step failed")
			}
			warnings = append(warnings, fmt.Sprintf("%s failed, run it manually in %s: %v", s.command, dir, err))
			continue
		}
		g.logger.Debug().Str("component", "scaffold").Str("command", s.command).Msg("Post-generation step completed")
	}
	return warnings
}

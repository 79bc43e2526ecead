package template

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/rs/zerolog"
)

// Context maps placeholder names to replacement values.
type Context map[string]string

// TemplateSuffix is stripped from template file names when they are copied.
const TemplateSuffix = ".tmpl"

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes every {{key}} token in content whose key is present in
// ctx. Values are inserted literally.
func Render(content string, ctx Context) string {
	return placeholder.ReplaceAllStringFunc(content, func(token string) string {
		if value, ok := ctx[token[2:len(token)-2]]; ok {
			return value
		}
		return token
	})
}

// Unresolved returns the sorted, de-duplicated names of tokens in content
// that ctx does not define.
func Unresolved(content string, ctx Context) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if _, ok := ctx[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine renders templates and copies template trees, logging unresolved
// placeholders.
type Engine struct {
	logger zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for unresolved-placeholder warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New returns an Engine. Without WithLogger it logs nothing.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render is the package-level Render plus a warning naming source when
// placeholders outside ctx remain. Placeholders that came from ctx values
// are not reported.
func (e *Engine) Render(content string, ctx Context, source string) string {
	if missing := Unresolved(content, ctx); len(missing) > 0 {
		if source == "" {
			source = "template"
		}
		e.logger.Warn().
			Str("component", "template").
			Str("source", source).
			Strs("placeholders", missing).
			Msg("Unreplaced template variables")
	}
	return Render(content, ctx)
}

// RenderFile reads name from fsys and renders it.
func (e *Engine) RenderFile(fsys fs.FS, name string, ctx Context) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", apperr.Template(name, "reading template", err)
	}
	return e.Render(string(data), ctx, name), nil
}

// CopyDir renders every regular file under srcDir in fsys into destDir,
// mirroring the directory structure and dropping a trailing TemplateSuffix
// from file names. A missing srcDir copies nothing. The returned paths are
// relative to destDir, slash-separated, in walk order.
func (e *Engine) CopyDir(fsys fs.FS, srcDir, destDir string, ctx Context) ([]string, error) {
	if _, err := fs.Stat(fsys, srcDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var written []string
	err := fs.WalkDir(fsys, srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return apperr.Template(p, "walking template directory", walkErr)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, srcDir), "/")
		if d.IsDir() {
			target := filepath.Join(destDir, filepath.FromSlash(rel))
			if err := os.MkdirAll(target, 0755); err != nil {
				return apperr.FileSystem(target, "creating directory", err)
			}
			return nil
		}

		rendered, err := e.RenderFile(fsys, p, ctx)
		if err != nil {
			return err
		}
		rel = path.Join(path.Dir(rel), strings.TrimSuffix(path.Base(rel), TemplateSuffix))
		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := os.WriteFile(target, []byte(rendered), 0644); err != nil {
			return apperr.FileSystem(target, "writing rendered template", err)
		}
		written = append(written, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

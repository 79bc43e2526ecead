package patcher

import (
	"errors"
	"os"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/names"
	"github.com/answer-tools/answer-plugin/internal/platform"
	"github.com/rs/zerolog"
)

var errNoPackageClause = errors.New("no package clause found")

// Operation selects what Preview computes.
type Operation int

const (
	OpInstall Operation = iota
	OpUninstall
)

func (o Operation) String() string {
	if o == OpUninstall {
		return "uninstall"
	}
	return "install"
}

// Target is the pair of files that together register plugins.
type Target struct {
	EntryPoint string
	GoMod      string
}

// Layout turns a plugin package name into the identities written to the
// target files.
type Layout struct {
	// ImportPrefix is the module path plugins are imported under,
	// e.g. "github.com/apache/answer-plugins".
	ImportPrefix string
	// LocalPrefix is the directory, relative to go.mod, holding plugin
	// sources, e.g. "./ui/src/plugins".
	LocalPrefix string
}

// Reference is one plugin's registration identities.
type Reference struct {
	ImportPath string
	LocalPath  string
}

// Reference returns the identities for pkg.
func (l Layout) Reference(pkg string) (Reference, error) {
	importPath, err := names.ImportPath(l.ImportPrefix, pkg)
	if err != nil {
		return Reference{}, err
	}
	return Reference{ImportPath: importPath, LocalPath: l.LocalPrefix + "/" + pkg}, nil
}

// Edit describes what one plugin changed.
type Edit struct {
	Plugin         string
	Reference      Reference
	ImportChanged  bool
	ReplaceChanged bool
}

// Changed reports whether the plugin needed any edit.
func (e Edit) Changed() bool { return e.ImportChanged || e.ReplaceChanged }

// Result is the outcome of Install or Uninstall.
type Result struct {
	Edits []Edit
	// Files lists the files written, in write order.
	Files []string
}

// Changed returns the names of plugins that needed an edit.
func (r *Result) Changed() []string {
	var out []string
	for _, e := range r.Edits {
		if e.Changed() {
			out = append(out, e.Plugin)
		}
	}
	return out
}

// FileChange is a proposed rewrite of one file.
type FileChange struct {
	Path   string
	Before string
	After  string
}

// Patcher applies registration edits to a Target.
type Patcher struct {
	layout Layout
	sys    platform.System
	logger zerolog.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithSystem replaces the filesystem, mainly for fault injection in tests.
func WithSystem(sys platform.System) Option {
	return func(p *Patcher) { p.sys = sys }
}

// WithLogger sets the logger. The default logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Patcher) { p.logger = logger }
}

// New returns a Patcher for layout using the OS filesystem.
func New(layout Layout, opts ...Option) *Patcher {
	p := &Patcher{layout: layout, sys: platform.OS{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("component", "patcher").Logger()
	return p
}

// plan is the folded in-memory result of one batch.
type plan struct {
	entryBefore, entryAfter string
	modBefore, modAfter     string
	edits                   []Edit
}

// Install registers every plugin in target. Plugins already registered are
// left alone. Both files change together or not at all.
func (p *Patcher) Install(plugins []manifest.PluginManifest, target Target) (*Result, error) {
	return p.apply(OpInstall, plugins, target)
}

// Uninstall unregisters every plugin from target. Plugins not registered are
// left alone. Both files change together or not at all.
func (p *Patcher) Uninstall(plugins []manifest.PluginManifest, target Target) (*Result, error) {
	return p.apply(OpUninstall, plugins, target)
}

// Preview computes the rewrites Install or Uninstall would make without
// writing anything. Unchanged files are omitted.
func (p *Patcher) Preview(op Operation, plugins []manifest.PluginManifest, target Target) ([]FileChange, error) {
	pl, err := p.plan(op, plugins, target)
	if err != nil {
		return nil, err
	}
	var changes []FileChange
	if pl.entryAfter != pl.entryBefore {
		changes = append(changes, FileChange{Path: target.EntryPoint, Before: pl.entryBefore, After: pl.entryAfter})
	}
	if pl.modAfter != pl.modBefore {
		changes = append(changes, FileChange{Path: target.GoMod, Before: pl.modBefore, After: pl.modAfter})
	}
	return changes, nil
}

func (p *Patcher) apply(op Operation, plugins []manifest.PluginManifest, target Target) (*Result, error) {
	pl, err := p.plan(op, plugins, target)
	if err != nil {
		return nil, err
	}
	result := &Result{Edits: pl.edits}

	if pl.entryAfter == pl.entryBefore && pl.modAfter == pl.modBefore {
		p.logger.Debug().Str("op", op.String()).Int("plugins", len(plugins)).Msg("Nothing to change")
		return result, nil
	}

	tx := NewTransaction(p.sys, p.logger)
	for _, path := range []string{target.EntryPoint, target.GoMod} {
		if err := tx.Backup(path); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}
	if pl.entryAfter != pl.entryBefore {
		if err := tx.WriteFile(target.EntryPoint, []byte(pl.entryAfter)); err != nil {
			return nil, err
		}
	}
	if pl.modAfter != pl.modBefore {
		if err := tx.WriteFile(target.GoMod, []byte(pl.modAfter)); err != nil {
			return nil, err
		}
	}
	result.Files = tx.Modified()
	tx.Commit()

	p.logger.Info().Str("op", op.String()).Strs("plugins", result.Changed()).Msg("Registration updated")
	return result, nil
}

func (p *Patcher) plan(op Operation, plugins []manifest.PluginManifest, target Target) (*plan, error) {
	entry, err := p.read(target.EntryPoint)
	if err != nil {
		return nil, err
	}
	mod, err := p.read(target.GoMod)
	if err != nil {
		return nil, err
	}

	pl := &plan{entryBefore: entry, modBefore: mod}
	for _, plugin := range plugins {
		ref, err := p.layout.Reference(plugin.PackageName)
		if err != nil {
			return nil, err
		}
		edit := Edit{Plugin: plugin.Name, Reference: ref}

		switch op {
		case OpInstall:
			entry, edit.ImportChanged, err = AddImport(entry, ref.ImportPath)
			if err != nil {
				return nil, apperr.FileSystem(target.EntryPoint, "adding import", err)
			}
			mod, edit.ReplaceChanged = AddReplace(mod, ref.ImportPath, ref.LocalPath)
		case OpUninstall:
			entry, edit.ImportChanged = RemoveImport(entry, ref.ImportPath)
			mod, edit.ReplaceChanged = RemoveReplace(mod, ref.ImportPath)
		}

		p.logger.Debug().
			Str("op", op.String()).
			Str("plugin", plugin.Name).
			Str("import_path", ref.ImportPath).
			Bool("import_changed", edit.ImportChanged).
			Bool("replace_changed", edit.ReplaceChanged).
			Msg("Plugin folded")
		pl.edits = append(pl.edits, edit)
	}
	pl.entryAfter, pl.modAfter = entry, mod
	return pl, nil
}

// read returns the content of a registration file, which must exist.
func (p *Patcher) read(path string) (string, error) {
	data, err := p.sys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperr.FileSystem(path, "registration file not found", err)
		}
		return "", apperr.FileSystem(path, "reading registration file", err)
	}
	return string(data), nil
}

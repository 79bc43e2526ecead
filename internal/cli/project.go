package cli

import (
	"path/filepath"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/patcher"
	"github.com/mitchellh/go-homedir"
)

// project is an Answer checkout resolved against the configuration.
type project struct {
	Root       string
	PluginsDir string
	I18nDir    string
	Target     patcher.Target
	Layout     patcher.Layout
}

// openProject expands ~ in path and resolves the configured locations
// under it. An empty path means the current directory.
func openProject(path string, c *config.Config) (*project, error) {
	if path == "" {
		path = "."
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, apperr.Validation("path", "cannot expand %q: %v", path, err)
	}
	root, err := filepath.Abs(expanded)
	if err != nil {
		return nil, apperr.FileSystem(expanded, "resolving project path", err)
	}
	return &project{
		Root:       root,
		PluginsDir: filepath.Join(root, c.Paths.Plugins),
		I18nDir:    filepath.Join(root, c.Paths.I18n),
		Target: patcher.Target{
			EntryPoint: filepath.Join(root, c.Paths.MainGo),
			GoMod:      filepath.Join(root, c.Paths.GoMod),
		},
		Layout: patcher.Layout{
			ImportPrefix: c.Registration.ImportPrefix,
			LocalPrefix:  c.Registration.LocalPrefix,
		},
	}, nil
}

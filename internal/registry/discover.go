package registry

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/platform"
)

// Discover returns one manifest per subdirectory of pluginsDir that holds a
// readable descriptor, sorted by name. A missing pluginsDir yields no
// plugins. Directories without a valid descriptor are skipped.
func Discover(pluginsDir string) ([]manifest.PluginManifest, error) {
	return DiscoverWith(platform.OS{}, pluginsDir)
}

// DiscoverWith is Discover over an explicit filesystem.
func DiscoverWith(sys platform.System, pluginsDir string) ([]manifest.PluginManifest, error) {
	entries, err := sys.ReadDir(pluginsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.Discovery(pluginsDir, "listing plugins directory", err)
	}

	var result []manifest.PluginManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(pluginsDir, entry.Name())
		data, err := sys.ReadFile(filepath.Join(dir, manifest.DescriptorFile))
		if err != nil {
			continue
		}
		d, err := manifest.ParseDescriptor(data)
		if err != nil {
			continue
		}
		result = append(result, *manifest.FromDescriptor(dir, d))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Find returns the plugin named name, if present.
func Find(plugins []manifest.PluginManifest, name string) (manifest.PluginManifest, bool) {
	for _, p := range plugins {
		if p.Name == name {
			return p, true
		}
	}
	return manifest.PluginManifest{}, false
}

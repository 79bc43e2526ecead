package registry

import "github.com/answer-tools/answer-plugin/internal/manifest"

// Select picks the plugins an operation should act on; want is the
// installed state the operation produces (true for install). With no names
// it returns every plugin not already in that state. With names it returns
// every named plugin, since the patcher skips work that is already done and
// a partially registered plugin still needs its remaining edit; names that
// match no plugin are returned in unknown.
func Select(plugins []manifest.PluginManifest, names []string, want bool) (selected []manifest.PluginManifest, unknown []string) {
	if len(names) == 0 {
		for _, p := range plugins {
			if p.Installed != want {
				selected = append(selected, p)
			}
		}
		return selected, nil
	}

	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if p, ok := Find(plugins, name); ok {
			selected = append(selected, p)
		} else {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}

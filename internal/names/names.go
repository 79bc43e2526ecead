// Package names derives the identifier variants a plugin name appears as in
// generated code, and validates user-supplied plugin names.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"golang.org/x/mod/module"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Names holds the variants of one plugin name.
type Names struct {
	// PluginName is camelCase, e.g. "demoCache".
	PluginName string
	// PackageName is kebab-case and names the plugin directory, e.g. "demo-cache".
	PackageName string
	// DisplayName is PascalCase, e.g. "DemoCache".
	DisplayName string
	// SlugName is snake_case, e.g. "demo_cache".
	SlugName string
	// GoPackage is the Go package identifier, e.g. "demo_cache".
	GoPackage string
	// InfoSlugName is written to info.yaml's slug_name.
	InfoSlugName string
}

var (
	separators = regexp.MustCompile(`[-_\s]+`)
	validName  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)
	title      = cases.Title(language.Und, cases.NoLower)
)

// reserved holds names that would collide with tooling directories.
var reserved = map[string]bool{
	"node_modules": true,
	".git":         true,
	".":            true,
	"..":           true,
}

// Transform derives every variant of name.
func Transform(name string) Names {
	ws := words(name)

	lower := make([]string, len(ws))
	titled := make([]string, len(ws))
	for i, w := range ws {
		lower[i] = strings.ToLower(w)
		titled[i] = title.String(lower[i])
	}

	camel := ""
	if len(lower) > 0 {
		camel = lower[0] + strings.Join(titled[1:], "")
	}
	snake := strings.Join(lower, "_")

	return Names{
		PluginName:   camel,
		PackageName:  strings.Join(lower, "-"),
		DisplayName:  strings.Join(titled, ""),
		SlugName:     snake,
		GoPackage:    snake,
		InfoSlugName: snake,
	}
}

// words splits name on separators and on lower-to-upper or letter-to-digit
// case boundaries.
func words(name string) []string {
	var out []string
	for _, part := range separators.Split(strings.TrimSpace(name), -1) {
		if part == "" {
			continue
		}
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			if unicode.IsLower(prev) && (unicode.IsUpper(cur) || unicode.IsDigit(cur)) {
				out = append(out, string(runes[start:i]))
				start = i
			}
		}
		out = append(out, string(runes[start:]))
	}
	return out
}

// Validate reports whether name is usable as a plugin name.
func Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "plugin name is required")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return apperr.Validation("name", "plugin name %q contains path separators", name)
	}
	if reserved[name] {
		return apperr.Validation("name", "plugin name %q is reserved", name)
	}
	if !validName.MatchString(name) {
		return apperr.Validation("name", "plugin name %q must start with a letter or underscore and contain only letters, digits, '-' and '_'", name)
	}
	if Transform(name).PackageName == "" {
		return apperr.Validation("name", "plugin name %q has no letters or digits", name)
	}
	return nil
}

// ImportPath joins prefix and pkg into a module import path and checks it
// with the Go module path rules.
func ImportPath(prefix, pkg string) (string, error) {
	path := strings.TrimRight(prefix, "/") + "/" + pkg
	if err := module.CheckImportPath(path); err != nil {
		return "", apperr.Validation("import_path", "invalid import path %q: %v", path, err)
	}
	return path, nil
}

// ValidateRoutePath checks the route a route-type plugin mounts at.
func ValidateRoutePath(route string) error {
	if route == "" {
		return apperr.Validation("route", "route path is required")
	}
	if !strings.HasPrefix(route, "/") {
		return apperr.Validation("route", "route path %q must start with /", route)
	}
	return nil
}

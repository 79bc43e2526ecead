package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// Classify maps a descriptor type value to its Kind and SubKind. Values
// outside both vocabularies yield KindBackend with an empty SubKind.
func Classify(value string) (Kind, SubKind) {
	v := SubKind(strings.TrimSpace(value))
	for _, s := range BackendSubKinds {
		if v == s {
			return KindBackend, s
		}
	}
	for _, s := range StandardUISubKinds {
		if v == s {
			return KindStandardUI, s
		}
	}
	return KindBackend, ""
}

// KindOf returns the Kind a known sub-kind belongs to.
func KindOf(s SubKind) (Kind, bool) {
	kind, sub := Classify(string(s))
	return kind, sub != ""
}

// ParseDescriptor decodes info.yaml content.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	return &d, nil
}

// Read builds the manifest for the plugin in dir. It returns false when the
// descriptor is missing or cannot be parsed.
func Read(dir string) (*PluginManifest, bool) {
	data, err := os.ReadFile(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return nil, false
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return nil, false
	}
	return FromDescriptor(dir, d), true
}

// FromDescriptor applies defaults and classification to a parsed descriptor
// belonging to the plugin in dir.
func FromDescriptor(dir string, d *Descriptor) *PluginManifest {
	name := filepath.Base(dir)
	kind, sub := Classify(d.Type)

	m := &PluginManifest{
		Name:        name,
		PackageName: name,
		Kind:        kind,
		SubKind:     sub,
		Version:     strings.TrimSpace(d.Version),
		SlugName:    strings.TrimSpace(d.SlugName),
		Author:      d.Author,
		Link:        d.Link,
		Path:        dir,
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	if m.SlugName == "" {
		m.SlugName = name
	}
	return m
}

// ValidVersion reports whether v is a semantic version (a leading "v" is accepted).
func ValidVersion(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}

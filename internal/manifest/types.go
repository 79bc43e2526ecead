package manifest

// DescriptorFile is the name of the per-plugin descriptor.
const DescriptorFile = "info.yaml"

// DefaultVersion is used when a descriptor does not declare a version.
const DefaultVersion = "0.0.1"

// Kind is the top-level plugin category.
type Kind string

const (
	KindBackend    Kind = "backend"
	KindStandardUI Kind = "standard-ui"
)

// SubKind is the category-specific plugin type named by the descriptor's
// type field.
type SubKind string

// Backend sub-kinds.
const (
	SubKindConnector    SubKind = "connector"
	SubKindStorage      SubKind = "storage"
	SubKindCache        SubKind = "cache"
	SubKindSearch       SubKind = "search"
	SubKindUserCenter   SubKind = "user-center"
	SubKindNotification SubKind = "notification"
	SubKindReviewer     SubKind = "reviewer"
)

// Standard-UI sub-kinds.
const (
	SubKindEditor  SubKind = "editor"
	SubKindRoute   SubKind = "route"
	SubKindCaptcha SubKind = "captcha"
	SubKindRender  SubKind = "render"
)

// BackendSubKinds lists the backend vocabulary in display order.
var BackendSubKinds = []SubKind{
	SubKindConnector,
	SubKindStorage,
	SubKindCache,
	SubKindSearch,
	SubKindUserCenter,
	SubKindNotification,
	SubKindReviewer,
}

// StandardUISubKinds lists the standard-UI vocabulary in display order.
var StandardUISubKinds = []SubKind{
	SubKindEditor,
	SubKindRoute,
	SubKindCaptcha,
	SubKindRender,
}

// Descriptor mirrors the on-disk info.yaml.
type Descriptor struct {
	SlugName string `yaml:"slug_name" json:"slug_name"`
	Type     string `yaml:"type" json:"type"`
	Version  string `yaml:"version" json:"version"`
	Author   string `yaml:"author,omitempty" json:"author,omitempty"`
	Link     string `yaml:"link,omitempty" json:"link,omitempty"`
}

// PluginManifest is the record built from one plugin directory. It is never
// cached; every scan builds fresh values.
type PluginManifest struct {
	// Name is the plugin directory name and its stable identity.
	Name string
	// PackageName is the identity used in import paths and module paths.
	PackageName string
	Kind        Kind
	// SubKind is empty when the descriptor's type is outside both vocabularies.
	SubKind  SubKind
	Version  string
	SlugName string
	Author   string
	Link     string
	// Path is the plugin directory.
	Path string
	// Installed is derived by the status resolver; Read always leaves it false.
	Installed bool
}

// Classified reports whether the descriptor's type matched a known sub-kind.
func (m *PluginManifest) Classified() bool {
	return m.SubKind != ""
}

// TypeLabel returns the sub-kind, or the kind when unclassified.
func (m *PluginManifest) TypeLabel() string {
	if m.SubKind != "" {
		return string(m.SubKind)
	}
	return string(m.Kind)
}

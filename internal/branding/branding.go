// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults cover a missing or empty file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName       string `yaml:"cli_name"`
	DisplayName   string `yaml:"display_name"`
	Description   string `yaml:"description"`
	HomeDir       string `yaml:"home_dir"`
	EnvPrefix     string `yaml:"env_prefix"`
	GoModule      string `yaml:"go_module"`
	HostModule    string `yaml:"host_module"`
	PluginsModule string `yaml:"plugins_module"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:       "answer-plugin",
			DisplayName:   "Answer Plugin",
			Description:   "Scaffold and register plugins for an Apache Answer checkout",
			HomeDir:       ".answer-plugin",
			EnvPrefix:     "ANSWER_PLUGIN",
			GoModule:      "github.com/answer-tools/answer-plugin",
			HostModule:    "github.com/apache/answer",
			PluginsModule: "github.com/apache/answer-plugins",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "answer-plugin").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".answer-plugin").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "ANSWER_PLUGIN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns this tool's own module path.
func GoModule() string { load(); return defaults.GoModule }

// HostModule returns the module path of the host application plugins target.
func HostModule() string { load(); return defaults.HostModule }

// PluginsModule returns the module prefix under which plugin packages are imported.
func PluginsModule() string { load(); return defaults.PluginsModule }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "ANSWER_PLUGIN_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the user config directory (~/.answer-plugin/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.answer-plugin/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// legacyEnv maps keys to the unprefixed variable names older installs used.
var legacyEnv = map[string]string{
	KeyPluginsPath:        "ANSWER_PLUGINS_PATH",
	KeyI18nPath:           "ANSWER_I18N_PATH",
	KeyGoModTidyTimeout:   "GO_MOD_TIDY_TIMEOUT",
	KeyPnpmInstallTimeout: "PNPM_INSTALL_TIMEOUT",
	KeyLogLevel:           "LOG_LEVEL",
}

// newViper returns a viper instance with defaults, the user file, and
// environment bindings configured. The file is not read yet.
func newViper(file string) *viper.Viper {
	v := viper.New()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		_ = v.BindEnv(key, branding.EnvVar(strings.ReplaceAll(key, ".", "_")), legacy)
	}
	return v
}

// Load resolves the configuration from defaults, the user config file, and
// the environment. A missing config file is not an error.
func Load() (*Config, error) {
	return LoadFile(FilePath())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(file string) (*Config, error) {
	v := newViper(file)
	if err := readIfPresent(v, file); err != nil {
		return nil, err
	}
	return decode(v)
}

func readIfPresent(v *viper.Viper, file string) error {
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", file, err)
	}
	return nil
}

// Get returns the resolved value of key as a string. Returns an empty string
// if the key is unknown.
func Get(key string) string {
	v := newViper(FilePath())
	_ = readIfPresent(v, FilePath())
	return v.GetString(key)
}

// Set writes a key-value pair to the user config file. Only keys already in
// the file and the new key are written; defaults and environment values stay
// out of the file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	return SetFile(FilePath(), key, value)
}

// SetFile is Set with an explicit config file path.
func SetFile(file, key, value string) error {
	if _, ok := defaultValues()[key]; !ok {
		return apperr.Validation("key", "unknown config key %q", key)
	}

	check := newViper(file)
	if err := readIfPresent(check, file); err != nil {
		return err
	}
	check.Set(key, value)
	if _, err := decode(check); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	if err := readIfPresent(v, file); err != nil {
		return err
	}
	v.Set(key, value)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

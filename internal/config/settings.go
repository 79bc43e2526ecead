package config

import (
	"strings"
	"time"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyPluginsPath = "paths.plugins"
	KeyI18nPath    = "paths.i18n"
	KeyMainGoPath  = "paths.main_go"
	KeyGoModPath   = "paths.go_mod"

	KeyImportPrefix = "registration.import_prefix"
	KeyLocalPrefix  = "registration.local_prefix"

	KeyGoModTidyCommand   = "commands.go_mod_tidy"
	KeyPnpmInstallCommand = "commands.pnpm_install"
	KeyI18nMergeCommand   = "commands.i18n_merge"

	KeyDefaultTimeout     = "timeouts.default"
	KeyGoModTidyTimeout   = "timeouts.go_mod_tidy"
	KeyPnpmInstallTimeout = "timeouts.pnpm_install"
	KeyI18nMergeTimeout   = "timeouts.i18n_merge"

	KeyDefaultRetries     = "retries.default"
	KeyGoModTidyRetries   = "retries.go_mod_tidy"
	KeyPnpmInstallRetries = "retries.pnpm_install"
	KeyRetryDelay         = "retry_delay"

	KeyLogLevel = "log_level"
)

// Config is the resolved tool configuration.
type Config struct {
	Paths        Paths
	Registration Registration
	Commands     Commands
	Timeouts     Timeouts
	Retries      Retries
	RetryDelay   time.Duration
	LogLevel     string
}

// Paths are relative to the host project root.
type Paths struct {
	Plugins string
	I18n    string
	MainGo  string
	GoMod   string
}

// Registration controls the identities written into the entry point and
// the dependency manifest. LocalPrefix defaults to "./" + Paths.Plugins.
type Registration struct {
	ImportPrefix string
	LocalPrefix  string
}

type Commands struct {
	GoModTidy   string
	PnpmInstall string
	I18nMerge   string
}

type Timeouts struct {
	Default     time.Duration
	GoModTidy   time.Duration
	PnpmInstall time.Duration
	I18nMerge   time.Duration
}

type Retries struct {
	Default     int
	GoModTidy   int
	PnpmInstall int
}

func defaultValues() map[string]any {
	return map[string]any{
		KeyPluginsPath:        "ui/src/plugins",
		KeyI18nPath:           "answer-data/i18n",
		KeyMainGoPath:         "cmd/answer/main.go",
		KeyGoModPath:          "go.mod",
		KeyImportPrefix:       branding.PluginsModule(),
		KeyLocalPrefix:        "",
		KeyGoModTidyCommand:   "go mod tidy",
		KeyPnpmInstallCommand: "pnpm install",
		KeyI18nMergeCommand:   "go run ./cmd/answer/main.go i18n",
		KeyDefaultTimeout:     "30s",
		KeyGoModTidyTimeout:   "30s",
		KeyPnpmInstallTimeout: "2m",
		KeyI18nMergeTimeout:   "1m",
		KeyDefaultRetries:     0,
		KeyGoModTidyRetries:   1,
		KeyPnpmInstallRetries: 1,
		KeyRetryDelay:         "1s",
		KeyLogLevel:           "info",
	}
}

// Default returns the built-in configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}
	cfg, err := decode(v)
	if err != nil {
		panic("config: invalid built-in defaults: " + err.Error())
	}
	return cfg
}

// Keys returns every known config key.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues()))
	for k := range defaultValues() {
		keys = append(keys, k)
	}
	return keys
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Paths: Paths{
			Plugins: strings.TrimSpace(v.GetString(KeyPluginsPath)),
			I18n:    strings.TrimSpace(v.GetString(KeyI18nPath)),
			MainGo:  strings.TrimSpace(v.GetString(KeyMainGoPath)),
			GoMod:   strings.TrimSpace(v.GetString(KeyGoModPath)),
		},
		Registration: Registration{
			ImportPrefix: strings.TrimRight(strings.TrimSpace(v.GetString(KeyImportPrefix)), "/"),
			LocalPrefix:  strings.TrimRight(strings.TrimSpace(v.GetString(KeyLocalPrefix)), "/"),
		},
		Commands: Commands{
			GoModTidy:   v.GetString(KeyGoModTidyCommand),
			PnpmInstall: v.GetString(KeyPnpmInstallCommand),
			I18nMerge:   v.GetString(KeyI18nMergeCommand),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}
	if cfg.Registration.LocalPrefix == "" && cfg.Paths.Plugins != "" {
		cfg.Registration.LocalPrefix = "./" + strings.TrimPrefix(strings.TrimRight(cfg.Paths.Plugins, "/"), "./")
	}

	var err error
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{KeyDefaultTimeout, &cfg.Timeouts.Default},
		{KeyGoModTidyTimeout, &cfg.Timeouts.GoModTidy},
		{KeyPnpmInstallTimeout, &cfg.Timeouts.PnpmInstall},
		{KeyI18nMergeTimeout, &cfg.Timeouts.I18nMerge},
		{KeyRetryDelay, &cfg.RetryDelay},
	}
	for _, d := range durations {
		if *d.dst, err = toDuration(v.Get(d.key)); err != nil {
			return nil, apperr.Configuration("%s: %v", d.key, err)
		}
	}

	counts := []struct {
		key string
		dst *int
	}{
		{KeyDefaultRetries, &cfg.Retries.Default},
		{KeyGoModTidyRetries, &cfg.Retries.GoModTidy},
		{KeyPnpmInstallRetries, &cfg.Retries.PnpmInstall},
	}
	for _, c := range counts {
		if *c.dst, err = cast.ToIntE(v.Get(c.key)); err != nil {
			return nil, apperr.Configuration("%s: %v", c.key, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toDuration accepts a Go duration string or a bare number of milliseconds.
func toDuration(value any) (time.Duration, error) {
	if ms, err := cast.ToInt64E(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return cast.ToDurationE(value)
}

// Validate checks that required paths are set, timeouts are positive, and
// retry counts are not negative.
func (c *Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{KeyPluginsPath, c.Paths.Plugins},
		{KeyI18nPath, c.Paths.I18n},
		{KeyMainGoPath, c.Paths.MainGo},
		{KeyGoModPath, c.Paths.GoMod},
		{KeyImportPrefix, c.Registration.ImportPrefix},
	}
	for _, r := range required {
		if r.value == "" {
			return apperr.Configuration("%s is required", r.key)
		}
	}

	timeouts := map[string]time.Duration{
		KeyDefaultTimeout:     c.Timeouts.Default,
		KeyGoModTidyTimeout:   c.Timeouts.GoModTidy,
		KeyPnpmInstallTimeout: c.Timeouts.PnpmInstall,
		KeyI18nMergeTimeout:   c.Timeouts.I18nMerge,
	}
	for key, d := range timeouts {
		if d <= 0 {
			return apperr.Configuration("%s must be positive, got %s", key, d)
		}
	}
	if c.RetryDelay < 0 {
		return apperr.Configuration("%s must not be negative, got %s", KeyRetryDelay, c.RetryDelay)
	}

	retries := map[string]int{
		KeyDefaultRetries:     c.Retries.Default,
		KeyGoModTidyRetries:   c.Retries.GoModTidy,
		KeyPnpmInstallRetries: c.Retries.PnpmInstall,
	}
	for key, n := range retries {
		if n < 0 {
			return apperr.Configuration("%s must be non-negative, got %d", key, n)
		}
	}
	return nil
}

package registry

import (
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/patcher"
	"github.com/answer-tools/answer-plugin/internal/platform"
	"github.com/rs/zerolog"
)

// Resolver computes installed status against a registration target.
type Resolver struct {
	layout patcher.Layout
	sys    platform.System
	logger zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSystem replaces the filesystem the target files are read from.
func WithSystem(sys platform.System) ResolverOption {
	return func(r *Resolver) { r.sys = sys }
}

// WithLogger sets the logger. The default logs nothing.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver returns a Resolver for plugins laid out per layout.
func NewResolver(layout patcher.Layout, opts ...ResolverOption) *Resolver {
	r := &Resolver{layout: layout, sys: platform.OS{}, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns copies of plugins with Installed set. A plugin is
// installed only when the entry point imports it AND go.mod replaces it;
// either one alone is not enough. Missing or unreadable target files read
// as empty, so every plugin resolves to not installed.
func (r *Resolver) Resolve(plugins []manifest.PluginManifest, target patcher.Target) []manifest.PluginManifest {
	entry := r.readOrEmpty(target.EntryPoint)
	mod := r.readOrEmpty(target.GoMod)

	out := make([]manifest.PluginManifest, len(plugins))
	for i, p := range plugins {
		out[i] = p
		ref, err := r.layout.Reference(p.PackageName)
		if err != nil {
			r.logger.Debug().Str("component", "registry").Str("plugin", p.Name).Err(err).Msg("Plugin has no valid import path")
			out[i].Installed = false
			continue
		}
		imported := patcher.HasImport(entry, ref.ImportPath)
		replaced := patcher.HasReplace(mod, ref.ImportPath)
		out[i].Installed = imported && replaced
		if imported != replaced {
			r.logger.Warn().
				Str("component", "registry").
				Str("plugin", p.Name).
				Bool("imported", imported).
				Bool("replaced", replaced).
				Msg("Plugin is only partially registered")
		}
	}
	return out
}

func (r *Resolver) readOrEmpty(path string) string {
	data, err := platform.ReadOrEmpty(r.sys, path)
	if err != nil {
		r.logger.Debug().Str("component", "registry").Str("path", path).Err(err).Msg("Treating unreadable file as empty")
		return ""
	}
	return string(data)
}

package prompts

import (
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/answer-tools/answer-plugin/internal/names"
	"github.com/answer-tools/answer-plugin/internal/scaffold"
)

// CollectCreate fills in the fields of req that are still empty, asking
// for the name, the project path, the plugin kind and sub-kind, and the
// route path for route plugins. Fields already set (from flags) are not
// prompted for.
func CollectCreate(ui UI, req scaffold.Request) (scaffold.Request, error) {
	if req.Name == "" {
		if err := ui.Input(messages.PromptPluginName, names.Validate, &req.Name); err != nil {
			return req, err
		}
	}

	if req.ProjectPath == "" {
		req.ProjectPath = "."
		if err := ui.Input(messages.PromptProjectPath, nil, &req.ProjectPath); err != nil {
			return req, err
		}
	}

	if req.SubKind == "" {
		if req.Kind == "" {
			kind := string(manifest.KindBackend)
			if err := ui.Select(messages.PromptPluginKind, kindOptions(), &kind); err != nil {
				return req, err
			}
			req.Kind = manifest.Kind(kind)
		}
		sub := ""
		if err := ui.Select(messages.PromptPluginSubKind, subKindOptions(req.Kind), &sub); err != nil {
			return req, err
		}
		req.SubKind = manifest.SubKind(sub)
	}

	if req.SubKind == manifest.SubKindRoute && req.RoutePath == "" {
		req.RoutePath = "/" + names.Transform(req.Name).PackageName
		if err := ui.Input(messages.PromptRoutePath, names.ValidateRoutePath, &req.RoutePath); err != nil {
			return req, err
		}
	}
	return req, nil
}

func kindOptions() []Option {
	return []Option{
		{Label: messages.KindBackendLabel, Value: string(manifest.KindBackend)},
		{Label: messages.KindStandardUILabel, Value: string(manifest.KindStandardUI)},
	}
}

func subKindOptions(kind manifest.Kind) []Option {
	subs := manifest.BackendSubKinds
	if kind == manifest.KindStandardUI {
		subs = manifest.StandardUISubKinds
	}
	opts := make([]Option, len(subs))
	for i, s := range subs {
		opts[i] = Option{Label: string(s), Value: string(s)}
	}
	return opts
}

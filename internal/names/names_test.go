package names

import (
	"testing"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		in   string
		want Names
	}{
		{
			in: "demo-cache",
			want: Names{
				PluginName:   "demoCache",
				PackageName:  "demo-cache",
				DisplayName:  "DemoCache",
				SlugName:     "demo_cache",
				GoPackage:    "demo_cache",
				InfoSlugName: "demo_cache",
			},
		},
		{
			in: "GithubConnector",
			want: Names{
				PluginName:   "githubConnector",
				PackageName:  "github-connector",
				DisplayName:  "GithubConnector",
				SlugName:     "github_connector",
				GoPackage:    "github_connector",
				InfoSlugName: "github_connector",
			},
		},
		{
			in: "my_plugin",
			want: Names{
				PluginName:   "myPlugin",
				PackageName:  "my-plugin",
				DisplayName:  "MyPlugin",
				SlugName:     "my_plugin",
				GoPackage:    "my_plugin",
				InfoSlugName: "my_plugin",
			},
		},
		{
			in: "chart",
			want: Names{
				PluginName:   "chart",
				PackageName:  "chart",
				DisplayName:  "Chart",
				SlugName:     "chart",
				GoPackage:    "chart",
				InfoSlugName: "chart",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.in))
		})
	}
}

func TestTransform_Digits(t *testing.T) {
	n := Transform("oauth2Login")
	assert.Equal(t, "oauth-2login", n.PackageName)
	assert.Equal(t, "oauth_2login", n.SlugName)
}

func TestValidate(t *testing.T) {
	valid := []string{"demo", "demo-cache", "_private", "Chart_Editor2"}
	for _, name := range valid {
		assert.NoError(t, Validate(name), name)
	}

	invalid := []string{"", "  ", "1abc", "../etc", "a/b", `a\b`, "node_modules", ".git", "has space", "-lead"}
	for _, name := range invalid {
		err := Validate(name)
		require.Error(t, err, name)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "%q: %v", name, err)
	}
}

func TestImportPath(t *testing.T) {
	got, err := ImportPath("github.com/org/plugins/", "demo-cache")
	require.NoError(t, err)
	assert.Equal(t, "github.com/org/plugins/demo-cache", got)

	_, err = ImportPath("github.com/org/plugins", "bad name")
	assert.Error(t, err)
}

func TestValidateRoutePath(t *testing.T) {
	assert.NoError(t, ValidateRoutePath("/hello"))
	assert.Error(t, ValidateRoutePath(""))
	assert.Error(t, ValidateRoutePath("hello"))
}

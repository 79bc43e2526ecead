package messages

// Prompt titles and errors.
const (
	PromptRequiresTerminal = "interactive prompts require a terminal; pass the plugin name and --type instead"
	PromptCancelled        = "cancelled"

	PromptPluginName    = "Plugin name"
	PromptProjectPath   = "Path to the Answer project"
	PromptPluginKind    = "Plugin kind"
	PromptPluginSubKind = "Plugin type"
	PromptRoutePath     = "Route path"

	KindBackendLabel    = "Backend plugin (Go)"
	KindStandardUILabel = "Standard UI plugin (React)"
)

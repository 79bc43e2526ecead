package messages

// Root and shared flag text.
const (
	RootLong = `%s scaffolds plugins for Apache Answer and registers them with an
Answer checkout by editing cmd/answer/main.go and go.mod.

Run it with no command to create a plugin.`
	FlagLogLevel = "Log level (debug, info, warn, error)"
	FlagPath     = "Path to the Answer project"
	FlagDryRun   = "Print the changes as a diff without writing them"
	FlagYes      = "Skip confirmation prompt"

	ErrorPrefix   = "Error: "
	WarningPrefix = "Warning: "
)

// create
const (
	CreateUse         = "create [name]"
	CreateShort       = "Create a new plugin"
	FlagCreateType    = "Plugin type (connector, storage, cache, search, user-center, notification, reviewer, editor, route, captcha, render)"
	FlagCreateKind    = "Plugin kind (backend or standard-ui)"
	FlagCreateRoute   = "Route path for route plugins"
	FlagCreateSkip    = "Skip go mod tidy and pnpm install"
	CreateSuccessFmt  = "Created %s plugin %s in %s\n"
	CreateNextStepFmt = "Next: %s install %s --path %s\n"
)

// list
const (
	ListUse         = "list [path]"
	ListShort       = "List the plugins in an Answer project"
	FlagListJSON    = "Output in JSON format"
	ListNone        = "No plugins found."
	ListInstalled   = "installed"
	ListAvailable   = "not installed"
	ListSummaryFmt  = "%d plugins: %d installed, %d not installed\n"
	ListHeaderName  = "NAME"
	ListHeaderType  = "TYPE"
	ListHeaderSlug  = "SLUG"
	ListHeaderVer   = "VERSION"
	ListHeaderState = "STATUS"
)

// install / uninstall
const (
	InstallUse             = "install [plugins...]"
	InstallShort           = "Register plugins with the Answer project"
	InstallLong            = "Adds an import to cmd/answer/main.go and a replace directive to go.mod for each plugin.\nWith no plugin names, every plugin that is not installed is registered."
	UninstallUse           = "uninstall [plugins...]"
	UninstallShort         = "Unregister plugins from the Answer project"
	UninstallLong          = "Removes the import and the replace directive of each plugin.\nWith no plugin names, every installed plugin is unregistered."
	NothingToInstall       = "All plugins are already installed."
	NothingToUninstall     = "No plugins are installed."
	UnknownPluginsFmt      = "unknown plugins: %s"
	InstalledFmt           = "Installed %s\n"
	UninstalledFmt         = "Uninstalled %s\n"
	AlreadyInstalledFmt    = "%s is already installed\n"
	NotInstalledFmt        = "%s is not installed\n"
	DryRunNoChanges        = "No changes."
	StepFailedFmt          = "%s failed; run it manually: %v"
	ConfirmInstallFmt      = "Install %d plugin(s) into %s?"
	ConfirmUninstallFmt    = "Uninstall %d plugin(s) from %s?"
	DryRunHeaderFmt        = "Dry run: %s would change %d file(s)\n"
	I18nDirCreateFailedFmt = "could not create %s: %v"
)

// verify
const (
	VerifyUse             = "verify <plugin>"
	VerifyShort           = "Check that a plugin is complete and usable"
	FlagVerifyIntegration = "Also check that the plugin is registered in main.go and go.mod"
	FlagVerifyCompile     = "Also run go build in the plugin directory"
	VerifySummaryFmt      = "%d passed, %d warnings, %d failed\n"
	VerifyFailedFmt       = "plugin %s failed verification"
)

// config
const (
	ConfigShort    = "Manage user settings"
	ConfigLongFmt  = "Read and write %s configuration stored at %s."
	ConfigSetShort = "Set a configuration value"
	ConfigGetShort = "Get a configuration value"
	ConfigSetFmt   = "Set %s = %s\n"
)

// version
const (
	VersionShort     = "Print version information"
	FlagVersionShort = "Print version number only"
	FlagVersionJSON  = "Print version info as JSON"
	VersionFmt       = "%s version %s (commit: %s, built: %s)\n"
)

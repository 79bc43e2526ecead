package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/answer-tools/answer-plugin/internal/patcher"
	"github.com/answer-tools/answer-plugin/internal/prompts"
	"github.com/answer-tools/answer-plugin/internal/registry"
	"github.com/answer-tools/answer-plugin/internal/runtime"
	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// registrationFlags are shared by install and uninstall.
type registrationFlags struct {
	path   string
	dryRun bool
	yes    bool
}

var (
	installFlags   registrationFlags
	uninstallFlags registrationFlags
)

var installCmd = &cobra.Command{
	Use:   messages.InstallUse,
	Short: messages.InstallShort,
	Long:  messages.InstallLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistration(cmd, args, patcher.OpInstall, installFlags)
	},
}

var uninstallCmd = &cobra.Command{
	Use:   messages.UninstallUse,
	Short: messages.UninstallShort,
	Long:  messages.UninstallLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistration(cmd, args, patcher.OpUninstall, uninstallFlags)
	},
}

func init() {
	for cmd, f := range map[*cobra.Command]*registrationFlags{installCmd: &installFlags, uninstallCmd: &uninstallFlags} {
		cmd.Flags().StringVarP(&f.path, "path", "p", "", messages.FlagPath)
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, messages.FlagDryRun)
		cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, messages.FlagYes)
		rootCmd.AddCommand(cmd)
	}
}

func runRegistration(cmd *cobra.Command, args []string, op patcher.Operation, flags registrationFlags) error {
	p, err := openProject(flags.path, cfg)
	if err != nil {
		return err
	}

	plugins, err := registry.Discover(p.PluginsDir)
	if err != nil {
		return err
	}
	plugins = registry.NewResolver(p.Layout, registry.WithLogger(logger)).Resolve(plugins, p.Target)

	selected, unknown := registry.Select(plugins, args, op == patcher.OpInstall)
	if len(unknown) > 0 {
		return apperr.Validation("plugins", messages.UnknownPluginsFmt, strings.Join(unknown, ", "))
	}

	out := cmd.OutOrStdout()
	if len(selected) == 0 {
		if op == patcher.OpInstall {
			fmt.Fprintln(out, messages.NothingToInstall)
		} else {
			fmt.Fprintln(out, messages.NothingToUninstall)
		}
		return nil
	}

	pt := patcher.New(p.Layout, patcher.WithLogger(logger))

	if flags.dryRun {
		changes, err := pt.Preview(op, selected, p.Target)
		if err != nil {
			return err
		}
		printPreview(out, op, p.Root, changes)
		return nil
	}

	if !flags.yes && prompts.IsInteractive() {
		proceed := true
		title := fmt.Sprintf(messages.ConfirmInstallFmt, len(selected), p.Root)
		if op == patcher.OpUninstall {
			title = fmt.Sprintf(messages.ConfirmUninstallFmt, len(selected), p.Root)
		}
		if err := newUI().Confirm(title, &proceed); err != nil {
			return err
		}
		if !proceed {
			return apperr.Validation("input", messages.PromptCancelled)
		}
	}

	var res *patcher.Result
	if op == patcher.OpInstall {
		res, err = pt.Install(selected, p.Target)
	} else {
		res, err = pt.Uninstall(selected, p.Target)
	}
	if err != nil {
		return err
	}

	for _, e := range res.Edits {
		switch {
		case e.Changed() && op == patcher.OpInstall:
			fmt.Fprint(out, color.GreenString(messages.InstalledFmt, e.Plugin))
		case e.Changed():
			fmt.Fprint(out, color.GreenString(messages.UninstalledFmt, e.Plugin))
		case op == patcher.OpInstall:
			fmt.Fprintf(out, messages.AlreadyInstalledFmt, e.Plugin)
		default:
			fmt.Fprintf(out, messages.NotInstalledFmt, e.Plugin)
		}
	}

	if len(res.Files) == 0 {
		return nil
	}
	for _, w := range postRegistration(cmd, op, p) {
		warn(cmd.ErrOrStderr(), "%s", w)
	}
	return nil
}

// postRegistration tidies the host module and, after an install, merges
// plugin translations into the host's i18n directory. Failures become
// warnings because the registration itself already succeeded.
func postRegistration(cmd *cobra.Command, op patcher.Operation, p *project) []string {
	runner := commandRunner()
	var warnings []string

	tidy := runtime.Options{Dir: p.Root, Timeout: cfg.Timeouts.GoModTidy, Retries: cfg.Retries.GoModTidy, RetryDelay: cfg.RetryDelay}
	if _, err := runner.Execute(cmd.Context(), cfg.Commands.GoModTidy, tidy); err != nil {
		warnings = append(warnings, fmt.Sprintf(messages.StepFailedFmt, cfg.Commands.GoModTidy, err))
	}

	if op != patcher.OpInstall {
		return warnings
	}
	if err := os.MkdirAll(p.I18nDir, 0755); err != nil {
		return append(warnings, fmt.Sprintf(messages.I18nDirCreateFailedFmt, p.I18nDir, err))
	}
	merge := fmt.Sprintf(`%s -s "%s" -t "%s"`, cfg.Commands.I18nMerge, p.PluginsDir, p.I18nDir)
	opts := runtime.Options{Dir: p.Root, Timeout: cfg.Timeouts.I18nMerge, Retries: cfg.Retries.Default, RetryDelay: cfg.RetryDelay}
	if _, err := runner.Execute(cmd.Context(), merge, opts); err != nil {
		warnings = append(warnings, fmt.Sprintf(messages.StepFailedFmt, cfg.Commands.I18nMerge, err))
	}
	return warnings
}

// printPreview writes one unified diff per changed file, with paths
// relative to the project root.
func printPreview(w io.Writer, op patcher.Operation, root string, changes []patcher.FileChange) {
	if len(changes) == 0 {
		fmt.Fprintln(w, messages.DryRunNoChanges)
		return
	}
	fmt.Fprintf(w, messages.DryRunHeaderFmt, op, len(changes))
	for _, c := range changes {
		name := c.Path
		if rel, err := filepath.Rel(root, c.Path); err == nil {
			name = filepath.ToSlash(rel)
		}
		diff := udiff.Unified("a/"+name, "b/"+name, c.Before, c.After)
		for _, line := range strings.SplitAfter(diff, "\n") {
			fmt.Fprint(w, colorizeDiffLine(line))
		}
	}
}

func colorizeDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return line
	case strings.HasPrefix(line, "+"):
		return color.GreenString("%s", line)
	case strings.HasPrefix(line, "-"):
		return color.RedString("%s", line)
	case strings.HasPrefix(line, "@@"):
		return color.CyanString("%s", line)
	}
	return line
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/answer-tools/answer-plugin/internal/registry"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	listPath string
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   messages.ListUse,
	Short: messages.ListShort,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listPath, "path", "p", "", messages.FlagPath)
	listCmd.Flags().BoolVar(&listJSON, "json", false, messages.FlagListJSON)
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a discovered plugin for display.
type listEntry struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Kind      string `json:"kind"`
	Slug      string `json:"slug_name"`
	Version   string `json:"version"`
	Path      string `json:"path"`
	Installed bool   `json:"installed"`
}

func runList(cmd *cobra.Command, args []string) error {
	path := listPath
	if len(args) == 1 {
		path = args[0]
	}
	p, err := openProject(path, cfg)
	if err != nil {
		return err
	}

	plugins, err := registry.Discover(p.PluginsDir)
	if err != nil {
		return err
	}
	plugins = registry.NewResolver(p.Layout, registry.WithLogger(logger)).Resolve(plugins, p.Target)

	entries := make([]listEntry, len(plugins))
	for i, m := range plugins {
		entries[i] = toListEntry(m)
	}

	if listJSON {
		return printListJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), messages.ListNone)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), renderList(entries))
	fmt.Fprint(cmd.OutOrStdout(), listSummary(entries))
	return nil
}

func toListEntry(m manifest.PluginManifest) listEntry {
	return listEntry{
		Name:      m.Name,
		Type:      m.TypeLabel(),
		Kind:      string(m.Kind),
		Slug:      m.SlugName,
		Version:   m.Version,
		Path:      m.Path,
		Installed: m.Installed,
	}
}

var (
	listHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	listInstalledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	listAvailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderList lays the entries out in aligned columns.
func renderList(entries []listEntry) string {
	rows := [][]string{{messages.ListHeaderName, messages.ListHeaderType, messages.ListHeaderSlug, messages.ListHeaderVer, messages.ListHeaderState}}
	for _, e := range entries {
		state := messages.ListAvailable
		if e.Installed {
			state = messages.ListInstalled
		}
		slug := e.Slug
		if slug == "" {
			slug = "-"
		}
		rows = append(rows, []string{e.Name, e.Type, slug, e.Version, state})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle().Width(widths[i] + 3)
			switch {
			case r == 0:
				style = listHeaderStyle.Width(widths[i] + 3)
			case i == len(row)-1 && entries[r-1].Installed:
				style = listInstalledStyle
			case i == len(row)-1:
				style = listAvailableStyle
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
		b.WriteString("\n")
	}
	return b.String()
}

var printer = message.NewPrinter(language.English)

func init() {
	_ = message.Set(language.English, messages.ListSummaryFmt,
		plural.Selectf(1, "%d",
			"=1", "%d plugin: %d installed, %d not installed\n",
			"other", "%d plugins: %d installed, %d not installed\n",
		))
}

func listSummary(entries []listEntry) string {
	installed := 0
	for _, e := range entries {
		if e.Installed {
			installed++
		}
	}
	return printer.Sprintf(messages.ListSummaryFmt, len(entries), installed, len(entries)-installed)
}

func printListJSON(w io.Writer, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

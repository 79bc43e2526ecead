package cli

import (
	"encoding/json"
	"fmt"

	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, messages.FlagVersionShort)
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, messages.FlagVersionJSON)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: messages.VersionShort,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, messages.VersionFmt, branding.CLIName(), buildVersion, buildCommit, buildDate)
		return nil
	},
}

package cli

import (
	"fmt"

	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: messages.ConfigShort,
	Long:  fmt.Sprintf(messages.ConfigLongFmt, branding.DisplayName(), config.FilePath()),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: messages.ConfigSetShort,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), messages.ConfigSetFmt, key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: messages.ConfigGetShort,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

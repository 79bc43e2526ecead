package cli

import (
	"fmt"
	"os"

	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/answer-tools/answer-plugin/internal/config"
	"github.com/answer-tools/answer-plugin/internal/logging"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Resolved once per invocation by the root command's PersistentPreRunE.
var (
	cfg    *config.Config
	logger = zerolog.Nop()
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:           branding.CLIName(),
	Short:         branding.Description(),
	Long:          fmt.Sprintf(messages.RootLong, branding.DisplayName()),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		l, err := logging.New(level, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runCreate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", messages.FlagLogLevel)
	addCreateFlags(rootCmd)
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return handleError(os.Stderr, rootCmd.Execute())
}

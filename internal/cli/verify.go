package cli

import (
	"fmt"

	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/answer-tools/answer-plugin/internal/verify"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verifyPath        string
	verifyIntegration bool
	verifyCompile     bool
)

var verifyCmd = &cobra.Command{
	Use:   messages.VerifyUse,
	Short: messages.VerifyShort,
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyPath, "path", "p", "", messages.FlagPath)
	verifyCmd.Flags().BoolVar(&verifyIntegration, "check-integration", false, messages.FlagVerifyIntegration)
	verifyCmd.Flags().BoolVar(&verifyCompile, "compile", false, messages.FlagVerifyCompile)
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	p, err := openProject(verifyPath, cfg)
	if err != nil {
		return err
	}

	report, err := verify.Run(cmd.Context(), verify.Options{
		ProjectPath: p.Root,
		Plugin:      args[0],
		Config:      cfg,
		Integration: verifyIntegration,
		Compile:     verifyCompile,
		Runner:      commandRunner(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report.WriteWith(out, statusLabel)
	fmt.Fprintf(out, messages.VerifySummaryFmt,
		report.Count(verify.StatusOK), report.Count(verify.StatusWarn), report.Count(verify.StatusFail))

	if !report.Passed() {
		return fmt.Errorf(messages.VerifyFailedFmt, report.Plugin)
	}
	return nil
}

func statusLabel(s verify.Status) string {
	switch s {
	case verify.StatusOK:
		return color.GreenString("%s", s.Label())
	case verify.StatusWarn:
		return color.YellowString("%s", s.Label())
	case verify.StatusFail:
		return color.RedString("%s", s.Label())
	}
	return s.Label()
}

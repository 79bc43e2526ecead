package cli

import (
	"fmt"

	"github.com/answer-tools/answer-plugin/internal/branding"
	"github.com/answer-tools/answer-plugin/internal/manifest"
	"github.com/answer-tools/answer-plugin/internal/messages"
	"github.com/answer-tools/answer-plugin/internal/prompts"
	"github.com/answer-tools/answer-plugin/internal/runtime"
	"github.com/answer-tools/answer-plugin/internal/scaffold"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	createPath  string
	createType  string
	createKind  string
	createRoute string
	createSkip  bool
)

// Replaced in tests.
var (
	newUI         = func() prompts.UI { return prompts.NewHuhUI() }
	commandRunner = func() scaffold.CommandRunner { return runtime.New(runtime.WithLogger(logger)) }
)

var createCmd = &cobra.Command{
	Use:   messages.CreateUse,
	Short: messages.CreateShort,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreate,
}

func init() {
	addCreateFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

// addCreateFlags registers the create flags on cmd. The root command gets
// them too because create is its default action.
func addCreateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&createPath, "path", "p", "", messages.FlagPath)
	cmd.Flags().StringVarP(&createType, "type", "t", "", messages.FlagCreateType)
	cmd.Flags().StringVar(&createKind, "kind", "", messages.FlagCreateKind)
	cmd.Flags().StringVar(&createRoute, "route", "", messages.FlagCreateRoute)
	cmd.Flags().BoolVar(&createSkip, "skip-install", false, messages.FlagCreateSkip)
}

func runCreate(cmd *cobra.Command, args []string) error {
	req := scaffold.Request{
		ProjectPath:   createPath,
		Kind:          manifest.Kind(createKind),
		SubKind:       manifest.SubKind(createType),
		RoutePath:     createRoute,
		SkipPostSteps: createSkip,
	}
	if len(args) == 1 {
		req.Name = args[0]
	}
	if req.ProjectPath == "" && req.Name != "" && req.SubKind != "" {
		req.ProjectPath = "."
	}

	req, err := prompts.CollectCreate(newUI(), req)
	if err != nil {
		return err
	}
	p, err := openProject(req.ProjectPath, cfg)
	if err != nil {
		return err
	}
	req.ProjectPath = p.Root

	gen := scaffold.New(cfg,
		scaffold.WithLogger(logger),
		scaffold.WithRunner(commandRunner()),
	)
	res, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, w := range res.Warnings {
		warn(cmd.ErrOrStderr(), "%s", w)
	}
	fmt.Fprint(out, color.GreenString(messages.CreateSuccessFmt, req.SubKind, req.Name, res.OutputDir))
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintf(out, messages.CreateNextStepFmt, branding.CLIName(), req.Name, p.Root)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/millrun/millrun/internal/loader"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Load a configuration and check referential integrity",
		Long: `Load a facility configuration document (.json, .yaml, .yml or .cue),
decode every record into its concrete variant and verify that every
cross-entity reference resolves.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Loading %s", path)

	g, err := loader.Read(path)
	if err != nil {
		if outErr := formatter.Error(loader.Code(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(exitCodeFor(err), "validation failed", err)
	}

	summary, err := summarize(g)
	if err != nil {
		return WrapExitError(ExitCommandError, "summarizing configuration", err)
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintln(formatter.Writer, "✓ configuration valid")
	fmt.Fprintln(formatter.Writer, summary.text())
	return nil
}

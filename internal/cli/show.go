package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/millrun/millrun/internal/loader"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <config-file>",
		Short:         "Show a summary of a validated configuration",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	g, err := loader.Read(path)
	if err != nil {
		if outErr := formatter.Error(loader.Code(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(exitCodeFor(err), "show failed", err)
	}

	summary, err := summarize(g)
	if err != nil {
		return WrapExitError(ExitCommandError, "summarizing configuration", err)
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintln(formatter.Writer, summary.text())
	return nil
}

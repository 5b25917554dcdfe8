package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/millrun/millrun/internal/loader"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <config-file> <output-file>",
		Short: "Re-serialize a configuration in another encoding",
		Long: `Load and validate a configuration document, then write it back out in
the encoding implied by the output extension (.json, .yaml or .yml).
The output reproduces the input's record ordering via positional keys.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runConvert(opts *RootOptions, inPath, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	g, err := loader.Read(inPath)
	if err != nil {
		if outErr := formatter.Error(loader.Code(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(exitCodeFor(err), "convert failed", err)
	}

	if err := loader.Write(g, outPath); err != nil {
		if outErr := formatter.Error(loader.Code(err), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "convert failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"input": inPath, "output": outPath})
	}
	fmt.Fprintf(formatter.Writer, "wrote %s\n", outPath)
	return nil
}

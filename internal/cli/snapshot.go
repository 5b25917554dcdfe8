package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/millrun/millrun/internal/loader"
	"github.com/millrun/millrun/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	DBPath string
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage stored configuration snapshots",
		Long: `Persist validated configurations in a local SQLite registry.

Saving is idempotent per document content: the same configuration saved
twice yields one snapshot.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "millrun.db", "snapshot database path")

	cmd.AddCommand(newSnapshotSaveCommand(opts))
	cmd.AddCommand(newSnapshotListCommand(opts))
	cmd.AddCommand(newSnapshotExportCommand(opts))

	return cmd
}

func newSnapshotSaveCommand(opts *SnapshotOptions) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:           "save <config-file>",
		Short:         "Validate a configuration and store it as a snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(opts, args[0], label, cmd)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "optional snapshot label")

	return cmd
}

func runSnapshotSave(opts *SnapshotOptions, path, label string, cmd *cobra.Command) error {
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
		return WrapExitError(exitCodeFor(err), "snapshot save failed", err)
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening snapshot database", err)
	}
	defer s.Close()

	snap, inserted, err := s.Save(cmd.Context(), g, label)
	if err != nil {
		return WrapExitError(ExitCommandError, "saving snapshot", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"snapshot": snap, "inserted": inserted})
	}
	if inserted {
		fmt.Fprintf(formatter.Writer, "saved snapshot %s\n", snap.ID)
	} else {
		fmt.Fprintf(formatter.Writer, "already stored as snapshot %s\n", snap.ID)
	}
	return nil
}

func newSnapshotListCommand(opts *SnapshotOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(opts, cmd)
		},
	}

	return cmd
}

func runSnapshotList(opts *SnapshotOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening snapshot database", err)
	}
	defer s.Close()

	snapshots, err := s.List(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "listing snapshots", err)
	}

	if opts.Format == "json" {
		return formatter.Success(snapshots)
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(formatter.Writer, "no snapshots")
		return nil
	}
	for _, snap := range snapshots {
		fmt.Fprintf(formatter.Writer, "%s  %s  seed=%d  %s\n", snap.ID, snap.CreatedAt, snap.Seed, snap.Label)
	}
	return nil
}

func newSnapshotExportCommand(opts *SnapshotOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "export <snapshot-id> <output-file>",
		Short:         "Write a stored snapshot back out as a document",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotExport(opts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runSnapshotExport(opts *SnapshotOptions, id, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening snapshot database", err)
	}
	defer s.Close()

	g, snap, err := s.Get(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading snapshot", err)
	}

	if err := loader.Write(g, outPath); err != nil {
		return WrapExitError(ExitCommandError, "writing document", err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{"snapshot": snap, "output": outPath})
	}
	fmt.Fprintf(formatter.Writer, "exported snapshot %s to %s\n", snap.ID, outPath)
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/transfer"
)

// newExportCmd creates the export command.
func newExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every snapshot as a JSON document",
		Long: `Writes every saved snapshot to a portable JSON document. Without --file the
document is written to greenr-history-YYYY-MM-DD.json in the current
directory; --file - writes to stdout.`,
		Example: `  greenr export
  greenr export --file backup.json
  greenr export --file - | jq '.snapshots | length'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeExport(cmd, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "output file, or - for stdout")
	return cmd
}

func executeExport(cmd *cobra.Command, file string) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	state, err := a.load(ctx)
	if err != nil {
		return err
	}
	now := a.now()
	doc := transfer.Export(state, now)

	if file == "-" {
		return transfer.Write(cmd.OutOrStdout(), doc)
	}
	if file == "" {
		file = transfer.FileName(now)
	}

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err = transfer.Write(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	logging.FromContext(ctx).Info().
		Str("component", "cli").
		Str("operation", "export").
		Str("path", file).
		Int("snapshots", len(doc.Snapshots)).
		Msg("snapshots exported")
	cmd.Printf("Exported %d snapshot(s) to %s\n", len(doc.Snapshots), file)
	return nil
}

// newImportCmd creates the import command.
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import snapshots from an export document",
		Long: `Merges the snapshots of an export document into the session. Snapshots
whose id already exists are skipped, so importing the same file twice is
harmless. A malformed document is rejected as a whole. Baseline and
scenario pointers are never changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeImport(cmd, args[0])
		},
	}
}

func executeImport(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	snaps, err := transfer.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	var report transfer.MergeReport
	if _, err = a.update(ctx, func(st session.State) (session.State, error) {
		var next session.State
		next, report = transfer.Merge(st, snaps)
		return next, nil
	}); err != nil {
		return err
	}

	cmd.Printf("Imported %d snapshot(s), skipped %d already present\n", report.Added, report.Skipped)
	return nil
}

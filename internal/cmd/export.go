package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/catalog"
)

type exportOptions struct {
	output string
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	eopts := &exportOptions{}

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the merged catalog as a db.json document",
		GroupID: groupSetup,
		Long: `Write every loaded bang, in rank order, in the launcher's db.json format.

Examples:
  gobangs export                          # Print to stdout
  gobangs export -o ~/bangs-backup.json   # Write a file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, eopts)
		},
	}

	cmd.Flags().StringVarP(&eopts.output, "output", "o", "", "file to write instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, opts *globalOptions, eopts *exportOptions) error {
	a, _, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	data, err := catalog.EncodeRecords(snap.Catalog.Bangs())
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if eopts.output == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	if err := os.WriteFile(eopts.output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", eopts.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d bangs written to %s\n", snap.Catalog.Len(), eopts.output)
	return nil
}

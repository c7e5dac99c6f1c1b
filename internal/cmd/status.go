package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the loaded catalog and stored databases",
		GroupID: groupSetup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}
}

func runStatus(cmd *cobra.Command, opts *globalOptions) error {
	a, _, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog: %d bangs\n", snap.Catalog.Len())
	for _, path := range a.Config().CatalogPaths {
		fmt.Fprintf(out, "  %s\n", path)
	}

	store := a.Store()
	if store == nil {
		fmt.Fprintln(out, "Store:   unavailable")
		return nil
	}

	status, err := store.GetStatus(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Store:   %s (schema %s, %s, %.2f MB)\n", a.Config().StorePath, status.SchemaVersion, status.BuildMode, status.SizeMB)
	for _, src := range status.Sources {
		fetched := "never"
		if !src.FetchedAt.IsZero() {
			fetched = src.FetchedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "  %-12s %6d bangs  fetched %s\n", src.Name, src.RecordCount, fetched)
	}
	return nil
}

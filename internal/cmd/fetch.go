package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/app"
	"github.com/dshills/gobangs/internal/fetcher"
	"github.com/dshills/gobangs/internal/storage"
)

type fetchOptions struct {
	url    string
	name   string
	path   string
	remove bool
}

func newFetchCmd(opts *globalOptions) *cobra.Command {
	fopts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:     "fetch",
		Short:   "Download the bang database",
		GroupID: groupSetup,
		Long: `Download a bang database, install it as the user catalog, and import it
into the store. Nothing is written when the document fails to parse.

Examples:
  gobangs fetch                          # Refresh the DuckDuckGo database
  gobangs fetch --name kagi --url URL    # Store another database
  gobangs fetch --remove --name kagi     # Drop a stored database`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, fopts)
		},
	}

	cmd.Flags().StringVar(&fopts.url, "url", "", "database URL (default database_url)")
	cmd.Flags().StringVar(&fopts.name, "name", fetcher.DefaultSourceName, "source name in the store")
	cmd.Flags().StringVar(&fopts.path, "path", "", "file to write (default the user catalog)")
	cmd.Flags().BoolVar(&fopts.remove, "remove", false, "remove the named database from the store instead")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *globalOptions, fopts *fetchOptions) error {
	a, _, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if fopts.remove {
		return runRemove(cmd, a, fopts.name)
	}

	target := fetcher.Target{
		Name: fopts.name,
		URL:  fopts.url,
		Path: fopts.path,
	}
	if target.URL == "" {
		target.URL = a.Config().DatabaseURL
	}
	if target.Path == "" {
		target.Path = a.UserCatalogFile()
	}

	result, err := a.Fetcher().Update(cmd.Context(), target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Unchanged {
		fmt.Fprintf(out, "%s is up to date (%d bangs)\n", result.Source, result.Records)
		return nil
	}
	fmt.Fprintf(out, "%s: %d bangs written to %s\n", result.Source, result.Records, result.Path)
	if result.Warnings > 0 {
		fmt.Fprintf(out, "  skipped %d malformed records\n", result.Warnings)
	}
	return nil
}

func runRemove(cmd *cobra.Command, a *app.App, name string) error {
	store := a.Store()
	if store == nil {
		return errors.New("bang store unavailable")
	}
	if err := store.DeleteSource(cmd.Context(), name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no stored database named %q", name)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s removed from the store\n", name)
	return nil
}

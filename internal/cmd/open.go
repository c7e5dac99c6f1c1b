package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/launcher"
	"github.com/dshills/gobangs/internal/query"
	"github.com/dshills/gobangs/internal/session"
)

type openOptions struct {
	print bool
}

func newOpenCmd(opts *globalOptions) *cobra.Command {
	oopts := &openOptions{}

	cmd := &cobra.Command{
		Use:     "open <query>",
		Short:   "Open the URLs a bang query resolves to",
		GroupID: groupCore,
		Long: `Resolve a bang query and open every destination it names.

Examples:
  gobangs open '!w' golang         # Search Wikipedia
  gobangs open '!g,ddg' rust       # Two engines at once
  gobangs open --print '!gh' cobra # Print the URL instead`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, opts, oopts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVarP(&oopts.print, "print", "p", false, "print the URLs instead of opening them")

	return cmd
}

func runOpen(cmd *cobra.Command, opts *globalOptions, oopts *openOptions, raw string) error {
	a, logger, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	var opener session.Opener = launcher.NewExec(a.Config().Opener, logger)
	if oopts.print {
		opener = &launcher.Printer{W: cmd.OutOrStdout()}
	}

	targets, unknown := session.Resolve(snap.Catalog, query.Parse(raw), a.Config().DefaultTriggers)
	for _, trigger := range unknown {
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown bang: %s\n", trigger)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no bang to open in %q", raw)
	}

	for _, t := range targets {
		if err := opener.Open(cmd.Context(), t.URL); err != nil {
			return fmt.Errorf("failed to open %s: %w", t.Trigger, err)
		}
	}
	return nil
}

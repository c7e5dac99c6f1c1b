package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "mcp",
		Short:   "Serve the bang catalog as MCP tools on stdio",
		GroupID: groupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, opts)
		},
	}
}

func runMCP(cmd *cobra.Command, opts *globalOptions) error {
	a, logger, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	snap, err := a.Prepare(ctx)
	if err != nil {
		return err
	}

	serverOpts := mcp.Options{
		Reload:          a.Reload,
		DefaultTriggers: a.Config().DefaultTriggers,
		Logger:          logger,
	}
	if store := a.Store(); store != nil {
		serverOpts.Store = store
	}

	server, err := mcp.NewServer(snap, serverOpts)
	if err != nil {
		return err
	}
	a.Register(server)

	go func() {
		if err := a.Watch(ctx); err != nil {
			logger.Warn("catalog watcher stopped", "error", err)
		}
	}()

	return server.Serve(ctx)
}

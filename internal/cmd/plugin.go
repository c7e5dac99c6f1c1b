package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/launcher"
	"github.com/dshills/gobangs/internal/plugin"
	"github.com/dshills/gobangs/internal/session"
)

func newPluginCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "plugin",
		Short:   "Run as a launcher plugin on stdin/stdout",
		GroupID: groupCore,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugin(cmd, opts)
		},
	}
}

func runPlugin(cmd *cobra.Command, opts *globalOptions) error {
	a, logger, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	// stdout carries the protocol, so the launcher must not see anything else
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := a.Prepare(ctx)
	if err != nil {
		return err
	}

	cfg := a.Config()
	engine := session.NewEngine(snap, session.Config{
		MaxResults:      cfg.MaxResults,
		DefaultTriggers: cfg.DefaultTriggers,
	}, plugin.NewWriter(cmd.OutOrStdout()), launcher.NewExec(cfg.Opener, logger), logger)
	a.Register(engine)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := a.Watch(watchCtx); err != nil {
			logger.Warn("catalog watcher stopped", "error", err)
		}
	}()

	logger.Info("plugin ready", "bangs", snap.Catalog.Len())
	return plugin.Serve(ctx, cmd.InOrStdin(), engine, logger)
}

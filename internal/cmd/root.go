// Package cmd implements the gobangs command line.
package cmd

import (
	"github.com/spf13/cobra"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	logLevel   string
	debug      bool
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gobangs",
		Short: "bang shortcuts for the launcher",
		Long: `gobangs - bang shortcuts for the launcher
  - !w golang      → search Wikipedia for "golang"
  - !g,ddg rust    → open the query in several engines at once

Without a subcommand gobangs runs as a launcher plugin on stdin/stdout.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugin(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gobangs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, or error")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	root.AddCommand(newPluginCmd(opts))
	root.AddCommand(newMCPCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newOpenCmd(opts))
	root.AddCommand(newFetchCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

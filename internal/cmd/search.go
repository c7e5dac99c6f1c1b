package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/gobangs/internal/session"
)

type searchOptions struct {
	limit int
	json  bool
}

type searchItem struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	sopts := &searchOptions{}

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Show the suggestions the launcher would list",
		GroupID: groupCore,
		Long: `Run one search through the plugin engine and print its suggestions.

Examples:
  gobangs search '!wiki'           # Bangs matching "wiki"
  gobangs search --json '!g'       # Output as JSON
  gobangs search -n 20 '!'         # The 20 most relevant bangs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, sopts, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&sopts.limit, "limit", "n", 0, "maximum number of suggestions (default max_results)")
	cmd.Flags().BoolVar(&sopts.json, "json", false, "output suggestions as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *globalOptions, sopts *searchOptions, raw string) error {
	a, logger, cleanup, err := setup(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := a.Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	limit := a.Config().MaxResults
	if sopts.limit > 0 {
		limit = sopts.limit
	}

	items := []searchItem{}
	sink := session.SinkFunc(func(r session.Response) error {
		if r.Kind == session.ResponseAppend {
			items = append(items, searchItem{ID: r.Item.ID, Name: r.Item.Name, Description: r.Item.Description})
		}
		return nil
	})

	engine := session.NewEngine(snap, session.Config{
		MaxResults:      limit,
		DefaultTriggers: a.Config().DefaultTriggers,
	}, sink, nil, logger)
	if _, err := engine.Handle(cmd.Context(), session.Search(raw)); err != nil {
		return err
	}

	return writeSearchResults(cmd.OutOrStdout(), items, sopts.json)
}

func writeSearchResults(w io.Writer, items []searchItem, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	for _, item := range items {
		if item.Description != "" {
			fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Description)
		} else {
			fmt.Fprintln(w, item.Name)
		}
	}
	return nil
}

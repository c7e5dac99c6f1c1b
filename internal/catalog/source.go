package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gobangs/pkg/types"
)

// Source supplies raw bang records
type Source interface {
	// Name identifies the source in warnings and logs
	Name() string

	// Records returns the decoded records in source order
	Records(ctx context.Context) ([]types.Bang, []Warning, error)
}

// FileSource reads a JSON bang database from disk
type FileSource struct {
	Path string
}

// Compile-time check that FileSource implements Source.
var _ Source = FileSource{}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Records(ctx context.Context) ([]types.Bang, []Warning, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read database: %w", err)
	}
	return DecodeRecords(s.Path, data)
}

// BangLister is the part of the storage layer a StoreSource needs
type BangLister interface {
	ListBangs(ctx context.Context, source string) ([]types.Bang, error)
}

// StoreSource reads the bangs persisted for one named source
type StoreSource struct {
	Store  BangLister
	Source string
}

// Compile-time check that StoreSource implements Source.
var _ Source = StoreSource{}

func (s StoreSource) Name() string {
	return "store:" + s.Source
}

func (s StoreSource) Records(ctx context.Context) ([]types.Bang, []Warning, error) {
	bangs, err := s.Store.ListBangs(ctx, s.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list stored bangs: %w", err)
	}
	return bangs, nil, nil
}

// StaticSource serves records held in memory
type StaticSource struct {
	Label string
	Bangs []types.Bang
}

func (s StaticSource) Name() string {
	return s.Label
}

func (s StaticSource) Records(ctx context.Context) ([]types.Bang, []Warning, error) {
	return s.Bangs, nil, nil
}

// sourceResult holds what one source produced
type sourceResult struct {
	bangs    []types.Bang
	warnings []Warning
	err      error
}

// LoadSources reads every source concurrently and merges them in the given
// order, so a later source overrides triggers defined by an earlier one.
//
// A source that fails is logged and skipped. Only context cancellation
// aborts the load.
func LoadSources(ctx context.Context, sources []Source, opts Options, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]sourceResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bangs, warnings, err := src.Records(gctx)
			results[i] = sourceResult{bangs: bangs, warnings: warnings, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []types.Bang
	for i, res := range results {
		name := sources[i].Name()
		if res.err != nil {
			logger.Warn("skipping bang source", "source", name, "error", res.err)
			continue
		}
		for _, w := range res.warnings {
			logger.Warn("skipping malformed bang", "warning", w.String())
		}

		valid, invalid := Validate(name, res.bangs)
		for _, w := range invalid {
			logger.Warn("skipping invalid bang", "warning", w.String())
		}

		logger.Debug("loaded bang source", "source", name, "bangs", len(valid))
		merged = append(merged, valid...)
	}

	// Every record was validated above
	cat, _ := Load(merged, opts)

	logger.Info("catalog loaded", "sources", len(sources), "bangs", cat.Len(), "dedup", opts.DedupByURL)
	return cat, nil
}

// Package app assembles gobangs from its configuration: the store, the
// catalog sources, the snapshot shared by the launcher engine and the MCP
// server, and the watcher that reloads it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dshills/gobangs/internal/catalog"
	"github.com/dshills/gobangs/internal/config"
	"github.com/dshills/gobangs/internal/fetcher"
	"github.com/dshills/gobangs/internal/session"
	"github.com/dshills/gobangs/internal/storage"
	"github.com/dshills/gobangs/internal/watch"
	"github.com/dshills/gobangs/pkg/types"
)

// Swapper receives every reloaded snapshot
type Swapper interface {
	Swap(snap *session.Snapshot)
}

// App owns the long-lived pieces shared by the commands
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *storage.SQLiteStorage
	fetcher *fetcher.Fetcher

	mu       sync.Mutex
	swappers []Swapper
	current  *session.Snapshot

	watcher *watch.Watcher
}

// New opens the store and prepares the fetcher. A store that cannot be
// opened is logged and left out; the file catalogs still work without it.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.StorePath != "" {
		store, err := storage.NewSQLiteStorage(cfg.StorePath)
		if err != nil {
			logger.Warn("bang store unavailable", "path", cfg.StorePath, "error", err)
		} else {
			a.store = store
		}
	}

	opts := fetcher.Options{Logger: logger}
	if a.store != nil {
		opts.Store = a.store
	}
	a.fetcher = fetcher.New(opts)

	w, err := watch.New(cfg.CatalogPaths, time.Duration(cfg.WatchDebounceMs)*time.Millisecond, a.reload, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	a.watcher = w

	return a, nil
}

// Config returns the configuration the app was built from
func (a *App) Config() *config.Config {
	return a.cfg
}

// Store returns the bang store, or nil when it could not be opened
func (a *App) Store() *storage.SQLiteStorage {
	return a.store
}

// Fetcher returns the database downloader
func (a *App) Fetcher() *fetcher.Fetcher {
	return a.fetcher
}

// Close releases the store
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// UserCatalogFile is the catalog path downloads are installed to: the last
// configured path, which overrides every other one.
func (a *App) UserCatalogFile() string {
	paths := a.cfg.CatalogPaths
	if len(paths) == 0 {
		return config.DefaultPaths().UserCatalogFile()
	}
	return paths[len(paths)-1]
}

// EnsureCatalog downloads the default database when no catalog file exists
// and the store holds nothing either. Failures are logged; the plugin still
// starts with whatever it has.
func (a *App) EnsureCatalog(ctx context.Context) {
	if a.cfg.DatabaseURL == "" {
		return
	}
	for _, path := range a.cfg.CatalogPaths {
		if _, err := os.Stat(path); err == nil {
			return
		}
	}
	if a.store != nil {
		if sources, err := a.store.ListSources(ctx); err == nil && len(sources) > 0 {
			return
		}
	}

	target := fetcher.Target{
		Name: fetcher.DefaultSourceName,
		URL:  a.cfg.DatabaseURL,
		Path: a.UserCatalogFile(),
	}
	if _, err := a.fetcher.EnsureFile(ctx, target); err != nil {
		a.logger.Warn("failed to download bang database", "url", target.URL, "error", err)
	}
}

// Sources lists the catalog sources in merge order: stored databases first,
// then the configured files, so an edited db.json overrides a download.
// Bangs from the config file come last and override everything.
func (a *App) Sources(ctx context.Context) []catalog.Source {
	var sources []catalog.Source

	if a.store != nil {
		stored, err := a.store.ListSources(ctx)
		if err != nil {
			a.logger.Warn("failed to list stored databases", "error", err)
		}
		for _, src := range stored {
			sources = append(sources, catalog.StoreSource{Store: a.store, Source: src.Name})
		}
	}

	for _, path := range a.cfg.CatalogPaths {
		sources = append(sources, catalog.FileSource{Path: path})
	}

	if len(a.cfg.Bangs) > 0 {
		sources = append(sources, catalog.StaticSource{Label: configSourceName, Bangs: configBangs(a.cfg.Bangs)})
	}

	return sources
}

// configSourceName labels the bangs defined in the config file
const configSourceName = "config"

func configBangs(defs []config.Bang) []types.Bang {
	bangs := make([]types.Bang, len(defs))
	for i, d := range defs {
		bangs[i] = types.Bang{
			Trigger:     d.Trigger,
			URL:         d.URL,
			Name:        d.Name,
			Domain:      d.Domain,
			Category:    d.Category,
			Subcategory: d.Subcategory,
			Relevance:   d.Relevance,
		}
	}
	return bangs
}

// LoadSnapshot builds a fresh catalog and index from every source
func (a *App) LoadSnapshot(ctx context.Context) (*session.Snapshot, error) {
	opts := catalog.Options{DedupByURL: a.cfg.DedupByDestination}
	cat, err := catalog.LoadSources(ctx, a.Sources(ctx), opts, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return session.NewSnapshot(cat), nil
}

// Snapshot returns the snapshot published last, loading it on first use
func (a *App) Snapshot(ctx context.Context) (*session.Snapshot, error) {
	a.mu.Lock()
	snap := a.current
	a.mu.Unlock()
	if snap != nil {
		return snap, nil
	}

	snap, err := a.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	a.publish(snap)
	return snap, nil
}

// Prepare downloads the default database if nothing is installed yet and
// returns the first snapshot. Both long-running modes start here.
func (a *App) Prepare(ctx context.Context) (*session.Snapshot, error) {
	a.EnsureCatalog(ctx)
	return a.Snapshot(ctx)
}

// Register adds s to the receivers of reloaded snapshots
func (a *App) Register(s Swapper) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.swappers = append(a.swappers, s)
}

// Reload rebuilds the snapshot and hands it to every registered Swapper.
// It returns watch.ErrReloadInProgress when another reload is running.
func (a *App) Reload(ctx context.Context) error {
	return a.watcher.Reload(ctx)
}

func (a *App) reload(ctx context.Context) error {
	snap, err := a.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	a.publish(snap)
	return nil
}

func (a *App) publish(snap *session.Snapshot) {
	a.mu.Lock()
	a.current = snap
	swappers := append([]Swapper(nil), a.swappers...)
	a.mu.Unlock()

	for _, s := range swappers {
		s.Swap(snap)
	}
}

// Watch reloads on catalog file changes until ctx is done. It returns
// immediately when watching is disabled.
func (a *App) Watch(ctx context.Context) error {
	if !a.cfg.Watch {
		return nil
	}
	return a.watcher.Run(ctx)
}

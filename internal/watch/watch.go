// Package watch reloads the bang catalog when its files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events one save produces
const DefaultDebounce = 250 * time.Millisecond

// ErrReloadInProgress is returned when a reload is requested while another
// one is still running
var ErrReloadInProgress = errors.New("catalog reload already in progress")

// ReloadFunc rebuilds and publishes the catalog
type ReloadFunc func(ctx context.Context) error

// Watcher calls a ReloadFunc after any of a fixed set of files changed
type Watcher struct {
	files    map[string]struct{}
	dirs     []string
	debounce time.Duration
	reload   ReloadFunc
	logger   *slog.Logger
	lock     ReloadLock
}

// New creates a watcher for files. Files need not exist yet; their
// directories are watched so creation is noticed too.
func New(files []string, debounce time.Duration, reload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if reload == nil {
		return nil, errors.New("watch: nil reload func")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		debounce: debounce,
		reload:   reload,
		logger:   logger,
	}

	seen := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Reload runs the reload func unless one is already running
func (w *Watcher) Reload(ctx context.Context) error {
	if !w.lock.TryAcquire() {
		return ErrReloadInProgress
	}
	defer w.lock.Release()

	start := time.Now()
	if err := w.reload(ctx); err != nil {
		return err
	}
	w.logger.Info("catalog reloaded", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Run watches until ctx is done. Directories that do not exist are skipped.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			w.logger.Debug("not watching catalog directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	w.logger.Debug("watching catalog files", "files", len(w.files), "dirs", watched)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("catalog file changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			err := w.Reload(ctx)
			switch {
			case errors.Is(err, ErrReloadInProgress):
				// Try again once the running reload had time to finish
				timer.Reset(w.debounce)
			case err != nil:
				w.logger.Warn("catalog reload failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.files[filepath.Clean(event.Name)]
	return ok
}

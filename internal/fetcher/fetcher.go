package fetcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/gobangs/internal/catalog"
	"github.com/dshills/gobangs/internal/storage"
	"github.com/dshills/gobangs/pkg/types"
)

const (
	// DefaultURL serves the public DuckDuckGo bang database
	DefaultURL = "https://duckduckgo.com/bang.js"

	// DefaultSourceName names the downloaded database in the store
	DefaultSourceName = "duckduckgo"

	// MaxDocumentBytes bounds a downloaded database
	MaxDocumentBytes = 64 << 20

	userAgent = "gobangs"
)

// ErrEmptyDocument is returned when a download holds no usable bang
var ErrEmptyDocument = errors.New("database holds no valid bangs")

// Importer is the part of the store the fetcher writes to
type Importer interface {
	GetSource(ctx context.Context, name string) (*storage.Source, error)
	ImportSource(ctx context.Context, source *storage.Source, bangs []types.Bang) error
}

// Target says where a database comes from and where it goes
type Target struct {
	Name string // Source name in the store
	URL  string
	Path string // db.json to write, empty to skip the file
}

// Result describes one update
type Result struct {
	Source    string
	Path      string
	Records   int
	Warnings  int
	Unchanged bool
}

// Options configures a Fetcher
type Options struct {
	Client *http.Client
	Retry  RetryConfig
	Store  Importer // optional
	Logger *slog.Logger
}

// Fetcher downloads bang databases
type Fetcher struct {
	client *http.Client
	retry  RetryConfig
	store  Importer
	logger *slog.Logger
}

// New creates a Fetcher, filling in defaults for unset options
func New(opts Options) *Fetcher {
	f := &Fetcher{
		client: opts.Client,
		retry:  opts.Retry,
		store:  opts.Store,
		logger: opts.Logger,
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: 30 * time.Second}
	}
	if f.retry.MaxRetries == 0 {
		f.retry = DefaultRetryConfig()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Download fetches url, retrying transient failures with backoff
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	return retryWithBackoff(ctx, f.retry, func() ([]byte, error) {
		data, err := f.get(ctx, url)
		if err != nil {
			f.logger.Debug("download attempt failed", "url", url, "error", err)
		}
		return data, err
	})
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("download %s: status %d", url, resp.StatusCode)
		// Client errors will not change on retry, except throttling
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, permanent(fmt.Errorf("download %s: document exceeds %d bytes", url, MaxDocumentBytes))
	}
	return data, nil
}

// Update downloads the target database, validates it, and writes it to the
// target path and the store. A document that fails to parse is never written.
// When the store already holds identical content the write is skipped.
func (f *Fetcher) Update(ctx context.Context, target Target) (*Result, error) {
	if target.Name == "" {
		target.Name = DefaultSourceName
	}
	if target.URL == "" {
		target.URL = DefaultURL
	}

	data, err := f.Download(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	bangs, warnings, err := catalog.DecodeRecords(target.URL, data)
	if err != nil {
		return nil, fmt.Errorf("invalid database from %s: %w", target.URL, err)
	}
	if len(bangs) == 0 {
		return nil, ErrEmptyDocument
	}
	for _, w := range warnings {
		f.logger.Debug("skipping malformed bang", "warning", w.String())
	}

	result := &Result{
		Source:   target.Name,
		Path:     target.Path,
		Records:  len(bangs),
		Warnings: len(warnings),
	}

	hash := sha256.Sum256(data)
	if f.unchanged(ctx, target, hash) {
		result.Unchanged = true
		f.logger.Info("bang database unchanged", "source", target.Name)
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if target.Path != "" {
		g.Go(func() error {
			return writeFileAtomic(target.Path, data)
		})
	}
	if f.store != nil {
		g.Go(func() error {
			src := &storage.Source{
				Name:        target.Name,
				URL:         target.URL,
				ContentHash: hash,
				FetchedAt:   time.Now(),
			}
			if err := f.store.ImportSource(gctx, src, bangs); err != nil {
				return fmt.Errorf("import %s: %w", target.Name, err)
			}
			result.Records = src.RecordCount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("bang database updated",
		"source", target.Name,
		"records", result.Records,
		"warnings", result.Warnings,
		"path", target.Path,
	)
	return result, nil
}

// unchanged reports whether both destinations already hold this content
func (f *Fetcher) unchanged(ctx context.Context, target Target, hash [32]byte) bool {
	if f.store == nil {
		return false
	}
	if target.Path != "" {
		if _, err := os.Stat(target.Path); err != nil {
			return false
		}
	}
	src, err := f.store.GetSource(ctx, target.Name)
	if err != nil {
		return false
	}
	return src.ContentHash == hash
}

// EnsureFile downloads the target only when its file does not exist yet
func (f *Fetcher) EnsureFile(ctx context.Context, target Target) (*Result, error) {
	if target.Path == "" {
		return nil, fmt.Errorf("ensure %s: no path", target.Name)
	}
	if _, err := os.Stat(target.Path); err == nil {
		return nil, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", target.Path, err)
	}
	return f.Update(ctx, target)
}

// writeFileAtomic replaces path so readers never see a partial document
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

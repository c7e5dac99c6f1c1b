package storage

import (
	"context"
	"time"

	"github.com/dshills/gobangs/pkg/types"
)

// Storage persists downloaded bang databases so the launcher can start
// without the network
type Storage interface {
	// Source operations
	UpsertSource(ctx context.Context, source *Source) error
	GetSource(ctx context.Context, name string) (*Source, error)
	ListSources(ctx context.Context) ([]*Source, error)
	DeleteSource(ctx context.Context, name string) error

	// Bang operations
	ReplaceBangs(ctx context.Context, sourceID int64, bangs []types.Bang) (int, error)
	ListBangs(ctx context.Context, source string) ([]types.Bang, error)
	CountBangs(ctx context.Context, sourceID int64) (int, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Source is one named bang database, usually fetched from a URL
type Source struct {
	ID          int64
	Name        string
	URL         string
	ContentHash [32]byte
	RecordCount int
	FetchedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status summarizes what the store holds
type Status struct {
	SchemaVersion string
	BuildMode     string
	Sources       []*Source
	BangsCount    int
	SizeMB        float64
	LastFetchedAt time.Time
}

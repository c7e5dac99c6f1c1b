package session

import (
	"github.com/dshills/gobangs/internal/catalog"
	"github.com/dshills/gobangs/internal/searcher"
)

// Snapshot pairs a catalog with the index derived from it.
// The two are only ever published together.
type Snapshot struct {
	Catalog *catalog.Catalog
	Index   *searcher.Index
}

// NewSnapshot indexes cat and wraps both
func NewSnapshot(cat *catalog.Catalog) *Snapshot {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Snapshot{
		Catalog: cat,
		Index:   searcher.Build(cat),
	}
}

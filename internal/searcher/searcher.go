package searcher

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/gobangs/internal/catalog"
)

// DefaultCacheSize bounds the number of memoized needles per index
const DefaultCacheSize = 256

// indexEntry points back into the catalog by ordinal
type indexEntry struct {
	ordinal int
	trigger string
	text    string // Lowercased search text
}

// cacheKey identifies a memoized search
type cacheKey struct {
	needle string
	limit  int
}

// Index is the lowercase lookup structure derived from a Catalog.
// Entry i always refers to catalog ordinal i, so scan order is rank order.
type Index struct {
	entries []indexEntry
	cache   *lru.Cache[cacheKey, []string]
}

// Build derives an Index from the catalog in a single pass
func Build(cat *catalog.Catalog) *Index {
	return BuildWithCacheSize(cat, DefaultCacheSize)
}

// BuildWithCacheSize is Build with an explicit memo size; 0 disables memoization
func BuildWithCacheSize(cat *catalog.Catalog, cacheSize int) *Index {
	entries := make([]indexEntry, cat.Len())
	for i := range entries {
		b := cat.At(i)
		entries[i] = indexEntry{
			ordinal: i,
			trigger: b.Trigger,
			text:    strings.ToLower(b.SearchText()),
		}
	}

	idx := &Index{entries: entries}
	if cacheSize > 0 {
		cache, err := lru.New[cacheKey, []string](cacheSize)
		if err != nil {
			// Only returned for non-positive sizes
			panic(fmt.Sprintf("failed to create LRU cache: %v", err))
		}
		idx.cache = cache
	}
	return idx
}

// Len returns the number of indexed entries
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Search returns up to limit triggers whose search text contains needle, in
// rank order. The needle must already be lowercase. An empty needle matches
// every entry.
func (idx *Index) Search(needle string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	key := cacheKey{needle: needle, limit: limit}
	if idx.cache != nil {
		if hit, ok := idx.cache.Get(key); ok {
			return append([]string(nil), hit...)
		}
	}

	ordinals := idx.scan(needle, limit)
	matches := make([]string, len(ordinals))
	for i, ord := range ordinals {
		matches[i] = idx.entries[ord].trigger
	}

	if idx.cache != nil {
		idx.cache.Add(key, matches)
		return append([]string(nil), matches...)
	}
	return matches
}

func (idx *Index) scan(needle string, limit int) []int {
	var out []int
	for _, e := range idx.entries {
		if strings.Contains(e.text, needle) {
			out = append(out, e.ordinal)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// CacheLen reports how many needles are memoized
func (idx *Index) CacheLen() int {
	if idx.cache == nil {
		return 0
	}
	return idx.cache.Len()
}

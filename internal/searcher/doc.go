// Package searcher implements the per-keystroke substring search over a catalog.
//
// The Index is built once from a catalog.Catalog. Each entry holds the
// lowercased search text of the bang at the same catalog ordinal:
//
//	trigger | category > subcategory | domain | name
//
// Because entries are stored in catalog order, a linear scan already yields
// results in rank order and nothing is re-sorted at query time.
//
// # Basic Usage
//
//	idx := searcher.Build(cat)
//	triggers := idx.Search(strings.ToLower(candidate), 8)
//
// An empty needle matches every entry, which is how the launcher lists all
// bangs while the user has typed nothing but the indicator.
//
// # Memoization
//
// Users type and delete characters, so the same needles repeat within a
// session. Results are kept in a small LRU keyed by needle and limit. The
// Index never changes after Build, so memoized results never go stale; a
// catalog reload builds a fresh Index with an empty cache.
//
// # Complexity
//
// A search is O(n·m) for n entries and needle length m. Catalogs hold a few
// thousand bangs at most, which keeps a scan well under a millisecond.
package searcher

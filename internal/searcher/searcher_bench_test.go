package searcher

import (
	"fmt"
	"testing"

	"github.com/dshills/gobangs/internal/catalog"
	"github.com/dshills/gobangs/pkg/types"
)

// benchCatalog builds a catalog the size of DuckDuckGo's database
func benchCatalog(n int) *catalog.Catalog {
	records := make([]types.Bang, n)
	for i := range records {
		records[i] = types.Bang{
			Trigger:     fmt.Sprintf("b%d", i),
			Name:        fmt.Sprintf("Bang Number %d", i),
			Domain:      fmt.Sprintf("site%d.example.com", i),
			URL:         fmt.Sprintf("https://site%d.example.com/?q={{{s}}}", i),
			Category:    "Online Services",
			Subcategory: "Search",
			Relevance:   int64(i % 97),
		}
	}
	cat, _ := catalog.Load(records, catalog.Options{})
	return cat
}

func BenchmarkBuild(b *testing.B) {
	cat := benchCatalog(13000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(cat)
	}
}

func BenchmarkSearch_Uncached(b *testing.B) {
	idx := BuildWithCacheSize(benchCatalog(13000), 0)
	needles := []string{"b1", "example", "zzz", ""}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Search(needles[i%len(needles)], 8)
	}
}

func BenchmarkSearch_Cached(b *testing.B) {
	idx := Build(benchCatalog(13000))
	_ = idx.Search("zzz", 8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Search("zzz", 8)
	}
}

package catalog

import (
	"fmt"
	"sort"

	"github.com/dshills/gobangs/pkg/types"
)

// Options controls how raw records become a Catalog
type Options struct {
	// DedupByURL collapses bangs sharing a URL template, keeping the
	// highest ranked one.
	DedupByURL bool
}

// Warning describes a record that was skipped while loading
type Warning struct {
	Source  string
	Index   int // Position of the record in its source, -1 if unknown
	Trigger string
	Err     error
}

func (w Warning) String() string {
	source := w.Source
	if source == "" {
		source = "records"
	}
	if w.Trigger != "" {
		return fmt.Sprintf("%s[%d] %q: %v", source, w.Index, w.Trigger, w.Err)
	}
	return fmt.Sprintf("%s[%d]: %v", source, w.Index, w.Err)
}

// Validate drops invalid records, reporting each against source and its
// position in records
func Validate(source string, records []types.Bang) ([]types.Bang, []Warning) {
	var warnings []Warning
	valid := make([]types.Bang, 0, len(records))

	for i := range records {
		if err := records[i].Validate(); err != nil {
			warnings = append(warnings, Warning{Source: source, Index: i, Trigger: records[i].Trigger, Err: err})
			continue
		}
		valid = append(valid, records[i])
	}

	return valid, warnings
}

// Catalog is the ranked, immutable collection of bangs
type Catalog struct {
	bangs     []types.Bang
	byTrigger map[string]int
}

// Load builds a Catalog from records in arrival order.
//
// Invalid records are skipped and reported. A trigger seen more than once is
// overridden by its last occurrence, which keeps the position of the first.
func Load(records []types.Bang, opts Options) (*Catalog, []Warning) {
	records, warnings := Validate("", records)

	bangs := make([]types.Bang, 0, len(records))
	seen := make(map[string]int, len(records))

	for _, rec := range records {
		if pos, ok := seen[rec.Trigger]; ok {
			bangs[pos] = rec
			continue
		}

		seen[rec.Trigger] = len(bangs)
		bangs = append(bangs, rec)
	}

	sort.SliceStable(bangs, func(i, j int) bool {
		return types.Less(&bangs[i], &bangs[j])
	})

	if opts.DedupByURL {
		bangs = dedupByURL(bangs)
	}

	c := &Catalog{
		bangs:     bangs,
		byTrigger: make(map[string]int, len(bangs)),
	}
	for i := range bangs {
		c.byTrigger[bangs[i].Trigger] = i
	}

	return c, warnings
}

// Empty returns a catalog without any bangs
func Empty() *Catalog {
	c, _ := Load(nil, Options{})
	return c
}

// dedupByURL keeps the first bang per URL; input must already be ranked
func dedupByURL(bangs []types.Bang) []types.Bang {
	seen := make(map[string]struct{}, len(bangs))
	out := bangs[:0]
	for _, b := range bangs {
		if _, dup := seen[b.URL]; dup {
			continue
		}
		seen[b.URL] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Len returns the number of bangs
func (c *Catalog) Len() int {
	return len(c.bangs)
}

// At returns the bang at the given rank ordinal. The bang must not be modified.
func (c *Catalog) At(i int) *types.Bang {
	return &c.bangs[i]
}

// Get looks up a bang by its exact trigger
func (c *Catalog) Get(trigger string) (*types.Bang, bool) {
	i, ok := c.byTrigger[trigger]
	if !ok {
		return nil, false
	}
	return &c.bangs[i], true
}

// Bangs returns a copy of the ranked bangs
func (c *Catalog) Bangs() []types.Bang {
	out := make([]types.Bang, len(c.bangs))
	copy(out, c.bangs)
	return out
}

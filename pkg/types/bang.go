package types

import (
	"fmt"
	"strings"
)

// Placeholder marks where the escaped search text goes in a bang URL.
const Placeholder = "{{{s}}}"

// Bang is a single shortcut record from a bangs database
type Bang struct {
	// Identification
	Trigger string // Activation keyword, unique within a catalog

	// Destination
	URL    string // Template containing Placeholder
	Domain string

	// Display
	Name        string
	Category    string
	Subcategory string

	// Ranking
	Relevance int64
}

// Validate checks that the bang can be stored in a catalog
func (b *Bang) Validate() error {
	if strings.TrimSpace(b.Trigger) == "" {
		return ErrEmptyTrigger
	}

	if strings.ContainsAny(b.Trigger, " \t\r\n") {
		return ErrInvalidTrigger
	}

	if b.URL == "" {
		return ErrEmptyURL
	}

	if b.Relevance < 0 {
		return ErrNegativeRelevance
	}

	return nil
}

// Title is the launcher item name for the bang
func (b *Bang) Title() string {
	if b.Domain == "" {
		return fmt.Sprintf("%s | %s", b.Trigger, b.Name)
	}
	return fmt.Sprintf("%s | %s (%s)", b.Trigger, b.Name, b.Domain)
}

// Description is the launcher item description for the bang
func (b *Bang) Description() string {
	return fmt.Sprintf("%s > %s", b.Category, b.Subcategory)
}

// SearchText is the text matched against user input, before case folding
func (b *Bang) SearchText() string {
	return fmt.Sprintf("%s | %s > %s | %s | %s",
		b.Trigger, b.Category, b.Subcategory, b.Domain, b.Name)
}

// Expand substitutes an already escaped query into the URL template
func (b *Bang) Expand(escapedQuery string) string {
	return strings.ReplaceAll(b.URL, Placeholder, escapedQuery)
}

// Less reports whether a ranks ahead of b.
// Higher relevance wins; ties fall back to reverse lexicographic order of the
// remaining fields. Fully equal records are left to the caller's stable sort.
func Less(a, b *Bang) bool {
	if a.Relevance != b.Relevance {
		return a.Relevance > b.Relevance
	}

	for _, pair := range [][2]string{
		{a.Trigger, b.Trigger},
		{a.Name, b.Name},
		{a.Domain, b.Domain},
		{a.Category, b.Category},
		{a.Subcategory, b.Subcategory},
		{a.URL, b.URL},
	} {
		if c := strings.Compare(pair[0], pair[1]); c != 0 {
			return c > 0
		}
	}

	return false
}

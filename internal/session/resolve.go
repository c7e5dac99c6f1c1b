package session

import (
	"github.com/dshills/gobangs/internal/catalog"
	"github.com/dshills/gobangs/internal/query"
)

// Target is one URL an activation opens
type Target struct {
	Trigger string
	URL     string
}

// Resolve expands every trigger of q into a URL carrying its free text.
// Queries without triggers fall back to defaults. Each trigger is resolved
// once; triggers missing from cat are returned as unknown.
func Resolve(cat *catalog.Catalog, q *query.State, defaults []string) (targets []Target, unknown []string) {
	triggers := q.Triggers()
	if len(triggers) == 0 {
		triggers = defaults
	}

	escaped := EscapeQuery(q.FreeText())
	seen := make(map[string]struct{}, len(triggers))

	for _, trigger := range triggers {
		if _, dup := seen[trigger]; dup {
			continue
		}
		seen[trigger] = struct{}{}

		bang, ok := cat.Get(trigger)
		if !ok {
			unknown = append(unknown, trigger)
			continue
		}
		targets = append(targets, Target{Trigger: bang.Trigger, URL: bang.Expand(escaped)})
	}

	return targets, unknown
}

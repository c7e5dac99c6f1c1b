package session

// FinishID is the identifier of the synthetic result announced when there
// are no live suggestions
const FinishID uint32 = 1

// ResultTable maps request-scoped identifiers to triggers.
// It is rebuilt from empty on every search.
type ResultTable struct {
	triggers map[uint32]string
	finish   bool
}

// NewResultTable returns an empty table
func NewResultTable() *ResultTable {
	return &ResultTable{triggers: make(map[uint32]string)}
}

// Reset empties the table
func (t *ResultTable) Reset() {
	clear(t.triggers)
	t.finish = false
}

// Add appends a trigger and returns its identifier (1-based)
func (t *ResultTable) Add(trigger string) uint32 {
	id := uint32(len(t.triggers) + 1)
	t.triggers[id] = trigger
	return id
}

// SetFinish resets the table to hold only the synthetic finish result
func (t *ResultTable) SetFinish() uint32 {
	t.Reset()
	t.finish = true
	return FinishID
}

// Lookup resolves an identifier to its trigger.
// The synthetic finish result never resolves.
func (t *ResultTable) Lookup(id uint32) (string, bool) {
	trigger, ok := t.triggers[id]
	return trigger, ok
}

// IsFinish reports whether id names the synthetic finish result
func (t *ResultTable) IsFinish(id uint32) bool {
	return t.finish && id == FinishID
}

// Len returns the number of identifiers issued, including the finish result
func (t *ResultTable) Len() int {
	if t.finish {
		return 1
	}
	return len(t.triggers)
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/dshills/gobangs/internal/query"
)

// DefaultMaxResults matches the launcher's visible list size
const DefaultMaxResults = 8

// State is where the engine sits between requests
type State int

const (
	StateIdle State = iota
	StateSuggesting
	StateReadyToActivate
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuggesting:
		return "suggesting"
	case StateReadyToActivate:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Opener dispatches a fully expanded URL
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Config holds the engine options read at construction
type Config struct {
	MaxResults      int
	DefaultTriggers []string
}

// Engine runs one query session.
//
// Handle must be called from a single goroutine. Only the snapshot may be
// replaced concurrently, through Swap.
type Engine struct {
	cfg    Config
	sink   Sink
	opener Opener
	logger *slog.Logger

	snap atomic.Pointer[Snapshot]

	state   State
	query   *query.State
	results *ResultTable

	// filled is the text of the last Fill, which the launcher echoes back
	// as its next Search
	filled string
}

// NewEngine creates an engine serving snap
func NewEngine(snap *Snapshot, cfg Config, sink Sink, opener Opener, logger *slog.Logger) *Engine {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = slog.Default()
	}
	if snap == nil {
		snap = NewSnapshot(nil)
	}

	e := &Engine{
		cfg:     cfg,
		sink:    sink,
		opener:  opener,
		logger:  logger,
		query:   query.Parse(""),
		results: NewResultTable(),
	}
	e.snap.Store(snap)
	return e
}

// Swap atomically replaces the catalog and index
func (e *Engine) Swap(snap *Snapshot) {
	e.snap.Store(snap)
}

// Snapshot returns the catalog and index currently served
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// State returns the current session state
func (e *Engine) State() State {
	return e.state
}

// Query returns a copy of the current query state
func (e *Engine) Query() *query.State {
	return e.query.Clone()
}

// Results returns the current result table
func (e *Engine) Results() *ResultTable {
	return e.results
}

// Handle processes one request. It reports stop=true once the launcher asked
// the session to exit. Errors only come from the response sink.
func (e *Engine) Handle(ctx context.Context, req Request) (stop bool, err error) {
	switch req.Kind {
	case KindSearch:
		return false, e.search(req.Query)
	case KindComplete:
		return false, e.complete(req.ID)
	case KindActivate:
		return false, e.activate(ctx, req.ID)
	case KindExit:
		return true, nil
	case KindOther:
		e.logger.Debug("ignoring request", "name", req.Name)
		return false, nil
	default:
		e.logger.Warn("dropping request of unknown kind", "kind", req.Kind.String())
		return false, nil
	}
}

// search replaces the query state and announces matching bangs
func (e *Engine) search(raw string) error {
	snap := e.snap.Load()

	e.query = query.Parse(raw)
	e.results.Reset()

	// The echoed fill keeps its completed token closed
	if e.filled != "" && strings.TrimSpace(raw) == strings.TrimSpace(e.filled) {
		e.query.CloseLast(e.query.Candidate())
	} else {
		e.filled = ""
	}

	if e.query.LastTokenIsOpenShortcut() {
		e.state = StateSuggesting

		needle := strings.ToLower(e.query.Candidate())
		for _, trigger := range snap.Index.Search(needle, e.cfg.MaxResults) {
			bang, ok := snap.Catalog.Get(trigger)
			if !ok {
				continue
			}
			id := e.results.Add(trigger)
			if err := e.send(Response{Kind: ResponseAppend, Item: Item{
				ID:          id,
				Name:        bang.Title(),
				Description: bang.Description(),
			}}); err != nil {
				return err
			}
		}
	} else {
		e.state = StateReadyToActivate

		id := e.results.SetFinish()
		if err := e.send(Response{Kind: ResponseAppend, Item: e.finishItem(id)}); err != nil {
			return err
		}
	}

	return e.send(Response{Kind: ResponseFinished})
}

// finishItem describes what activation will do
func (e *Engine) finishItem(id uint32) Item {
	triggers := e.query.Triggers()
	desc := "Open " + strings.Join(triggers, ", ")

	if len(triggers) == 0 {
		if len(e.cfg.DefaultTriggers) == 0 {
			desc = "No bangs selected"
		} else {
			desc = "Open default bangs: " + strings.Join(e.cfg.DefaultTriggers, ", ")
		}
	}

	name := e.query.String()
	if strings.TrimSpace(name) == "" {
		name = "Search"
	}

	return Item{ID: id, Name: name, Description: desc}
}

// complete closes the open shortcut token with the selected trigger.
// Stale or synthetic identifiers are ignored without any response.
func (e *Engine) complete(id uint32) error {
	if e.results.IsFinish(id) {
		e.logger.Debug("ignoring completion of the finish item")
		return nil
	}

	trigger, ok := e.results.Lookup(id)
	if !ok {
		e.logger.Debug("ignoring completion for unknown result", "id", id)
		return nil
	}

	bang, ok := e.snap.Load().Catalog.Get(trigger)
	if !ok {
		e.logger.Debug("ignoring completion for vanished bang", "trigger", trigger)
		return nil
	}

	if !e.query.CloseLast(bang.Trigger) {
		return nil
	}
	e.state = StateReadyToActivate
	e.filled = e.query.String()

	return e.send(Response{Kind: ResponseFill, Text: e.filled})
}

// activate opens every selected bang with the free text and closes the session
func (e *Engine) activate(ctx context.Context, id uint32) error {
	snap := e.snap.Load()

	q := e.query
	if q.LastTokenIsOpenShortcut() {
		// Activating a suggestion selects it in place of the half-typed trigger
		if trigger, ok := e.results.Lookup(id); ok {
			q = q.Clone()
			q.CloseLast(trigger)
		}
	}

	targets, unknown := Resolve(snap.Catalog, q, e.cfg.DefaultTriggers)
	for _, trigger := range unknown {
		e.logger.Debug("skipping unknown trigger", "trigger", trigger)
	}
	for _, t := range targets {
		e.dispatch(ctx, t)
	}

	e.query = query.Parse("")
	e.results.Reset()
	e.state = StateIdle
	e.filled = ""

	return e.send(Response{Kind: ResponseClose})
}

func (e *Engine) dispatch(ctx context.Context, t Target) {
	if e.opener == nil {
		e.logger.Warn("no opener configured", "url", t.URL)
		return
	}
	if err := e.opener.Open(ctx, t.URL); err != nil {
		e.logger.Warn("failed to open bang", "trigger", t.Trigger, "error", err)
	}
}

func (e *Engine) send(r Response) error {
	if e.sink == nil {
		return nil
	}
	if err := e.sink.Send(r); err != nil {
		return fmt.Errorf("failed to send %s response: %w", r.Kind, err)
	}
	return nil
}

// EscapeQuery percent-encodes text for substitution into a bang URL.
// Spaces become %20 so the result is valid in both paths and query strings.
func EscapeQuery(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Package session drives the launcher conversation for bang queries.
//
// An Engine owns the state of a single session: the parsed query, the table
// of identifiers issued by the last search and the catalog snapshot it
// searches. Requests arrive one at a time through Handle:
//
//	Search(raw)    parse raw, announce ranked suggestions or a finish item
//	Complete(id)   turn the selected suggestion into a closed shortcut, Fill
//	Activate(id)   open every selected bang with the free text, Close
//	Exit           stop the session
//
// # States
//
//	Idle            no query yet, or the last one was activated
//	Suggesting      the final token is an open shortcut ("!gi")
//	ReadyToActivate the final token is free text or a completed shortcut
//
// In ReadyToActivate the result table holds a single synthetic finish result
// so the launcher always has something to activate.
//
// # Identifiers
//
// Identifiers start at 1 and are valid until the next search. A stale
// identifier passed to Complete is ignored and produces no response.
//
// # Reloads
//
// The catalog and its index live in one Snapshot behind an atomic pointer.
// Swap publishes a new pair; requests already in progress finish against the
// snapshot they started with.
package session

// Package query parses raw launcher input into shortcut and free-text tokens.
package query

import "strings"

// Indicator marks a token as a shortcut token
const Indicator = '!'

// ListSeparator joins several triggers inside one shortcut token (!g,ddg)
const ListSeparator = ","

// State is the parsed form of one raw query.
// It is replaced on every search and only patched by CloseLast.
type State struct {
	Tokens []string

	// lastClosed is set once the final shortcut token was picked from the
	// suggestions and should no longer be filtered incrementally.
	lastClosed bool
}

// Parse splits raw on runs of whitespace, dropping empty tokens
func Parse(raw string) *State {
	return &State{Tokens: strings.Fields(raw)}
}

// IsShortcut reports whether tok starts with the indicator
func IsShortcut(tok string) bool {
	return len(tok) > 0 && tok[0] == Indicator
}

// Clone returns an independent copy of the state
func (s *State) Clone() *State {
	return &State{
		Tokens:     append([]string(nil), s.Tokens...),
		lastClosed: s.lastClosed,
	}
}

// Shortcuts returns the shortcut token values with the indicator stripped
func (s *State) Shortcuts() []string {
	var out []string
	for _, tok := range s.Tokens {
		if IsShortcut(tok) {
			out = append(out, tok[1:])
		}
	}
	return out
}

// FreeTextTokens returns every token that is not a shortcut token
func (s *State) FreeTextTokens() []string {
	var out []string
	for _, tok := range s.Tokens {
		if !IsShortcut(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// FreeText is the text substituted into bang URLs
func (s *State) FreeText() string {
	return strings.Join(s.FreeTextTokens(), " ")
}

// Triggers flattens all shortcut tokens into their trigger list, in order.
// Empty list entries ("!g," or a bare "!") are dropped.
func (s *State) Triggers() []string {
	var out []string
	for _, value := range s.Shortcuts() {
		for _, t := range strings.Split(value, ListSeparator) {
			if t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// LastTokenIsOpenShortcut reports whether the user is still typing a trigger
func (s *State) LastTokenIsOpenShortcut() bool {
	if len(s.Tokens) == 0 || s.lastClosed {
		return false
	}
	return IsShortcut(s.Tokens[len(s.Tokens)-1])
}

// Candidate is the trigger text being typed: the last list entry of the open
// shortcut token. It is empty when there is no open shortcut.
func (s *State) Candidate() string {
	if !s.LastTokenIsOpenShortcut() {
		return ""
	}
	value := s.Tokens[len(s.Tokens)-1][1:]
	if i := strings.LastIndex(value, ListSeparator); i >= 0 {
		return value[i+len(ListSeparator):]
	}
	return value
}

// CloseLast replaces the candidate of the open shortcut token with trigger
// and marks the token as selected. It returns false when no shortcut is open.
func (s *State) CloseLast(trigger string) bool {
	if !s.LastTokenIsOpenShortcut() {
		return false
	}

	last := len(s.Tokens) - 1
	value := s.Tokens[last][1:]
	prefix := ""
	if i := strings.LastIndex(value, ListSeparator); i >= 0 {
		prefix = value[:i+len(ListSeparator)]
	}

	s.Tokens = append(s.Tokens[:last], string(Indicator)+prefix+trigger)
	s.lastClosed = true
	return true
}

// String rebuilds the query the way the launcher should display it: one
// indicator followed by every trigger joined with ListSeparator, then the
// free text. A trailing space is kept when there is no free text yet so the
// user can continue typing the search phrase.
func (s *State) String() string {
	triggers := s.Triggers()
	free := s.FreeText()

	if len(triggers) == 0 {
		return free
	}

	return string(Indicator) + strings.Join(triggers, ListSeparator) + " " + free
}

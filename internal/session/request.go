package session

import "fmt"

// Kind tags a Request
type Kind int

const (
	KindOther Kind = iota // Anything the engine does not handle
	KindSearch
	KindComplete
	KindActivate
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindComplete:
		return "complete"
	case KindActivate:
		return "activate"
	case KindExit:
		return "exit"
	case KindOther:
		return "other"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request is one event from the launcher
type Request struct {
	Kind  Kind
	Query string // KindSearch
	ID    uint32 // KindComplete, KindActivate
	Name  string // KindOther: the raw request name, for logging
}

// Search builds a search request
func Search(query string) Request {
	return Request{Kind: KindSearch, Query: query}
}

// Complete builds a completion request
func Complete(id uint32) Request {
	return Request{Kind: KindComplete, ID: id}
}

// Activate builds an activation request
func Activate(id uint32) Request {
	return Request{Kind: KindActivate, ID: id}
}

// Exit builds an exit request
func Exit() Request {
	return Request{Kind: KindExit}
}

// Other wraps a request the engine ignores
func Other(name string) Request {
	return Request{Kind: KindOther, Name: name}
}

// ResponseKind tags a Response
type ResponseKind int

const (
	ResponseAppend ResponseKind = iota + 1
	ResponseFinished
	ResponseFill
	ResponseClose
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseAppend:
		return "append"
	case ResponseFinished:
		return "finished"
	case ResponseFill:
		return "fill"
	case ResponseClose:
		return "close"
	}
	return fmt.Sprintf("response(%d)", int(k))
}

// Item is one announced search result
type Item struct {
	ID          uint32
	Name        string
	Description string
}

// Response is one event sent back to the launcher
type Response struct {
	Kind ResponseKind
	Item Item   // ResponseAppend
	Text string // ResponseFill
}

// Sink receives responses in order
type Sink interface {
	Send(Response) error
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(Response) error

func (f SinkFunc) Send(r Response) error {
	return f(r)
}

package plugin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/gobangs/internal/session"
)

// ErrMalformedRequest is returned for lines that are not a launcher request
var ErrMalformedRequest = errors.New("malformed request")

// DecodeRequest parses one request line. Unit requests are JSON strings
// ("Exit"), the others single-key objects ({"Search":"!g foo"}).
// Well-formed requests the engine has no use for decode to session.Other.
func DecodeRequest(line []byte) (session.Request, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return session.Request{}, fmt.Errorf("%w: empty line", ErrMalformedRequest)
	}

	if line[0] == '"' {
		var name string
		if err := json.Unmarshal(line, &name); err != nil {
			return session.Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		if name == "Exit" {
			return session.Exit(), nil
		}
		return session.Other(name), nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(line, &tagged); err != nil {
		return session.Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if len(tagged) != 1 {
		return session.Request{}, fmt.Errorf("%w: expected one variant, got %d", ErrMalformedRequest, len(tagged))
	}

	var name string
	var payload json.RawMessage
	for k, v := range tagged {
		name, payload = k, v
	}

	switch name {
	case "Search":
		var q string
		if err := json.Unmarshal(payload, &q); err != nil {
			return session.Request{}, fmt.Errorf("%w: Search payload: %v", ErrMalformedRequest, err)
		}
		return session.Search(q), nil

	case "Complete", "Activate":
		var id uint32
		if err := json.Unmarshal(payload, &id); err != nil {
			return session.Request{}, fmt.Errorf("%w: %s payload: %v", ErrMalformedRequest, name, err)
		}
		if name == "Complete" {
			return session.Complete(id), nil
		}
		return session.Activate(id), nil
	}

	return session.Other(name), nil
}

// searchResult is one launcher list entry
type searchResult struct {
	ID          uint32 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EncodeResponse renders a response as one JSON value without a newline
func EncodeResponse(r session.Response) ([]byte, error) {
	switch r.Kind {
	case session.ResponseAppend:
		return json.Marshal(map[string]searchResult{
			"Append": {ID: r.Item.ID, Name: r.Item.Name, Description: r.Item.Description},
		})
	case session.ResponseFinished:
		return json.Marshal("Finished")
	case session.ResponseFill:
		return json.Marshal(map[string]string{"Fill": r.Text})
	case session.ResponseClose:
		return json.Marshal("Close")
	}
	return nil, fmt.Errorf("cannot encode %s response", r.Kind)
}

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dshills/gobangs/pkg/types"
)

// ErrNotArray is returned when a database document is not a JSON array
var ErrNotArray = errors.New("bang database must be a JSON array")

// recordSchema accepts both the long field names and DuckDuckGo's short aliases
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "t":           {"type": "string", "minLength": 1},
    "trigger":     {"type": "string", "minLength": 1},
    "u":           {"type": "string", "minLength": 1},
    "url":         {"type": "string", "minLength": 1},
    "s":           {"type": "string"},
    "name":        {"type": "string"},
    "d":           {"type": "string"},
    "domain":      {"type": "string"},
    "c":           {"type": "string"},
    "category":    {"type": "string"},
    "sc":          {"type": "string"},
    "subcategory": {"type": "string"},
    "r":           {"type": "integer", "minimum": 0},
    "relevance":   {"type": "integer", "minimum": 0}
  },
  "allOf": [
    {"anyOf": [{"required": ["t"]}, {"required": ["trigger"]}]},
    {"anyOf": [{"required": ["u"]}, {"required": ["url"]}]}
  ]
}`

var bangSchema = jsonschema.MustCompileString("bang.schema.json", recordSchema)

// record is the on-disk shape of a bang
type record struct {
	T       string `json:"t,omitempty"`
	Trigger string `json:"trigger,omitempty"`
	U       string `json:"u,omitempty"`
	URL     string `json:"url,omitempty"`
	S       string `json:"s,omitempty"`
	Name    string `json:"name,omitempty"`
	D       string `json:"d,omitempty"`
	Domain  string `json:"domain,omitempty"`
	C       string `json:"c,omitempty"`
	Cat     string `json:"category,omitempty"`
	SC      string `json:"sc,omitempty"`
	SubCat  string `json:"subcategory,omitempty"`
	R       *int64 `json:"r,omitempty"`
	Rel     *int64 `json:"relevance,omitempty"`
}

func (r *record) toBang() types.Bang {
	b := types.Bang{
		Trigger:     pick(r.Trigger, r.T),
		URL:         pick(r.URL, r.U),
		Name:        pick(r.Name, r.S),
		Domain:      pick(r.Domain, r.D),
		Category:    pick(r.Cat, r.C),
		Subcategory: pick(r.SubCat, r.SC),
	}
	switch {
	case r.Rel != nil:
		b.Relevance = *r.Rel
	case r.R != nil:
		b.Relevance = *r.R
	}
	return b
}

func pick(long, short string) string {
	if long != "" {
		return long
	}
	return short
}

// DecodeRecords parses a bang database document.
//
// Every element is validated on its own; malformed elements are reported as
// warnings and left out. Only a document that is not an array is an error.
func DecodeRecords(source string, data []byte) ([]types.Bang, []Warning, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	if elems == nil {
		// null unmarshals without error but is not a database
		return nil, nil, fmt.Errorf("%w: got null", ErrNotArray)
	}

	bangs := make([]types.Bang, 0, len(elems))
	var warnings []Warning

	for i, elem := range elems {
		b, err := decodeRecord(elem)
		if err != nil {
			warnings = append(warnings, Warning{Source: source, Index: i, Trigger: b.Trigger, Err: err})
			continue
		}
		bangs = append(bangs, b)
	}

	return bangs, warnings, nil
}

func decodeRecord(elem json.RawMessage) (types.Bang, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return types.Bang{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var rec record
	// Best effort so the warning can name the trigger
	_ = json.Unmarshal(elem, &rec)

	if err := bangSchema.Validate(doc); err != nil {
		return rec.toBang(), fmt.Errorf("schema: %s", firstLine(err.Error()))
	}

	if err := json.Unmarshal(elem, &rec); err != nil {
		return rec.toBang(), fmt.Errorf("decode: %w", err)
	}

	return rec.toBang(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// EncodeRecords writes bangs in DuckDuckGo's short-alias format
func EncodeRecords(bangs []types.Bang) ([]byte, error) {
	out := make([]record, len(bangs))
	for i, b := range bangs {
		rel := b.Relevance
		out[i] = record{
			T:  b.Trigger,
			U:  b.URL,
			S:  b.Name,
			D:  b.Domain,
			C:  b.Category,
			SC: b.Subcategory,
			R:  &rel,
		}
	}
	return json.Marshal(out)
}

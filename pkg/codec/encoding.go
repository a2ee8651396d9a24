// Package codec provides the body-parsing and serialization collaborators for
// the seqmux framework, keyed off content types.
package codec

import (
	"encoding/json"
)

// JSONSerializer turns arbitrary values into JSON response bytes. It is the
// default serialization collaborator: non-Response handler return values are
// wrapped through it.
type JSONSerializer struct{}

// NewJSONSerializer creates a JSONSerializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize marshals v to JSON.
func (s *JSONSerializer) Serialize(v any) ([]byte, string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return body, "application/json", nil
}

// TextSerializer renders values with plain formatting. Strings and byte
// slices pass through as-is; everything else falls back to JSON.
type TextSerializer struct{}

// NewTextSerializer creates a TextSerializer.
func NewTextSerializer() *TextSerializer {
	return &TextSerializer{}
}

// Serialize renders v as plain text where it can.
func (s *TextSerializer) Serialize(v any) ([]byte, string, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), "text/plain; charset=utf-8", nil
	case []byte:
		return t, "application/octet-stream", nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return body, "application/json", nil
}

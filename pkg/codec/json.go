package codec

import (
	"encoding/json"
	"io"
	"net/http"
)

// JSONCodec decodes typed request data from JSON bodies and encodes typed
// response data back to JSON. It satisfies the router's Codec interface.
type JSONCodec[Req any, Resp any] struct{}

// NewJSONCodec creates a JSONCodec for the specified types.
func NewJSONCodec[Req any, Resp any]() *JSONCodec[Req, Resp] {
	return &JSONCodec[Req, Resp]{}
}

// Decode reads the entire request body and unmarshals it into a value of
// type Req.
func (c *JSONCodec[Req, Resp]) Decode(r *http.Request) (Req, error) {
	var data Req

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return data, err
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, &data); err != nil {
		return data, err
	}
	return data, nil
}

// Encode marshals the response value to JSON bytes.
func (c *JSONCodec[Req, Resp]) Encode(resp Resp) ([]byte, string, error) {
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, "", err
	}
	return body, "application/json", nil
}

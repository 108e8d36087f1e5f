// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec marshals plain Go messages with encoding/json. It registers under
// the "json" name, so requests use the application/json content type.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

// WithJSON makes a handler or client speak the JSON codec. The constructors
// in this package apply it already.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}

// Package api defines the wire contract of the ledger services: procedure names,
// request and response messages, the JSON codec they travel in, and typed clients.
//
// Messages are plain Go structs. Amounts are decimal strings with at most two
// fractional digits ("1250.00"); times are RFC 3339.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec marshals messages as JSON. It registers under the "json" name so it replaces
// Connect's protobuf JSON codec on both handlers and clients.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}

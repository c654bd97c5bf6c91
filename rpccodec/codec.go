// Package rpccodec provides the wire codec shared by nextappd's server and
// client: SPEC_FULL.md treats the protobuf schema as an external
// collaborator, so rather than fabricate protoc-generated marshaling, both
// ends register this JSON codec and exchange the hand-rolled api.* structs
// directly.
package rpccodec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the codec name both client and server must negotiate.
const Name = "nextapp-json"

// Codec implements encoding.Codec over plain Go structs.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string {
	return Name
}

func init() {
	encoding.RegisterCodec(Codec{})
}

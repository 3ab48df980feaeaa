package node

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content subtype of RenderNode calls,
// so they are sent as application/grpc+json.
const codecName = "json"

// jsonCodec encodes RenderNode messages, which are plain structs, as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

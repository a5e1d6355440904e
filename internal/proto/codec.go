package proto

import (
	"fmt"

	"google.golang.org/grpc"
)

// CodecName doubles as the gRPC content-subtype, so peers built with the
// standard protobuf codec interoperate with this one.
const CodecName = "proto"

// Codec implements grpc/encoding.Codec for Message values.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("codec: %T does not implement proto.Message", v)
	}
	return m.MarshalWire()
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("codec: %T does not implement proto.Message", v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string {
	return CodecName
}

// ServerCodecOption forces Codec for every message a server handles.
func ServerCodecOption() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}

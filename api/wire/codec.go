package wire

import (
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype clients pass to speak this
// encoding ("application/grpc+nanowire").
const CodecName = "nanowire"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec adapts the wire encoding to grpc's encoding.Codec. Both ends of
// every RPC exchange wire.Message implementations, so Marshal is a
// single append chain and Unmarshal a single scan; no proto descriptors
// are involved.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, typeError(v)
	}
	return m.AppendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return typeError(v)
	}
	return m.DecodeWire(data)
}

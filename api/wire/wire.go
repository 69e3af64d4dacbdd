// Package wire defines the value-typed messages crossing the process
// boundary and their binary encoding. The encoding is standard protobuf
// wire format written by hand against encoding/protowire: field numbers
// are the contract, there is no generated code, and marshalling a
// request costs one buffer append chain and no reflection.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every wire type.
type Message interface {
	// AppendWire appends the protobuf wire encoding to b.
	AppendWire(b []byte) []byte
	// DecodeWire replaces the receiver with the decoded content of b.
	DecodeWire(b []byte) error
}

// SideBid and SideAsk are the on-wire side tags.
const (
	SideBid uint64 = 0
	SideAsk uint64 = 1
)

// SubmitRequest asks the engine to enter a new limit order.
//
// Fields: 1 id, 2 price, 3 qty, 4 side.
type SubmitRequest struct {
	ID    uint64
	Price uint64
	Qty   uint64
	Side  uint64
}

func (m *SubmitRequest) AppendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.ID)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Price)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Qty)
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Side)
	return b
}

func (m *SubmitRequest) DecodeWire(b []byte) error {
	*m = SubmitRequest{}
	return walkFields(b, func(num protowire.Number, v uint64) {
		switch num {
		case 1:
			m.ID = v
		case 2:
			m.Price = v
		case 3:
			m.Qty = v
		case 4:
			m.Side = v
		}
	})
}

// CancelRequest asks the engine to remove a resting order.
//
// Fields: 1 id.
type CancelRequest struct {
	ID uint64
}

func (m *CancelRequest) AppendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.ID)
	return b
}

func (m *CancelRequest) DecodeWire(b []byte) error {
	*m = CancelRequest{}
	return walkFields(b, func(num protowire.Number, v uint64) {
		if num == 1 {
			m.ID = v
		}
	})
}

// Ack reports whether a request was accepted into the ingress ring.
// Rejections carry a short reason; the engine itself never reports back
// through this path.
//
// Fields: 1 ok, 2 detail.
type Ack struct {
	OK     bool
	Detail string
}

func (m *Ack) AppendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(m.OK))
	if m.Detail != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.Detail)
	}
	return b
}

func (m *Ack) DecodeWire(b []byte) error {
	*m = Ack{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.OK = protowire.DecodeBool(v)
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Detail = s
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// DepthRequest asks for the latest published depth snapshot.
//
// Fields: 1 max_levels (0 means all).
type DepthRequest struct {
	MaxLevels uint64
}

func (m *DepthRequest) AppendWire(b []byte) []byte {
	if m.MaxLevels != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, m.MaxLevels)
	}
	return b
}

func (m *DepthRequest) DecodeWire(b []byte) error {
	*m = DepthRequest{}
	return walkFields(b, func(num protowire.Number, v uint64) {
		if num == 1 {
			m.MaxLevels = v
		}
	})
}

// DepthLevel is one price level of a snapshot.
//
// Fields: 1 side, 2 price, 3 volume.
type DepthLevel struct {
	Side   uint64
	Price  uint64
	Volume uint64
}

func (m *DepthLevel) AppendWire(b []byte) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Side)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Price)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Volume)
	return b
}

func (m *DepthLevel) DecodeWire(b []byte) error {
	*m = DepthLevel{}
	return walkFields(b, func(num protowire.Number, v uint64) {
		switch num {
		case 1:
			m.Side = v
		case 2:
			m.Price = v
		case 3:
			m.Volume = v
		}
	})
}

// DepthReply carries the snapshot rows, bids best to worst then asks
// best to worst, plus the trade sequence the snapshot was taken at.
//
// Fields: 1 repeated DepthLevel, 2 seq.
type DepthReply struct {
	Levels []DepthLevel
	Seq    uint64
}

func (m *DepthReply) AppendWire(b []byte) []byte {
	for i := range m.Levels {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Levels[i].AppendWire(nil))
	}
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, m.Seq)
	return b
}

func (m *DepthReply) DecodeWire(b []byte) error {
	*m = DepthReply{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			var lvl DepthLevel
			if err := lvl.DecodeWire(raw); err != nil {
				return err
			}
			m.Levels = append(m.Levels, lvl)
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Seq = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// walkFields consumes a message whose known fields are all varints,
// skipping anything it does not recognize.
func walkFields(b []byte, set func(num protowire.Number, v uint64)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			set(num, v)
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func typeError(v any) error {
	return fmt.Errorf("wire: %T does not implement wire.Message", v)
}

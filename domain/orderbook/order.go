package orderbook

// Side tags an order as a bid or an ask.
type Side uint8

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// Order is a resting limit order. Qty is the remaining quantity and is
// strictly positive while the order is linked into a level; it reaches
// zero only inside the cross loop, which unlinks and releases the record
// within the same operation.
//
// next/prev are the intrusive siblings of the owning level's FIFO chain.
// slot is the record's index in the book's slab and never changes while
// the order is live.
type Order struct {
	ID    uint64
	Price uint64
	Qty   uint64
	Side  Side

	next *Order
	prev *Order
	slot uint32
}

// Next returns the successor in the level queue, nil at the tail.
// Read-only walkers (snapshots, tests) use it; the book never exposes
// a way to mutate the chain from outside.
func (o *Order) Next() *Order { return o.next }

// Request is the value-typed message carried over the ingress ring.
// Cancel selects between the two operations; Price, Qty and Side are
// ignored for cancels.
type Request struct {
	ID     uint64
	Price  uint64
	Qty    uint64
	Side   Side
	Cancel bool
}

// Trade is one execution produced by the cross loop. Price is always the
// resting (passive) counterparty's price. Seq is assigned from the book's
// sequencer and is strictly monotonic within a book.
type Trade struct {
	Seq   uint64
	BidID uint64
	AskID uint64
	Price uint64
	Qty   uint64
}

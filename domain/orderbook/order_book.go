package orderbook

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"nanobook/infra/memory"
	"nanobook/infra/sequence"
)

var (
	// ErrPoolExhausted is returned by Submit when the order slab has no
	// free slot. The request is dropped; no partial state persists.
	ErrPoolExhausted = errors.New("orderbook: order pool exhausted")

	// ErrUnknownOrder is returned by Cancel for an id not resting in the
	// book.
	ErrUnknownOrder = errors.New("orderbook: unknown order id")
)

// Config carries construction parameters for a Book. Zero values are
// filled with defaults by New.
type Config struct {
	// Capacity is the slab size: the maximum number of simultaneously
	// resting orders. Fixed for the life of the book.
	Capacity int

	// DepthHint is the expected number of live price levels, used to
	// presize the btree node free list shared by both sides. Optional.
	DepthHint int

	// OnTrade receives every execution in emission order. Called from
	// the book's owning goroutine; must not call back into the book.
	OnTrade func(Trade)
}

const (
	defaultCapacity  = 1 << 16
	defaultDepthHint = 256
)

// Book is the matching engine for one symbol. All state is exclusively
// owned by a single goroutine; none of the methods are safe for
// concurrent use (see Locked for the coarse-locked deployment mode).
type Book struct {
	bids *sideTree
	asks *sideTree

	orders map[uint64]*Order
	pool   *memory.Slab[Order]
	seq    *sequence.Sequencer

	onTrade func(Trade)
}

// New builds an empty book with a fully preallocated order slab.
func New(cfg Config) *Book {
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.DepthHint <= 0 {
		cfg.DepthHint = defaultDepthHint
	}
	levels := memory.NewPool(func() *PriceLevel { return &PriceLevel{} })
	fl := btree.NewFreeListG[*PriceLevel](cfg.DepthHint)
	return &Book{
		bids:    newSideTree(Bid, levels, fl),
		asks:    newSideTree(Ask, levels, fl),
		orders:  make(map[uint64]*Order, cfg.Capacity),
		pool:    memory.NewSlab[Order](cfg.Capacity),
		seq:     sequence.New(0),
		onTrade: cfg.OnTrade,
	}
}

func (b *Book) side(s Side) *sideTree {
	if s == Bid {
		return b.bids
	}
	return b.asks
}

// Submit enters a new limit order and runs the cross loop. A duplicate
// id is dropped silently: retried pushes by a flaky producer must not
// produce phantom orders. A zero quantity is likewise a no-op, keeping
// the linked-implies-positive invariant without widening the error
// surface. Pool exhaustion rejects the order with ErrPoolExhausted.
func (b *Book) Submit(id, price, qty uint64, side Side) error {
	if qty == 0 {
		return nil
	}
	if _, dup := b.orders[id]; dup {
		return nil
	}

	o, slot, ok := b.pool.Acquire()
	if !ok {
		return ErrPoolExhausted
	}
	*o = Order{ID: id, Price: price, Qty: qty, Side: side, slot: slot}

	b.orders[id] = o
	b.side(side).upsert(price).Enqueue(o)

	b.match(side)
	return nil
}

// Cancel unlinks a resting order, releases its slot, and removes the
// price level if it emptied. Cancelling an id that is not resting
// returns ErrUnknownOrder and changes nothing.
func (b *Book) Cancel(id uint64) error {
	o, ok := b.orders[id]
	if !ok {
		return ErrUnknownOrder
	}
	st := b.side(o.Side)
	lvl := st.find(o.Price)
	if lvl == nil {
		panic(fmt.Sprintf("orderbook: indexed order %d has no level at %d/%s", id, o.Price, o.Side))
	}
	lvl.Unlink(o)
	delete(b.orders, id)
	b.pool.Release(o.slot)
	if lvl.Empty() {
		st.drop(lvl)
	}
	return nil
}

// match is the cross loop: while the spread is inverted, fill the heads
// of the two best levels against each other. Price priority picks the
// levels, FIFO order within a level picks the orders, and the execution
// price is the price of the best level on the side opposite the
// aggressor, i.e. the passive counterparty's price.
func (b *Book) match(aggressor Side) {
	for {
		bestBid := b.bids.best()
		bestAsk := b.asks.best()
		if bestBid == nil || bestAsk == nil || bestBid.Price < bestAsk.Price {
			return
		}

		bid := bestBid.head
		ask := bestAsk.head

		fill := bid.Qty
		if ask.Qty < fill {
			fill = ask.Qty
		}

		price := bestAsk.Price
		if aggressor == Ask {
			price = bestBid.Price
		}

		if b.onTrade != nil {
			b.onTrade(Trade{
				Seq:   b.seq.Next(),
				BidID: bid.ID,
				AskID: ask.ID,
				Price: price,
				Qty:   fill,
			})
		} else {
			b.seq.Next()
		}

		bid.Qty -= fill
		ask.Qty -= fill
		bestBid.Volume -= fill
		bestAsk.Volume -= fill

		if bid.Qty == 0 {
			b.retire(bestBid, bid, b.bids)
		}
		if ask.Qty == 0 {
			b.retire(bestAsk, ask, b.asks)
		}
	}
}

// retire unlinks a fully filled order, drops it from the index, returns
// its slot to the slab, and removes the level if it emptied.
func (b *Book) retire(lvl *PriceLevel, o *Order, st *sideTree) {
	lvl.Unlink(o)
	if _, ok := b.orders[o.ID]; !ok {
		panic(fmt.Sprintf("orderbook: filled order %d missing from index", o.ID))
	}
	delete(b.orders, o.ID)
	b.pool.Release(o.slot)
	if lvl.Empty() {
		st.drop(lvl)
	}
}

// LevelInfo is one row of a depth snapshot.
type LevelInfo struct {
	Side   Side
	Price  uint64
	Volume uint64
}

// Snapshot visits every live level, bids best to worst then asks best
// to worst, until visit returns false. This is the only read surface
// intended for dashboards.
func (b *Book) Snapshot(visit func(side Side, price, volume uint64) bool) {
	stopped := false
	b.bids.walk(func(lvl *PriceLevel) bool {
		if !visit(Bid, lvl.Price, lvl.Volume) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	b.asks.walk(func(lvl *PriceLevel) bool {
		return visit(Ask, lvl.Price, lvl.Volume)
	})
}

// Depth materializes Snapshot into a slice, for boundary layers that
// ship the book state elsewhere. Allocates; not for the hot path.
func (b *Book) Depth() []LevelInfo {
	out := make([]LevelInfo, 0, b.bids.len()+b.asks.len())
	b.Snapshot(func(side Side, price, volume uint64) bool {
		out = append(out, LevelInfo{Side: side, Price: price, Volume: volume})
		return true
	})
	return out
}

// BestBid returns the top bid level's price and volume, ok=false when
// the bid side is empty.
func (b *Book) BestBid() (price, volume uint64, ok bool) {
	if lvl := b.bids.best(); lvl != nil {
		return lvl.Price, lvl.Volume, true
	}
	return 0, 0, false
}

// BestAsk returns the top ask level's price and volume, ok=false when
// the ask side is empty.
func (b *Book) BestAsk() (price, volume uint64, ok bool) {
	if lvl := b.asks.best(); lvl != nil {
		return lvl.Price, lvl.Volume, true
	}
	return 0, 0, false
}

// Resting reports the number of live orders in the book.
func (b *Book) Resting() int { return len(b.orders) }

// Has reports whether id is currently resting. Runtime layers use it to
// observe the duplicate-submit no-op without changing its semantics.
func (b *Book) Has(id uint64) bool {
	_, ok := b.orders[id]
	return ok
}

// LastSeq returns the sequence number of the most recent trade.
func (b *Book) LastSeq() uint64 { return b.seq.Current() }

package service

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"nanobook/domain/orderbook"
	"nanobook/infra/memory"
)

// Config sizes the engine. Zero values are defaulted by New.
type Config struct {
	// PoolCapacity bounds simultaneously resting orders.
	PoolCapacity int
	// DepthHint presizes level structures for the expected book depth.
	DepthHint int
	// RingCapacity bounds the ingress ring.
	RingCapacity int
	// TradeBuffer bounds the outbound trade ring; 0 disables trade
	// fan-out entirely (the book stays authoritative either way).
	TradeBuffer int
}

const (
	defaultRingCapacity = 1 << 14
	// depthEvery caps how many requests may apply between snapshot
	// publications while the ring never drains.
	depthEvery = 4096
)

// Stats are the engine's operation counters. They are owned by the
// engine goroutine and exported only as copies inside Depth snapshots.
type Stats struct {
	Applied        uint64
	Duplicates     uint64
	RejectedPool   uint64
	UnknownCancels uint64
	Trades         uint64
	DroppedTrades  uint64
}

// Depth is one published view of the book: levels bids best to worst
// then asks best to worst, the trade sequence at capture time, and a
// copy of the counters. Snapshots are immutable once published.
type Depth struct {
	Levels []orderbook.LevelInfo
	Seq    uint64
	Stats  Stats
	At     time.Time
}

// Engine drives a Book from an SPSC ring.
type Engine struct {
	book   *orderbook.Book
	ring   *memory.Ring[orderbook.Request]
	trades *memory.Ring[orderbook.Trade]

	depth atomic.Pointer[Depth]
	stats Stats

	ingress Ingress
}

// New wires the book, the ingress ring, and the optional trade ring.
func New(cfg Config) *Engine {
	if cfg.RingCapacity <= 0 {
		cfg.RingCapacity = defaultRingCapacity
	}
	e := &Engine{
		ring: memory.NewRing[orderbook.Request](cfg.RingCapacity),
	}
	e.book = orderbook.New(orderbook.Config{
		Capacity:  cfg.PoolCapacity,
		DepthHint: cfg.DepthHint,
		OnTrade:   e.onTrade,
	})
	if cfg.TradeBuffer > 0 {
		e.trades = memory.NewRing[orderbook.Trade](cfg.TradeBuffer)
	}
	e.depth.Store(&Depth{At: time.Now()})
	e.ingress.ring = e.ring
	return e
}

// Ring exposes the raw ingress ring for a caller that IS the single
// producer (such as this package's tests). Everything else goes through
// Ingress.
func (e *Engine) Ring() *memory.Ring[orderbook.Request] { return e.ring }

// Ingress returns the serialized producer handle shared by concurrent
// boundary handlers.
func (e *Engine) Ingress() *Ingress { return &e.ingress }

// PopTrade drains the outbound trade ring. Single consumer only; false
// when the ring is empty or fan-out is disabled.
func (e *Engine) PopTrade(out *orderbook.Trade) bool {
	if e.trades == nil {
		return false
	}
	return e.trades.Pop(out)
}

// DepthSnapshot returns the most recently published view. Safe from any
// goroutine; the snapshot is never mutated after publication.
func (e *Engine) DepthSnapshot() *Depth { return e.depth.Load() }

// Run is the matching loop: drain, apply, republish, spin. It owns the
// book for its whole lifetime and returns only on context cancellation,
// after the requests already applied are reflected in a final snapshot.
func (e *Engine) Run(ctx context.Context) {
	var (
		req   orderbook.Request
		dirty bool
		ops   int
	)
	for {
		if e.ring.Pop(&req) {
			e.apply(req)
			dirty = true
			ops++
			if ops < depthEvery {
				continue
			}
		}

		// Ring drained, or enough applied that readers deserve a
		// fresh view even under sustained load.
		if dirty {
			e.publish()
			dirty = false
		}
		ops = 0

		select {
		case <-ctx.Done():
			return
		default:
		}
		runtime.Gosched()
	}
}

func (e *Engine) apply(req orderbook.Request) {
	if req.Cancel {
		switch err := e.book.Cancel(req.ID); err {
		case nil:
			e.stats.Applied++
		case orderbook.ErrUnknownOrder:
			e.stats.UnknownCancels++
		}
		return
	}

	// The book drops duplicates silently; the counter is the only place
	// they become observable.
	if e.book.Has(req.ID) {
		e.stats.Duplicates++
		return
	}
	switch err := e.book.Submit(req.ID, req.Price, req.Qty, req.Side); err {
	case nil:
		e.stats.Applied++
	case orderbook.ErrPoolExhausted:
		e.stats.RejectedPool++
	}
}

func (e *Engine) onTrade(t orderbook.Trade) {
	e.stats.Trades++
	if e.trades != nil && !e.trades.Push(t) {
		e.stats.DroppedTrades++
	}
}

func (e *Engine) publish() {
	e.depth.Store(&Depth{
		Levels: e.book.Depth(),
		Seq:    e.book.LastSeq(),
		Stats:  e.stats,
		At:     time.Now(),
	})
}

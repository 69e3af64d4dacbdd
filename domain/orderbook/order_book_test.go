package orderbook

import "testing"

func newTestBook(capacity int) (*Book, *[]Trade) {
	trades := &[]Trade{}
	b := New(Config{
		Capacity:  capacity,
		DepthHint: 16,
		OnTrade:   func(t Trade) { *trades = append(*trades, t) },
	})
	return b, trades
}

// verifyBook sweeps every universal invariant: index and level queues
// mirror each other, prices are strictly monotonic in book order,
// levels are non-empty with exact cached volume, the spread is not
// inverted, and slab accounting conserves capacity.
func verifyBook(t *testing.T, b *Book) {
	t.Helper()

	live := 0
	checkSide := func(st *sideTree, side Side) {
		first := true
		var prev uint64
		st.walk(func(lvl *PriceLevel) bool {
			if lvl.Empty() {
				t.Fatalf("%s level %d is empty but present", side, lvl.Price)
			}
			if !first {
				if side == Bid && lvl.Price >= prev {
					t.Fatalf("bid prices not strictly descending: %d after %d", lvl.Price, prev)
				}
				if side == Ask && lvl.Price <= prev {
					t.Fatalf("ask prices not strictly ascending: %d after %d", lvl.Price, prev)
				}
			}
			first = false
			prev = lvl.Price

			var sum uint64
			for o := lvl.Head(); o != nil; o = o.Next() {
				if o.Qty == 0 {
					t.Fatalf("order %d linked with zero quantity", o.ID)
				}
				if o.Side != side || o.Price != lvl.Price {
					t.Fatalf("order %d misfiled at %d/%s", o.ID, lvl.Price, side)
				}
				indexed, ok := b.orders[o.ID]
				if !ok || indexed != o {
					t.Fatalf("order %d not resolvable through the index", o.ID)
				}
				sum += o.Qty
				live++
			}
			if sum != lvl.Volume {
				t.Fatalf("level %d/%s volume %d, chain sums to %d", lvl.Price, side, lvl.Volume, sum)
			}
			return true
		})
	}
	checkSide(b.bids, Bid)
	checkSide(b.asks, Ask)

	if live != len(b.orders) {
		t.Fatalf("index holds %d orders, levels hold %d", len(b.orders), live)
	}
	if live != b.pool.Live() {
		t.Fatalf("slab reports %d live, book links %d", b.pool.Live(), live)
	}
	if b.pool.Live()+b.pool.Free() != b.pool.Cap() {
		t.Fatalf("slab conservation broken: live=%d free=%d cap=%d",
			b.pool.Live(), b.pool.Free(), b.pool.Cap())
	}

	if bid, _, ok := b.BestBid(); ok {
		if ask, _, ok := b.BestAsk(); ok && bid >= ask {
			t.Fatalf("inverted spread survived: bid %d >= ask %d", bid, ask)
		}
	}
}

func mustSubmit(t *testing.T, b *Book, id, price, qty uint64, side Side) {
	t.Helper()
	if err := b.Submit(id, price, qty, side); err != nil {
		t.Fatalf("submit %d: %v", id, err)
	}
	verifyBook(t, b)
}

func TestRestThenAggressiveCross(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 105, 100, Ask)
	mustSubmit(t, b, 2, 105, 50, Bid)

	if len(*trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(*trades))
	}
	tr := (*trades)[0]
	if tr.BidID != 2 || tr.AskID != 1 || tr.Price != 105 || tr.Qty != 50 {
		t.Fatalf("unexpected trade %+v", tr)
	}

	if b.Has(2) {
		t.Fatal("aggressive order 2 should be fully filled and released")
	}
	price, vol, ok := b.BestAsk()
	if !ok || price != 105 || vol != 50 {
		t.Fatalf("expected ask 105x50, got %d x %d ok=%v", price, vol, ok)
	}
	if _, _, ok := b.BestBid(); ok {
		t.Fatal("bid side should be empty")
	}
}

func TestWalkTheBook(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 105, 100, Ask)
	mustSubmit(t, b, 2, 105, 50, Bid)
	mustSubmit(t, b, 3, 106, 200, Bid)

	if len(*trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(*trades))
	}
	tr := (*trades)[1]
	if tr.BidID != 3 || tr.AskID != 1 || tr.Price != 105 || tr.Qty != 50 {
		t.Fatalf("unexpected second trade %+v", tr)
	}

	if b.Has(1) {
		t.Fatal("order 1 should be fully filled and released")
	}
	if _, _, ok := b.BestAsk(); ok {
		t.Fatal("ask side should be empty")
	}
	price, vol, ok := b.BestBid()
	if !ok || price != 106 || vol != 150 {
		t.Fatalf("expected bid 106x150, got %d x %d ok=%v", price, vol, ok)
	}
	if got := b.orders[3].Qty; got != 150 {
		t.Fatalf("expected order 3 remaining 150, got %d", got)
	}
}

func TestCancelBeforeMatch(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 100, 100, Bid)
	if err := b.Cancel(1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	verifyBook(t, b)
	mustSubmit(t, b, 2, 100, 100, Ask)

	if len(*trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(*trades))
	}
	if b.Has(1) {
		t.Fatal("order 1 should be gone")
	}
	price, vol, ok := b.BestAsk()
	if !ok || price != 100 || vol != 100 {
		t.Fatalf("expected ask 100x100, got %d x %d ok=%v", price, vol, ok)
	}
}

func TestPriceTimePriority(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 100, 10, Bid)
	mustSubmit(t, b, 2, 100, 10, Bid)
	mustSubmit(t, b, 3, 100, 15, Ask)

	if len(*trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(*trades))
	}
	first, second := (*trades)[0], (*trades)[1]
	if first.BidID != 1 || first.AskID != 3 || first.Qty != 10 || first.Price != 100 {
		t.Fatalf("unexpected first trade %+v", first)
	}
	if second.BidID != 2 || second.AskID != 3 || second.Qty != 5 || second.Price != 100 {
		t.Fatalf("unexpected second trade %+v", second)
	}
	if first.Seq >= second.Seq {
		t.Fatalf("trade sequence not monotonic: %d then %d", first.Seq, second.Seq)
	}

	if b.Has(1) || b.Has(3) {
		t.Fatal("orders 1 and 3 should be released")
	}
	price, vol, ok := b.BestBid()
	if !ok || price != 100 || vol != 5 {
		t.Fatalf("expected bid 100x5, got %d x %d ok=%v", price, vol, ok)
	}
	if got := b.orders[2].Qty; got != 5 {
		t.Fatalf("expected order 2 remaining 5, got %d", got)
	}
}

func TestDuplicateSubmitIsSilent(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 100, 10, Bid)
	if err := b.Submit(1, 999, 999, Ask); err != nil {
		t.Fatalf("duplicate submit should be a silent no-op, got %v", err)
	}
	verifyBook(t, b)

	if len(*trades) != 0 {
		t.Fatalf("duplicate produced %d trades", len(*trades))
	}
	o := b.orders[1]
	if o.Price != 100 || o.Qty != 10 || o.Side != Bid {
		t.Fatalf("original order mutated: %+v", o)
	}
	if _, _, ok := b.BestAsk(); ok {
		t.Fatal("duplicate leaked onto the ask side")
	}
}

func TestCancelIdempotence(t *testing.T) {
	b, _ := newTestBook(16)

	mustSubmit(t, b, 1, 100, 10, Bid)
	if err := b.Cancel(1); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := b.Cancel(1); err != ErrUnknownOrder {
		t.Fatalf("second cancel: want ErrUnknownOrder, got %v", err)
	}
	verifyBook(t, b)
	if b.Resting() != 0 || b.pool.Free() != b.pool.Cap() {
		t.Fatal("state changed by the second cancel")
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	b, _ := newTestBook(16)
	if err := b.Cancel(42); err != ErrUnknownOrder {
		t.Fatalf("want ErrUnknownOrder, got %v", err)
	}
}

func TestPoolExhaustionAndRecovery(t *testing.T) {
	b, _ := newTestBook(2)

	mustSubmit(t, b, 1, 100, 10, Bid)
	mustSubmit(t, b, 2, 101, 10, Bid)

	if err := b.Submit(3, 102, 10, Bid); err != ErrPoolExhausted {
		t.Fatalf("want ErrPoolExhausted, got %v", err)
	}
	verifyBook(t, b)
	if b.Has(3) {
		t.Fatal("rejected order must leave no state")
	}

	if err := b.Cancel(1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	mustSubmit(t, b, 3, 102, 10, Bid)
	if !b.Has(3) {
		t.Fatal("submit after cancel should reuse the freed slot")
	}
}

func TestCancelHeadPromotesNext(t *testing.T) {
	b, _ := newTestBook(16)

	mustSubmit(t, b, 1, 100, 10, Bid)
	mustSubmit(t, b, 2, 100, 20, Bid)
	if err := b.Cancel(1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	verifyBook(t, b)

	lvl := b.bids.find(100)
	if lvl == nil || lvl.Head() == nil || lvl.Head().ID != 2 {
		t.Fatal("expected order 2 promoted to head")
	}
	if lvl.Volume != 20 {
		t.Fatalf("expected volume 20, got %d", lvl.Volume)
	}
}

func TestCancelSoleOrderRemovesLevel(t *testing.T) {
	b, _ := newTestBook(16)

	mustSubmit(t, b, 1, 100, 10, Bid)
	if err := b.Cancel(1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	verifyBook(t, b)
	if b.bids.len() != 0 {
		t.Fatal("expected the emptied level to be removed")
	}
}

func TestNoCrossOnOpenSpread(t *testing.T) {
	b, trades := newTestBook(16)

	mustSubmit(t, b, 1, 99, 10, Bid)
	mustSubmit(t, b, 2, 101, 10, Ask)

	if len(*trades) != 0 {
		t.Fatalf("open spread traded: %d", len(*trades))
	}
	bid, _, _ := b.BestBid()
	ask, _, _ := b.BestAsk()
	if bid != 99 || ask != 101 {
		t.Fatalf("expected 99/101, got %d/%d", bid, ask)
	}
}

func TestZeroQuantityIsIgnored(t *testing.T) {
	b, trades := newTestBook(16)
	if err := b.Submit(1, 100, 0, Bid); err != nil {
		t.Fatalf("zero quantity should be a no-op, got %v", err)
	}
	verifyBook(t, b)
	if b.Has(1) || len(*trades) != 0 {
		t.Fatal("zero-quantity submit mutated the book")
	}
}

func TestSnapshotOrdering(t *testing.T) {
	b, _ := newTestBook(16)

	mustSubmit(t, b, 1, 99, 10, Bid)
	mustSubmit(t, b, 2, 98, 20, Bid)
	mustSubmit(t, b, 3, 101, 30, Ask)
	mustSubmit(t, b, 4, 102, 40, Ask)

	depth := b.Depth()
	want := []LevelInfo{
		{Bid, 99, 10},
		{Bid, 98, 20},
		{Ask, 101, 30},
		{Ask, 102, 40},
	}
	if len(depth) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(depth))
	}
	for i, row := range want {
		if depth[i] != row {
			t.Fatalf("row %d: expected %+v, got %+v", i, row, depth[i])
		}
	}
}

func TestAggregateVolumeAcrossPartialFills(t *testing.T) {
	b, _ := newTestBook(16)

	mustSubmit(t, b, 1, 100, 100, Bid)
	mustSubmit(t, b, 2, 100, 50, Bid)
	mustSubmit(t, b, 3, 100, 120, Ask)

	// 120 fills order 1 fully and 20 of order 2.
	price, vol, ok := b.BestBid()
	if !ok || price != 100 || vol != 30 {
		t.Fatalf("expected bid 100x30, got %d x %d ok=%v", price, vol, ok)
	}
	if got := b.orders[2].Qty; got != 30 {
		t.Fatalf("expected order 2 remaining 30, got %d", got)
	}
	if b.Has(3) {
		t.Fatal("order 3 should be fully filled")
	}
}

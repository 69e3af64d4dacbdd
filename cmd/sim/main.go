// The sim command is the ingress simulator: one producer goroutine
// plays the network thread pushing a fixed request stream into the SPSC
// ring as fast as it can, one consumer goroutine plays the engine
// thread draining it into the book. Both sides busy-spin; neither ever
// takes a lock. The final book state is deterministic for a given
// stream.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"nanobook/domain/orderbook"
	"nanobook/infra/memory"
)

func main() {
	var (
		total   = flag.Int("n", 500_000, "requests to push")
		ringCap = flag.Int("ring", 1024, "ring capacity")
		poolCap = flag.Int("pool", 1<<20, "order pool capacity")
	)
	flag.Parse()

	ring := memory.NewRing[orderbook.Request](*ringCap)

	var trades, traded uint64
	book := orderbook.New(orderbook.Config{
		Capacity: *poolCap,
		OnTrade: func(t orderbook.Trade) {
			trades++
			traded += t.Qty
		},
	})

	start := time.Now()
	done := make(chan struct{})

	// Network thread: generate orders across ten price levels,
	// alternating sides, and spin when the ring is full.
	go func() {
		runtime.LockOSThread()
		for i := 0; i < *total; i++ {
			side := orderbook.Bid
			if i%2 == 1 {
				side = orderbook.Ask
			}
			req := orderbook.Request{
				ID:    uint64(i),
				Price: 100 + uint64(i%10),
				Qty:   10,
				Side:  side,
			}
			for !ring.Push(req) {
			}
		}
	}()

	// Engine thread: drain until every request has been applied.
	go func() {
		runtime.LockOSThread()
		var req orderbook.Request
		processed := 0
		for processed < *total {
			if !ring.Pop(&req) {
				continue
			}
			if req.Cancel {
				_ = book.Cancel(req.ID)
			} else {
				if err := book.Submit(req.ID, req.Price, req.Qty, req.Side); err != nil {
					log.Fatalf("submit %d: %v", req.ID, err)
				}
			}
			processed++
		}
		close(done)
	}()

	<-done
	elapsed := time.Since(start)

	fmt.Printf("processed %d requests in %v (%.0f req/s)\n",
		*total, elapsed, float64(*total)/elapsed.Seconds())
	fmt.Printf("trades: %d, quantity traded: %d, resting: %d\n",
		trades, traded, book.Resting())

	if price, vol, ok := book.BestBid(); ok {
		fmt.Printf("best bid: %d x %d\n", price, vol)
	}
	if price, vol, ok := book.BestAsk(); ok {
		fmt.Printf("best ask: %d x %d\n", price, vol)
	}
}

package service

import (
	"runtime"
	"sync"

	"nanobook/domain/orderbook"
	"nanobook/infra/memory"
)

// pushRetries bounds how long a boundary handler camps on a full ring
// before reporting back-pressure to its caller.
const pushRetries = 128

// Ingress funnels concurrent boundary handlers into the SPSC ring. The
// ring's producer contract allows exactly one pusher, so every Offer
// serializes on one mutex; the engine side stays lock-free.
type Ingress struct {
	mu   sync.Mutex
	ring *memory.Ring[orderbook.Request]
}

// Offer pushes a request, yielding briefly when the ring is full. False
// means sustained back-pressure; the caller decides how to report it.
func (in *Ingress) Offer(req orderbook.Request) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := 0; i < pushRetries; i++ {
		if in.ring.Push(req) {
			return true
		}
		runtime.Gosched()
	}
	return false
}

// Submit enqueues a new-order request.
func (in *Ingress) Submit(id, price, qty uint64, side orderbook.Side) bool {
	return in.Offer(orderbook.Request{ID: id, Price: price, Qty: qty, Side: side})
}

// Cancel enqueues a cancellation.
func (in *Ingress) Cancel(id uint64) bool {
	return in.Offer(orderbook.Request{ID: id, Cancel: true})
}

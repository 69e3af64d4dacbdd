package orderbook

// PriceLevel is the FIFO queue of all resting orders at one price.
// Volume caches the sum of remaining quantities of the linked chain.
// The cross loop keeps the cache in step as it fills (see match), so
// Volume is accurate whenever the book is between operations.
type PriceLevel struct {
	Price  uint64
	Volume uint64

	head *Order
	tail *Order
}

// Enqueue links o at the tail. Time priority is arrival order: the head
// is always the earliest unfilled order at this price.
func (l *PriceLevel) Enqueue(o *Order) {
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.Volume += o.Qty
}

// Unlink removes o from the chain and clears its siblings. The order's
// current remaining quantity is taken out of the cached volume, which is
// exact because fills are mirrored into Volume as they happen.
// o must be linked in this level.
func (l *PriceLevel) Unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.Volume -= o.Qty
}

// Head returns the earliest unfilled order, nil when the level is empty.
func (l *PriceLevel) Head() *Order { return l.head }

// Empty reports whether no orders remain at this price.
func (l *PriceLevel) Empty() bool { return l.head == nil }

// reset clears the level for reuse through the level pool.
func (l *PriceLevel) reset() {
	*l = PriceLevel{}
}

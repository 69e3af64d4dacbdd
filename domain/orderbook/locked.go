package orderbook

import "sync"

// Locked is the coarse-locked deployment mode: a mutex wrapped around a
// whole Book for callers with multiple producers and no SPSC funnel.
// Every operation serializes on one lock, forfeiting the single-writer
// latency profile but keeping the same semantics.
type Locked struct {
	mu   sync.Mutex
	book *Book
}

// NewLocked builds a coarse-locked book.
func NewLocked(cfg Config) *Locked {
	return &Locked{book: New(cfg)}
}

func (l *Locked) Submit(id, price, qty uint64, side Side) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.book.Submit(id, price, qty, side)
}

func (l *Locked) Cancel(id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.book.Cancel(id)
}

func (l *Locked) Depth() []LevelInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.book.Depth()
}

func (l *Locked) Resting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.book.Resting()
}

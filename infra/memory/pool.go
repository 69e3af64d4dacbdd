package memory

import "sync"

// Pool is a typed wrapper over sync.Pool for auxiliary objects whose
// population is unbounded but churn-heavy, such as price levels. Order
// records do not live here; they come from the fixed Slab.
type Pool[T any] struct {
	p *sync.Pool
}

// NewPool creates a pool backed by ctor for cache misses.
func NewPool[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *Pool[T]) Put(v *T) {
	p.p.Put(v)
}

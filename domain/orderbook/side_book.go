package orderbook

import (
	"github.com/google/btree"

	"nanobook/infra/memory"
)

const treeDegree = 16

// sideTree holds one side's price levels ordered by priority. The
// comparator is chosen per side so Min always yields the best level:
// highest price for bids, lowest for asks. Ascend therefore walks
// levels best to worst on either side.
//
// A reusable probe level keeps point lookups allocation-free, and tree
// nodes come from a shared free list so level churn does not feed the GC.
type sideTree struct {
	side   Side
	tree   *btree.BTreeG[*PriceLevel]
	levels *memory.Pool[PriceLevel]
	probe  *PriceLevel
}

func newSideTree(side Side, levels *memory.Pool[PriceLevel], fl *btree.FreeListG[*PriceLevel]) *sideTree {
	less := func(a, b *PriceLevel) bool { return a.Price < b.Price }
	if side == Bid {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	}
	return &sideTree{
		side:   side,
		tree:   btree.NewWithFreeListG(treeDegree, less, fl),
		levels: levels,
		probe:  &PriceLevel{},
	}
}

// find returns the level at price, nil if absent.
func (t *sideTree) find(price uint64) *PriceLevel {
	t.probe.Price = price
	if lvl, ok := t.tree.Get(t.probe); ok {
		return lvl
	}
	return nil
}

// upsert returns the level at price, creating it on first use.
func (t *sideTree) upsert(price uint64) *PriceLevel {
	if lvl := t.find(price); lvl != nil {
		return lvl
	}
	lvl := t.levels.Get()
	lvl.reset()
	lvl.Price = price
	t.tree.ReplaceOrInsert(lvl)
	return lvl
}

// drop removes an emptied level and recycles it. The level must be empty.
func (t *sideTree) drop(lvl *PriceLevel) {
	if _, ok := t.tree.Delete(lvl); !ok {
		panic("orderbook: dropping a level not present in its side tree")
	}
	lvl.reset()
	t.levels.Put(lvl)
}

// best returns the top-priority level, nil when the side is empty.
func (t *sideTree) best() *PriceLevel {
	if lvl, ok := t.tree.Min(); ok {
		return lvl
	}
	return nil
}

// walk visits levels best to worst until fn returns false.
func (t *sideTree) walk(fn func(*PriceLevel) bool) {
	t.tree.Ascend(fn)
}

func (t *sideTree) len() int { return t.tree.Len() }

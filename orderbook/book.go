// Package orderbook provides Book, a block-structured container for resting
// orders with tombstone-on-removal semantics.
//
// Orders live in fixed-capacity 64-slot blocks linked into a doubly linked
// list. Removal tombstones the slot instead of shifting data, so iterators
// skip dead slots; the window bounds of each block are trimmed inward as
// edge tombstones appear. Every order is tracked by a mandatory id index for
// O(1) average lookup and removal, and per-block volume aggregates are
// mirrored into a Fenwick tree so cumulative-volume positional queries
// resolve in O(log B) block steps.
package orderbook

import (
	"iter"

	"github.com/zhych125/bookblock/errs"
	"github.com/zhych125/bookblock/internal/fenwick"
	"github.com/zhych125/bookblock/order"
)

// blockCapacity is the fixed slot count per block: 64 orders keep a block at
// roughly 2KB.
const blockCapacity = 64

// slot stores one order plus its liveness flag. A slot turns into a
// tombstone on removal and its storage is only reused when the owning block
// is recentered.
type slot struct {
	val  order.Order
	live bool
}

// block is one node of the book. Live slots are confined to the window
// [begin, end); slots outside the window are empty, slots inside may be
// tombstoned. The window edges always reference live slots (or begin == end
// for an empty block). orderIndex is the block's position in the Fenwick
// numbering, reassigned on every topology change.
type block struct {
	prev, next *block
	begin, end int
	liveCount  int
	orderIndex int
	liveVolume int64
	slots      [blockCapacity]slot
}

func (b *block) hasFrontSpace() bool { return b.begin > 0 }
func (b *block) hasBackSpace() bool  { return b.end < blockCapacity }

type location struct {
	blk *block
	idx int
}

// Book is the order-book sequence container. The zero value is not usable;
// create instances with New.
//
// Book is not safe for concurrent use; every operation assumes exclusive
// access.
type Book struct {
	head, tail  *block
	size        int
	totalVolume int64
	index       map[uint64]location
	blockOrder  []*block
	blockTree   fenwick.Tree
}

// New creates an empty Book.
func New() *Book {
	return &Book{index: make(map[uint64]location)}
}

// Len returns the number of live orders.
func (bk *Book) Len() int { return bk.size }

// Empty reports whether the book holds no live orders.
func (bk *Book) Empty() bool { return bk.size == 0 }

// TotalVolume returns the sum of Volume over all live orders.
func (bk *Book) TotalVolume() int64 { return bk.totalVolume }

// Clear discards all orders, blocks and index state.
func (bk *Book) Clear() {
	bk.head, bk.tail = nil, nil
	bk.size = 0
	bk.totalVolume = 0
	bk.index = make(map[uint64]location)
	bk.blockOrder = bk.blockOrder[:0]
	bk.blockTree.Init(0)
}

// Front returns the first live order, or errs.ErrEmpty.
func (bk *Book) Front() (order.Order, error) {
	if bk.size == 0 {
		return order.Order{}, errs.ErrEmpty
	}
	blk, idx := bk.findNext(bk.head, bk.head.begin)

	return blk.slots[idx].val, nil
}

// Back returns the last live order, or errs.ErrEmpty.
func (bk *Book) Back() (order.Order, error) {
	if bk.size == 0 {
		return order.Order{}, errs.ErrEmpty
	}
	blk, idx := bk.findPrev(bk.tail, bk.tail.end)

	return blk.slots[idx].val, nil
}

// PushBack appends an order at the back. The caller must keep ids unique;
// pushing an id that is already present corrupts the identity index.
func (bk *Book) PushBack(o order.Order) {
	blk := bk.ensureBackBlock()
	idx := blk.end
	blk.end++
	bk.constructSlot(blk, idx, o)
}

// PushFront prepends an order at the front.
func (bk *Book) PushFront(o order.Order) {
	blk := bk.ensureFrontBlock()
	blk.begin--
	bk.constructSlot(blk, blk.begin, o)
}

// PopFront removes the first live order, returning errs.ErrEmpty when there
// is none.
func (bk *Book) PopFront() error {
	if bk.size == 0 {
		return errs.ErrEmpty
	}
	blk, idx := bk.findNext(bk.head, bk.head.begin)
	bk.removeSlot(blk, idx)

	return nil
}

// PopBack removes the last live order, returning errs.ErrEmpty when there is
// none.
func (bk *Book) PopBack() error {
	if bk.size == 0 {
		return errs.ErrEmpty
	}
	blk, idx := bk.findPrev(bk.tail, bk.tail.end)
	bk.removeSlot(blk, idx)

	return nil
}

// Find returns an iterator at the order with the given id, or the end
// iterator. O(1) average through the identity index.
func (bk *Book) Find(id uint64) Iterator {
	loc, ok := bk.index[id]
	if !ok {
		return bk.End()
	}

	return Iterator{book: bk, blk: loc.blk, idx: loc.idx}
}

// Erase removes the order the iterator references and returns an iterator at
// the next live order (or end). Erasing the end iterator returns end.
func (bk *Book) Erase(it Iterator) Iterator {
	if it.blk == nil {
		return bk.End()
	}
	next := it.Next()
	bk.removeSlot(it.blk, it.idx)

	return next
}

// EraseByID removes the order with the given id. It returns false, and
// changes nothing, when the id is absent.
func (bk *Book) EraseByID(id uint64) bool {
	loc, ok := bk.index[id]
	if !ok {
		return false
	}
	bk.removeSlot(loc.blk, loc.idx)

	return true
}

// UpdateVolume changes an existing order's volume in place, propagating the
// delta into the block aggregate and the Fenwick tree exactly as a
// remove+insert would, without moving the slot or touching the identity
// index. It returns false when the id is absent.
func (bk *Book) UpdateVolume(id uint64, newVolume int32) bool {
	loc, ok := bk.index[id]
	if !ok {
		return false
	}
	s := &loc.blk.slots[loc.idx]
	if !s.live {
		return false
	}
	oldVolume := s.val.Volume
	if oldVolume == newVolume {
		return true
	}
	s.val.Volume = newVolume
	bk.adjustBlockVolume(loc.blk, int64(newVolume)-int64(oldVolume))

	return true
}

// All returns a forward range-over-func iterator over all live orders.
func (bk *Book) All() iter.Seq[order.Order] {
	return func(yield func(order.Order) bool) {
		for it := bk.First(); it.Valid(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Clone returns a deep copy built by re-inserting every live order in
// traversal order, rebuilding both indexes from scratch. Tombstones are not
// carried over.
func (bk *Book) Clone() *Book {
	dst := New()
	for o := range bk.All() {
		dst.PushBack(o)
	}

	return dst
}

// Move transfers the block list and indexes into a fresh Book in O(1) and
// leaves the receiver empty and reusable.
func (bk *Book) Move() *Book {
	dst := &Book{
		head:        bk.head,
		tail:        bk.tail,
		size:        bk.size,
		totalVolume: bk.totalVolume,
		index:       bk.index,
		blockOrder:  bk.blockOrder,
		blockTree:   bk.blockTree,
	}
	bk.head, bk.tail = nil, nil
	bk.size = 0
	bk.totalVolume = 0
	bk.index = make(map[uint64]location)
	bk.blockOrder = nil
	bk.blockTree = fenwick.Tree{}

	return dst
}

func newBlock(origin int) *block {
	b := &block{}
	b.begin, b.end = origin, origin

	return b
}

func (bk *Book) ensureBackBlock() *block {
	if bk.tail == nil {
		b := newBlock(blockCapacity / 2)
		bk.head, bk.tail = b, b
		bk.rebuildBlockIndex()
	}
	if !bk.tail.hasBackSpace() {
		b := newBlock(0)
		b.prev = bk.tail
		bk.tail.next = b
		bk.tail = b
		bk.rebuildBlockIndex()
	}

	return bk.tail
}

func (bk *Book) ensureFrontBlock() *block {
	if bk.head == nil {
		b := newBlock(blockCapacity / 2)
		bk.head, bk.tail = b, b
		bk.rebuildBlockIndex()
	}
	if !bk.head.hasFrontSpace() {
		b := newBlock(blockCapacity)
		b.next = bk.head
		bk.head.prev = b
		bk.head = b
		bk.rebuildBlockIndex()
	}

	return bk.head
}

func (bk *Book) unlink(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if bk.head == b {
		bk.head = b.next
	}
	if bk.tail == b {
		bk.tail = b.prev
	}
	bk.rebuildBlockIndex()
}

func (bk *Book) constructSlot(blk *block, idx int, o order.Order) {
	s := &blk.slots[idx]
	s.val = o
	s.live = true
	blk.liveCount++
	bk.size++
	bk.index[o.ID] = location{blk: blk, idx: idx}
	bk.adjustBlockVolume(blk, int64(o.Volume))
}

func (bk *Book) removeSlot(blk *block, idx int) {
	s := &blk.slots[idx]
	if !s.live {
		return
	}
	delete(bk.index, s.val.ID)
	bk.adjustBlockVolume(blk, -int64(s.val.Volume))
	s.val = order.Order{}
	s.live = false
	blk.liveCount--
	bk.size--
	bk.trimBlock(blk)
}

// trimBlock pulls the window bounds inward past edge tombstones, then
// retires the block once it holds no live slots. The sole remaining block is
// recentered instead of unlinked, so the next push in either direction has
// headroom.
func (bk *Book) trimBlock(blk *block) {
	for blk.begin < blk.end && !blk.slots[blk.begin].live {
		blk.begin++
	}
	for blk.end > blk.begin && !blk.slots[blk.end-1].live {
		blk.end--
	}
	if blk.liveCount == 0 {
		if blk == bk.head && blk == bk.tail {
			blk.begin, blk.end = blockCapacity/2, blockCapacity/2
		} else {
			bk.unlink(blk)
		}
	}
}

// findNext locates the first live slot at or after start within blk's
// window, crossing into following blocks as needed.
func (bk *Book) findNext(blk *block, start int) (*block, int) {
	for blk != nil {
		idx := start
		if idx < blk.begin {
			idx = blk.begin
		}
		for ; idx < blk.end; idx++ {
			if blk.slots[idx].live {
				return blk, idx
			}
		}
		blk = blk.next
		if blk != nil {
			start = blk.begin
		}
	}

	return nil, 0
}

// findPrev locates the first live slot strictly before start within blk's
// window, crossing into preceding blocks as needed.
func (bk *Book) findPrev(blk *block, start int) (*block, int) {
	for blk != nil {
		idx := start
		if idx > blk.end {
			idx = blk.end
		}
		for idx > blk.begin {
			idx--
			if blk.slots[idx].live {
				return blk, idx
			}
		}
		blk = blk.prev
		if blk != nil {
			start = blk.end
		}
	}

	return nil, 0
}

// adjustBlockVolume applies a volume delta to the block aggregate, the book
// total and the Fenwick tree.
func (bk *Book) adjustBlockVolume(blk *block, delta int64) {
	blk.liveVolume += delta
	bk.totalVolume += delta
	if len(bk.blockOrder) > 0 {
		bk.blockTree.Update(blk.orderIndex, delta)
	}
}

// rebuildBlockIndex renumbers every block and rebuilds the Fenwick tree from
// the per-block aggregates. Runs on every block-topology change; O(B).
func (bk *Book) rebuildBlockIndex() {
	bk.blockOrder = bk.blockOrder[:0]
	for blk := bk.head; blk != nil; blk = blk.next {
		blk.orderIndex = len(bk.blockOrder)
		bk.blockOrder = append(bk.blockOrder, blk)
	}
	bk.blockTree.Init(len(bk.blockOrder))
	bk.totalVolume = 0
	for _, blk := range bk.blockOrder {
		bk.totalVolume += blk.liveVolume
		bk.blockTree.Update(blk.orderIndex, blk.liveVolume)
	}
}

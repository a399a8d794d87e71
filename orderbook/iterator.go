package orderbook

import "github.com/zhych125/bookblock/order"

// Iterator is a bidirectional cursor over a Book's live orders. The zero
// value and any iterator with a nil block are the end sentinel. Two
// iterators are equal (==) when they reference the same block and slot.
//
// Iterators are invalidated by any mutation of the book other than the
// Erase call they are passed to, which returns the follow-up cursor.
type Iterator struct {
	book *Book
	blk  *block
	idx  int
}

// First returns an iterator at the first live order, or end when the book is
// empty.
func (bk *Book) First() Iterator {
	start := 0
	if bk.head != nil {
		start = bk.head.begin
	}
	blk, idx := bk.findNext(bk.head, start)

	return Iterator{book: bk, blk: blk, idx: idx}
}

// End returns the past-the-end iterator.
func (bk *Book) End() Iterator { return Iterator{book: bk} }

// Valid reports whether the iterator references a live order.
func (it Iterator) Valid() bool { return it.blk != nil }

// Value returns the referenced order. It must only be called on a valid
// iterator.
func (it Iterator) Value() order.Order { return it.blk.slots[it.idx].val }

// Next returns the iterator advanced to the following live order, skipping
// tombstones within the window before crossing blocks. Advancing end stays
// at end.
func (it Iterator) Next() Iterator {
	if it.blk == nil {
		return it
	}
	it.blk, it.idx = it.book.findNext(it.blk, it.idx+1)

	return it
}

// Prev returns the iterator moved back to the preceding live order. Stepping
// back from end yields the last live order; stepping back from the first
// yields end.
func (it Iterator) Prev() Iterator {
	if it.book == nil {
		return it
	}
	if it.blk == nil {
		tail := it.book.tail
		if tail == nil {
			return it
		}
		it.blk, it.idx = it.book.findPrev(tail, tail.end)

		return it
	}
	it.blk, it.idx = it.book.findPrev(it.blk, it.idx)

	return it
}

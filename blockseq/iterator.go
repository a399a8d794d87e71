package blockseq

// Iterator is a bidirectional cursor over a Seq. The zero value and any
// iterator whose position has a nil block are the end sentinel. Two
// iterators are equal (==) when they reference the same block and slot.
//
// Iterators are invalidated by any mutation of the sequence other than the
// Erase call they are passed to, which returns the follow-up cursor.
type Iterator[T any] struct {
	seq   *Seq[T]
	block *block[T]
	index int
}

// Valid reports whether the iterator references an element.
func (it Iterator[T]) Valid() bool { return it.block != nil }

// Value returns the referenced element. It must only be called on a valid
// iterator.
func (it Iterator[T]) Value() T { return it.block.slots[it.index] }

// Next returns the iterator advanced by one element, crossing into the next
// block when the current window is exhausted. Advancing the end iterator
// stays at end.
func (it Iterator[T]) Next() Iterator[T] {
	if it.block == nil {
		return it
	}
	it.index++
	if it.index < it.block.end {
		return it
	}
	it.block = it.block.next
	if it.block != nil {
		it.index = it.block.begin
	} else {
		it.index = 0
	}

	return it
}

// Prev returns the iterator moved back one element. Stepping back from the
// end iterator yields the last element; stepping back from the first element
// yields end.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.seq == nil {
		return it
	}
	if it.block == nil {
		if it.seq.size == 0 {
			return it
		}
		it.block = it.seq.tail
		it.index = it.block.end - 1

		return it
	}
	if it.index > it.block.begin {
		it.index--

		return it
	}
	it.block = it.block.prev
	if it.block != nil {
		it.index = it.block.end - 1
	} else {
		it.index = 0
	}

	return it
}

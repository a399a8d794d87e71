// Package ringdeque provides a generic double-ended queue backed by a
// power-of-two ring buffer with random access by logical index.
//
// It has no identity or volume indexing; the bookblock benchmarks use it as
// the general-purpose baseline the block-structured containers are measured
// against.
package ringdeque

import "github.com/zhych125/bookblock/errs"

// Deque is a growable ring-buffer double-ended queue. The zero value is an
// empty deque ready for use.
//
// Deque is not safe for concurrent use.
type Deque[T any] struct {
	data []T
	head int
	size int
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int { return d.size }

// Cap returns the current buffer capacity.
func (d *Deque[T]) Cap() int { return len(d.data) }

// Empty reports whether the deque holds no elements.
func (d *Deque[T]) Empty() bool { return d.size == 0 }

// Clear removes all elements, keeping the buffer for reuse.
func (d *Deque[T]) Clear() {
	var zero T
	for i := range d.size {
		d.data[d.physicalIndex(i)] = zero
	}
	d.head = 0
	d.size = 0
}

// Reserve grows the buffer to hold at least n elements without further
// allocation.
func (d *Deque[T]) Reserve(n int) {
	if n > len(d.data) {
		d.growTo(nextPowerOfTwo(n))
	}
}

// At returns the element at logical index i, counted from the front. The
// index must be in [0, Len()).
func (d *Deque[T]) At(i int) T { return d.data[d.physicalIndex(i)] }

// Set replaces the element at logical index i.
func (d *Deque[T]) Set(i int, v T) { d.data[d.physicalIndex(i)] = v }

// Front returns the first element, or errs.ErrEmpty.
func (d *Deque[T]) Front() (T, error) {
	if d.size == 0 {
		var zero T
		return zero, errs.ErrEmpty
	}

	return d.At(0), nil
}

// Back returns the last element, or errs.ErrEmpty.
func (d *Deque[T]) Back() (T, error) {
	if d.size == 0 {
		var zero T
		return zero, errs.ErrEmpty
	}

	return d.At(d.size - 1), nil
}

// PushBack appends v at the back.
func (d *Deque[T]) PushBack(v T) {
	d.ensureCapacity(d.size + 1)
	d.data[d.physicalIndex(d.size)] = v
	d.size++
}

// PushFront prepends v at the front.
func (d *Deque[T]) PushFront(v T) {
	d.ensureCapacity(d.size + 1)
	d.head = (d.head - 1) & (len(d.data) - 1)
	d.data[d.head] = v
	d.size++
}

// PopBack removes the last element, returning errs.ErrEmpty when there is
// none.
func (d *Deque[T]) PopBack() error {
	if d.size == 0 {
		return errs.ErrEmpty
	}
	var zero T
	d.data[d.physicalIndex(d.size-1)] = zero
	d.size--

	return nil
}

// PopFront removes the first element, returning errs.ErrEmpty when there is
// none.
func (d *Deque[T]) PopFront() error {
	if d.size == 0 {
		return errs.ErrEmpty
	}
	var zero T
	d.data[d.head] = zero
	d.head = (d.head + 1) & (len(d.data) - 1)
	d.size--

	return nil
}

// EraseAt removes the element at logical index i, shifting whichever side of
// the deque is shorter. The index must be in [0, Len()).
func (d *Deque[T]) EraseAt(i int) {
	if i < d.size/2 {
		for ; i > 0; i-- {
			d.Set(i, d.At(i-1))
		}
		_ = d.PopFront()

		return
	}
	for ; i+1 < d.size; i++ {
		d.Set(i, d.At(i+1))
	}
	_ = d.PopBack()
}

func (d *Deque[T]) physicalIndex(i int) int {
	return (d.head + i) & (len(d.data) - 1)
}

func (d *Deque[T]) ensureCapacity(n int) {
	if n > len(d.data) {
		d.growTo(nextPowerOfTwo(n))
	}
}

// growTo relocates the elements into a fresh buffer laid out from index 0,
// resetting head.
func (d *Deque[T]) growTo(capacity int) {
	data := make([]T, capacity)
	for i := range d.size {
		data[i] = d.At(i)
	}
	d.data = data
	d.head = 0
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	for shift := 1; shift < 64; shift <<= 1 {
		n |= n >> shift
	}

	return n + 1
}

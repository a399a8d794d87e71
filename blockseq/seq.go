// Package blockseq provides a generic double-ended sequence stored in
// fixed-capacity linked blocks, with O(1) amortized push/pop at both ends,
// O(1) average removal by key through an adaptively activated identity
// index, and range queries by cumulative volume.
//
// Elements are located by a caller-supplied uint64 key and aggregated over a
// caller-supplied signed volume. The sequence itself imposes no ordering;
// callers that need key-sorted iteration must push increasing keys at the
// back and/or decreasing keys at the front.
package blockseq

import (
	"fmt"
	"iter"
	"math"

	"github.com/zhych125/bookblock/errs"
	"github.com/zhych125/bookblock/internal/options"
)

// Seq is a block-structured double-ended sequence of T.
//
// Seq is not safe for concurrent use; every operation assumes exclusive
// access, matching standard-library container semantics.
type Seq[T any] struct {
	key    func(T) uint64
	volume func(T) int64

	head, tail *block[T]
	size       int
	blockCount int

	indexThreshold int
	indexActive    bool
	index          map[uint64]*block[T]
}

// New creates an empty Seq. key must return each element's unique immutable
// id and volume its signed aggregate field.
func New[T any](key func(T) uint64, volume func(T) int64, opts ...Option) (*Seq[T], error) {
	if key == nil || volume == nil {
		return nil, fmt.Errorf("blockseq: key and volume extractors must be non-nil")
	}
	cfg := &config{indexThreshold: defaultIndexThreshold}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Seq[T]{
		key:            key,
		volume:         volume,
		indexThreshold: cfg.indexThreshold,
	}, nil
}

// Len returns the number of elements.
func (s *Seq[T]) Len() int { return s.size }

// Empty reports whether the sequence holds no elements.
func (s *Seq[T]) Empty() bool { return s.size == 0 }

// Clear discards all elements, blocks and index state.
func (s *Seq[T]) Clear() {
	s.head, s.tail = nil, nil
	s.size = 0
	s.blockCount = 0
	s.deactivateIndex()
}

// TotalVolume returns the sum of the volume field over all elements. It
// walks the block list, so the cost is proportional to the block count, not
// the element count.
func (s *Seq[T]) TotalVolume() int64 {
	var total int64
	for b := s.head; b != nil; b = b.next {
		total += b.totalVolume
	}

	return total
}

// Front returns the first element, or errs.ErrEmpty.
func (s *Seq[T]) Front() (T, error) {
	if s.size == 0 {
		var zero T
		return zero, errs.ErrEmpty
	}

	return s.head.slots[s.head.begin], nil
}

// Back returns the last element, or errs.ErrEmpty.
func (s *Seq[T]) Back() (T, error) {
	if s.size == 0 {
		var zero T
		return zero, errs.ErrEmpty
	}

	return s.tail.slots[s.tail.end-1], nil
}

// PushBack appends v at the back.
func (s *Seq[T]) PushBack(v T) {
	b := s.ensureTailBlock()
	b.pushBack(v, s.volume(v))
	s.size++
	s.onInsert(b, v)
}

// PushFront prepends v at the front.
func (s *Seq[T]) PushFront(v T) {
	b := s.ensureHeadBlock()
	b.pushFront(v, s.volume(v))
	s.size++
	s.onInsert(b, v)
}

// PopBack removes the last element, returning errs.ErrEmpty when there is
// none.
func (s *Seq[T]) PopBack() error {
	if s.size == 0 {
		return errs.ErrEmpty
	}
	b := s.tail
	v := b.slots[b.end-1]
	b.popBack(s.volume(v))
	s.size--
	s.onRemove(s.key(v))
	if b.empty() {
		s.releaseBlock(b)
	}

	return nil
}

// PopFront removes the first element, returning errs.ErrEmpty when there is
// none.
func (s *Seq[T]) PopFront() error {
	if s.size == 0 {
		return errs.ErrEmpty
	}
	b := s.head
	v := b.slots[b.begin]
	b.popFront(s.volume(v))
	s.size--
	s.onRemove(s.key(v))
	if b.empty() {
		s.releaseBlock(b)
	}

	return nil
}

// First returns an iterator at the first element, or the end iterator when
// the sequence is empty.
func (s *Seq[T]) First() Iterator[T] {
	if s.size == 0 {
		return s.End()
	}

	return Iterator[T]{seq: s, block: s.head, index: s.head.begin}
}

// End returns the past-the-end iterator.
func (s *Seq[T]) End() Iterator[T] { return Iterator[T]{seq: s} }

// All returns a forward range-over-func iterator over all elements.
func (s *Seq[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for b := s.head; b != nil; b = b.next {
			for i := b.begin; i < b.end; i++ {
				if !yield(b.slots[i]) {
					return
				}
			}
		}
	}
}

// Find returns an iterator at the element with the given key, or the end
// iterator when no such element exists. O(1) average while the identity
// index is active, otherwise a bounded scan of the single block.
func (s *Seq[T]) Find(id uint64) Iterator[T] {
	b, idx, ok := s.locateByID(id)
	if !ok {
		return s.End()
	}

	return Iterator[T]{seq: s, block: b, index: idx}
}

// Erase removes the element the iterator references and returns an iterator
// at the next element (or end). Erasing an end iterator returns end.
func (s *Seq[T]) Erase(it Iterator[T]) Iterator[T] {
	if it.block == nil {
		return s.End()
	}

	return s.eraseAt(it.block, it.index)
}

// EraseByID removes the element with the given key. It returns false, and
// changes nothing, when the key is absent.
func (s *Seq[T]) EraseByID(id uint64) bool {
	b, idx, ok := s.locateByID(id)
	if !ok {
		return false
	}
	s.eraseAt(b, idx)

	return true
}

// FindByVolume returns an iterator at the first element whose running volume
// sum, accumulated from the front, reaches target. A target <= 0 yields the
// first element; a target beyond the total yields end.
//
// The search assumes the running prefix sum is non-decreasing. Negative
// volumes can violate that and make the result unreliable; constraining
// queries to effectively non-negative data is the caller's responsibility.
func (s *Seq[T]) FindByVolume(target int64) Iterator[T] {
	if s.size == 0 {
		return s.End()
	}
	if target <= 0 {
		return s.First()
	}
	var accumulated int64
	for b := s.head; b != nil; b = b.next {
		blockSum := b.totalVolume
		if blockSum > 0 && accumulated+blockSum >= target {
			running := accumulated
			for i := b.begin; i < b.end; i++ {
				running += s.volume(b.slots[i])
				if running >= target {
					return Iterator[T]{seq: s, block: b, index: i}
				}
			}
		}
		accumulated += blockSum
	}

	return s.End()
}

// VolumeRange returns the [start, end) iterator pair delimiting the
// contiguous run of elements whose running volume sum lies in
// [lower, upper]. lower is clamped to at least 1; an upper below lower is
// raised to lower; an upper of math.MaxInt64 means "no upper bound".
func (s *Seq[T]) VolumeRange(lower, upper int64) (Iterator[T], Iterator[T]) {
	if lower <= 0 {
		lower = 1
	}
	if upper < lower {
		upper = lower
	}
	endTarget := upper
	if upper != math.MaxInt64 {
		endTarget = upper + 1
	}

	return s.FindByVolume(lower), s.FindByVolume(endTarget)
}

// Clone returns a deep copy built by re-inserting every element in traversal
// order, rebuilding the identity index from scratch.
func (s *Seq[T]) Clone() *Seq[T] {
	dst := &Seq[T]{
		key:            s.key,
		volume:         s.volume,
		indexThreshold: s.indexThreshold,
	}
	for v := range s.All() {
		dst.PushBack(v)
	}

	return dst
}

// Move transfers the block list and index state into a fresh Seq in O(1) and
// leaves the receiver empty and reusable.
func (s *Seq[T]) Move() *Seq[T] {
	dst := &Seq[T]{
		key:            s.key,
		volume:         s.volume,
		head:           s.head,
		tail:           s.tail,
		size:           s.size,
		blockCount:     s.blockCount,
		indexThreshold: s.indexThreshold,
		indexActive:    s.indexActive,
		index:          s.index,
	}
	s.head, s.tail = nil, nil
	s.size = 0
	s.blockCount = 0
	s.indexActive = false
	s.index = nil

	return dst
}

func (s *Seq[T]) ensureTailBlock() *block[T] {
	if s.tail == nil {
		b := s.createBlock(blockCapacity / 2)
		s.head, s.tail = b, b

		return b
	}
	if !s.tail.hasBackSpace() {
		b := s.createBlock(0)
		b.prev = s.tail
		s.tail.next = b
		s.tail = b

		return b
	}

	return s.tail
}

func (s *Seq[T]) ensureHeadBlock() *block[T] {
	if s.head == nil {
		b := s.createBlock(blockCapacity / 2)
		s.head, s.tail = b, b

		return b
	}
	if !s.head.hasFrontSpace() {
		b := s.createBlock(blockCapacity)
		b.next = s.head
		s.head.prev = b
		s.head = b

		return b
	}

	return s.head
}

func (s *Seq[T]) createBlock(origin int) *block[T] {
	b := newBlock[T](origin)
	s.blockCount++
	s.activateIndexIfNeeded()

	return b
}

// releaseBlock retires an emptied block. The sole remaining block is
// recentered instead of unlinked so the next push in either direction has
// headroom without a fresh allocation.
func (s *Seq[T]) releaseBlock(b *block[T]) {
	if b == s.head && b == s.tail {
		b.recenter()

		return
	}
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		s.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		s.tail = b.prev
	}
	s.blockCount--
	if s.blockCount < s.indexThreshold {
		s.deactivateIndex()
	}
}

func (s *Seq[T]) eraseAt(b *block[T], idx int) Iterator[T] {
	v := b.slots[idx]
	b.eraseAt(idx, s.volume(v))
	s.size--
	s.onRemove(s.key(v))

	nextBlock, nextIndex := b, idx
	if b.empty() {
		nextBlock = b.next
		s.releaseBlock(b)
	} else if idx >= b.end {
		nextBlock = b.next
	}
	if nextBlock != nil && nextBlock != b {
		nextIndex = nextBlock.begin
	}
	if nextBlock == nil {
		nextIndex = 0
	}

	return Iterator[T]{seq: s, block: nextBlock, index: nextIndex}
}

func (s *Seq[T]) locateByID(id uint64) (*block[T], int, bool) {
	if s.indexActive {
		b, ok := s.index[id]
		if !ok {
			return nil, 0, false
		}

		return s.locateWithinBlock(b, id)
	}

	// Below the activation threshold the block count is a small constant, so
	// a full scan stays cheap.
	for b := s.head; b != nil; b = b.next {
		if blk, idx, ok := s.locateWithinBlock(b, id); ok {
			return blk, idx, ok
		}
	}

	return nil, 0, false
}

func (s *Seq[T]) locateWithinBlock(b *block[T], id uint64) (*block[T], int, bool) {
	if b == nil {
		return nil, 0, false
	}
	for i := b.begin; i < b.end; i++ {
		if s.key(b.slots[i]) == id {
			return b, i, true
		}
	}

	return nil, 0, false
}

func (s *Seq[T]) onInsert(b *block[T], v T) {
	if s.indexActive {
		s.index[s.key(v)] = b
	}
}

func (s *Seq[T]) onRemove(id uint64) {
	if s.indexActive {
		delete(s.index, id)
	}
}

func (s *Seq[T]) activateIndexIfNeeded() {
	if s.blockCount >= s.indexThreshold && !s.indexActive {
		s.rebuildIndex()
		s.indexActive = true
	}
}

func (s *Seq[T]) deactivateIndex() {
	s.indexActive = false
	s.index = nil
}

func (s *Seq[T]) rebuildIndex() {
	s.index = make(map[uint64]*block[T], s.size)
	for b := s.head; b != nil; b = b.next {
		for i := b.begin; i < b.end; i++ {
			s.index[s.key(b.slots[i])] = b
		}
	}
}

package blockseq

// blockCapacity is the fixed slot count per block. 64 elements keeps a block
// within a couple of cache lines for small records while bounding the
// in-block scans to a constant.
const blockCapacity = 64

// block is one fixed-capacity node of the sequence. Live elements occupy the
// contiguous window [begin, end); this variant has no tombstones, removals
// compact the window immediately. Growth at either end only moves the window
// bounds, never the stored elements, except for interior erase which shifts
// the tail of the window down by one.
type block[T any] struct {
	prev, next  *block[T]
	begin, end  int
	totalVolume int64
	slots       [blockCapacity]T
}

// newBlock creates a block whose empty window starts at origin. The first
// block of a sequence is centered so it can grow both ways; blocks appended
// at the head are aligned right (origin = blockCapacity) and blocks appended
// at the tail aligned left (origin = 0), so the push that triggered the
// allocation has room.
func newBlock[T any](origin int) *block[T] {
	b := &block[T]{}
	b.begin, b.end = origin, origin

	return b
}

func (b *block[T]) size() int           { return b.end - b.begin }
func (b *block[T]) empty() bool         { return b.begin == b.end }
func (b *block[T]) hasFrontSpace() bool { return b.begin > 0 }
func (b *block[T]) hasBackSpace() bool  { return b.end < blockCapacity }

func (b *block[T]) pushBack(v T, vol int64) {
	b.slots[b.end] = v
	b.end++
	b.totalVolume += vol
}

func (b *block[T]) pushFront(v T, vol int64) {
	b.begin--
	b.slots[b.begin] = v
	b.totalVolume += vol
}

// popBack releases the last window slot. The caller resolves the removed
// element's volume before calling.
func (b *block[T]) popBack(vol int64) {
	var zero T
	b.end--
	b.slots[b.end] = zero
	b.totalVolume -= vol
}

func (b *block[T]) popFront(vol int64) {
	var zero T
	b.slots[b.begin] = zero
	b.begin++
	b.totalVolume -= vol
}

// eraseAt removes the element at absolute slot i by shifting the window tail
// down one position. The vacated slot is zeroed so stale copies do not pin
// referenced memory.
func (b *block[T]) eraseAt(i int, vol int64) {
	var zero T
	copy(b.slots[i:b.end-1], b.slots[i+1:b.end])
	b.end--
	b.slots[b.end] = zero
	b.totalVolume -= vol
}

// recenter resets an emptied block so the next push in either direction has
// headroom. Only ever applied to the sole remaining block.
func (b *block[T]) recenter() {
	b.begin, b.end = blockCapacity/2, blockCapacity/2
}

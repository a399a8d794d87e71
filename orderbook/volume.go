package orderbook

import (
	"math"
	"slices"

	"github.com/zhych125/bookblock/order"
)

// FindByVolume returns an iterator at the first live order whose running
// volume sum, accumulated from the front, reaches target. A target <= 0
// yields the first order; a target beyond the total yields end.
//
// The Fenwick tree narrows the search to one block in O(log B); the exact
// slot is found by a bounded scan inside that block. The search assumes the
// running prefix sum is non-decreasing. Negative volumes can violate that
// and make the result unreliable; constraining queries to effectively
// non-negative data is the caller's responsibility.
func (bk *Book) FindByVolume(target int64) Iterator {
	blk, idx, ok := bk.findPositionByVolume(target)
	if !ok {
		return bk.End()
	}

	return Iterator{book: bk, blk: blk, idx: idx}
}

// VolumeRange returns the [start, end) iterator pair delimiting the
// contiguous run of live orders whose running volume sum lies in
// [lower, upper]. lower is clamped to at least 1; an upper below lower is
// raised to lower; an upper of math.MaxInt64 means "no upper bound".
func (bk *Book) VolumeRange(lower, upper int64) (Iterator, Iterator) {
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

	return bk.FindByVolume(lower), bk.FindByVolume(endTarget)
}

// AppendRange appends the raw slot contents of the [first, last) run to dst
// and returns the extended slice. Interior tombstoned slots are copied as
// they sit in storage (their zeroed order value); callers that need live
// orders only should iterate instead. The run may cross block boundaries.
func (bk *Book) AppendRange(dst []order.Order, first, last Iterator) []order.Order {
	if first.blk == nil {
		return dst
	}
	total := bk.countSlots(first, last)
	if total == 0 {
		return dst
	}
	dst = slices.Grow(dst, total)
	blk := first.blk
	idx := first.idx
	for blk != nil {
		endIdx := blk.end
		if blk == last.blk {
			endIdx = last.idx
		}
		for i := idx; i < endIdx; i++ {
			dst = append(dst, blk.slots[i].val)
		}
		if blk == last.blk {
			break
		}
		blk = blk.next
		if blk == nil {
			break
		}
		idx = blk.begin
	}

	return dst
}

// AppendVolumeRange appends the volume-bounded run [lower, upper] to dst and
// returns the extended slice. lower is clamped to at least 1 and upper to
// the total volume; a lower beyond the total or above upper selects nothing.
func (bk *Book) AppendVolumeRange(dst []order.Order, lower, upper int64) []order.Order {
	if len(bk.blockOrder) == 0 || lower > bk.totalVolume || lower > upper {
		return dst
	}
	if lower <= 0 {
		lower = 1
	}
	if upper > bk.totalVolume {
		upper = bk.totalVolume
	}
	firstBlk, firstIdx, ok := bk.findPositionByVolume(lower)
	if !ok {
		return dst
	}
	lastBlk, lastIdx, _ := bk.findPositionByVolume(upper + 1)

	first := Iterator{book: bk, blk: firstBlk, idx: firstIdx}
	last := Iterator{book: bk, blk: lastBlk, idx: lastIdx}

	return bk.AppendRange(dst, first, last)
}

// findPositionByVolume resolves the block and slot where the running volume
// sum first reaches target. ok is false when target exceeds the total.
func (bk *Book) findPositionByVolume(target int64) (*block, int, bool) {
	if len(bk.blockOrder) == 0 {
		return nil, 0, false
	}
	if target <= 0 {
		blk, idx := bk.findNext(bk.head, bk.head.begin)

		return blk, idx, blk != nil
	}
	if target > bk.totalVolume {
		return nil, 0, false
	}
	blockIdx := bk.blockTree.LowerBound(target)
	if blockIdx >= len(bk.blockOrder) {
		return nil, 0, false
	}
	blk := bk.blockOrder[blockIdx]
	var sumBefore int64
	if blockIdx > 0 {
		sumBefore = bk.blockTree.PrefixSum(blockIdx - 1)
	}
	remaining := target - sumBefore
	var running int64
	for i := blk.begin; i < blk.end; i++ {
		if !blk.slots[i].live {
			continue
		}
		running += int64(blk.slots[i].val.Volume)
		if running >= remaining {
			return blk, i, true
		}
	}
	// With negative volumes the block sum can reach the remainder without
	// any single prefix doing so; fall through to the next block's first
	// live slot, as the linear variant would.
	nextBlk, nextIdx := bk.findNext(blk.next, 0)

	return nextBlk, nextIdx, nextBlk != nil
}

// countSlots counts raw window slots in [first, last), including tombstones,
// crossing block boundaries.
func (bk *Book) countSlots(first, last Iterator) int {
	blk := first.blk
	if blk == nil {
		return 0
	}
	idx := first.idx
	total := 0
	for blk != nil {
		endIdx := blk.end
		if blk == last.blk {
			endIdx = last.idx
		}
		if endIdx > idx {
			total += endIdx - idx
		}
		if blk == last.blk {
			break
		}
		blk = blk.next
		if blk == nil {
			break
		}
		idx = blk.begin
	}

	return total
}

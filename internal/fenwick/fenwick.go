// Package fenwick implements a binary-indexed tree over int64 values.
//
// The orderbook container keeps one tree node per block, keyed by the block's
// sequential position, so that "first position where the prefix sum reaches a
// target" resolves in O(log n) instead of a linear block walk. Positions are
// 0-based; internally the tree is the classic 1-based layout.
package fenwick

// Tree is a binary-indexed tree of fixed size. The zero value is an empty
// tree; Init must be called before Update or queries for a non-zero size.
type Tree struct {
	nodes []int64
}

// Init resizes the tree to n positions and zeroes all values. It reuses the
// backing array when capacity allows, since the caller rebuilds the tree on
// every topology change.
func (t *Tree) Init(n int) {
	if cap(t.nodes) >= n+1 {
		t.nodes = t.nodes[:n+1]
		for i := range t.nodes {
			t.nodes[i] = 0
		}
		return
	}
	t.nodes = make([]int64, n+1)
}

// Size returns the number of positions the tree covers.
func (t *Tree) Size() int {
	if len(t.nodes) == 0 {
		return 0
	}

	return len(t.nodes) - 1
}

// Update adds delta to position i.
func (t *Tree) Update(i int, delta int64) {
	if len(t.nodes) == 0 {
		return
	}
	for i++; i < len(t.nodes); i += i & -i {
		t.nodes[i] += delta
	}
}

// PrefixSum returns the inclusive sum of positions [0, i].
func (t *Tree) PrefixSum(i int) int64 {
	if len(t.nodes) == 0 {
		return 0
	}
	var sum int64
	for i++; i > 0; i &= i - 1 {
		sum += t.nodes[i]
	}

	return sum
}

// Total returns the sum over all positions.
func (t *Tree) Total() int64 {
	if t.Size() == 0 {
		return 0
	}

	return t.PrefixSum(t.Size() - 1)
}

// LowerBound returns the 0-based index of the first position whose prefix
// sum reaches target. If target exceeds the total, the returned index equals
// Size(). Results are only meaningful while all prefix sums are
// non-decreasing, which holds when every stored value is non-negative.
func (t *Tree) LowerBound(target int64) int {
	idx := 0
	for bit := t.highestBit(); bit != 0; bit >>= 1 {
		next := idx + bit
		if next < len(t.nodes) && t.nodes[next] < target {
			idx = next
			target -= t.nodes[next]
		}
	}

	return idx
}

func (t *Tree) highestBit() int {
	bit := 1
	for bit < len(t.nodes) {
		bit <<= 1
	}

	return bit >> 1
}

package fenwick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(tb testing.TB, values []int64) *Tree {
	tb.Helper()

	t := &Tree{}
	t.Init(len(values))
	for i, v := range values {
		t.Update(i, v)
	}

	return t
}

func TestTree_ZeroValue(t *testing.T) {
	var tree Tree
	assert.Zero(t, tree.Size())
	assert.Zero(t, tree.Total())
	assert.Zero(t, tree.PrefixSum(0))
	assert.Zero(t, tree.LowerBound(1))

	// Updates against an uninitialized tree are ignored.
	tree.Update(0, 10)
	assert.Zero(t, tree.Total())
}

func TestTree_PrefixSums(t *testing.T) {
	values := []int64{5, 0, 7, 3, 12, 1}
	tree := buildTree(t, values)

	require.Equal(t, len(values), tree.Size())

	var sum int64
	for i, v := range values {
		sum += v
		assert.Equal(t, sum, tree.PrefixSum(i), "prefix sum through position %d", i)
	}
	assert.Equal(t, sum, tree.Total())
}

func TestTree_Update(t *testing.T) {
	tree := buildTree(t, []int64{10, 10, 10, 10})

	tree.Update(1, -4)
	tree.Update(3, 6)

	assert.Equal(t, int64(10), tree.PrefixSum(0))
	assert.Equal(t, int64(16), tree.PrefixSum(1))
	assert.Equal(t, int64(26), tree.PrefixSum(2))
	assert.Equal(t, int64(42), tree.Total())
}

func TestTree_LowerBound(t *testing.T) {
	// Prefix sums: 10, 30, 30, 70.
	tree := buildTree(t, []int64{10, 20, 0, 40})

	tests := []struct {
		name   string
		target int64
		want   int
	}{
		{"below first", 1, 0},
		{"exactly first", 10, 0},
		{"just past first", 11, 1},
		{"exactly second", 30, 1},
		{"skips zero block", 31, 3},
		{"exactly total", 70, 3},
		{"past total", 71, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.LowerBound(tt.target))
		})
	}
}

func TestTree_InitReuse(t *testing.T) {
	tree := buildTree(t, []int64{1, 2, 3, 4, 5, 6, 7, 8})
	require.Equal(t, int64(36), tree.Total())

	// Shrinking reuses the backing array and must clear stale values.
	tree.Init(3)
	assert.Equal(t, 3, tree.Size())
	assert.Zero(t, tree.Total())

	tree.Update(2, 9)
	assert.Equal(t, int64(9), tree.Total())
	assert.Equal(t, 2, tree.LowerBound(1))
}

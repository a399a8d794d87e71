package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhych125/bookblock/errs"
	"github.com/zhych125/bookblock/order"
)

func fillBook(tb testing.TB, n int, volume int32) *Book {
	tb.Helper()

	bk := New()
	for id := uint64(1); id <= uint64(n); id++ {
		bk.PushBack(order.Order{ID: id, Volume: volume})
	}

	return bk
}

func bookIDs(bk *Book) []uint64 {
	ids := make([]uint64, 0, bk.Len())
	for o := range bk.All() {
		ids = append(ids, o.ID)
	}

	return ids
}

func idRange(lo, hi uint64) []uint64 {
	ids := make([]uint64, 0, hi-lo+1)
	for id := lo; id <= hi; id++ {
		ids = append(ids, id)
	}

	return ids
}

func TestBook_EmptyAccessors(t *testing.T) {
	bk := New()

	assert.True(t, bk.Empty())
	assert.Zero(t, bk.Len())
	assert.Zero(t, bk.TotalVolume())

	_, err := bk.Front()
	require.ErrorIs(t, err, errs.ErrEmpty)
	_, err = bk.Back()
	require.ErrorIs(t, err, errs.ErrEmpty)
	require.ErrorIs(t, bk.PopFront(), errs.ErrEmpty)
	require.ErrorIs(t, bk.PopBack(), errs.ErrEmpty)
	assert.False(t, bk.First().Valid())
}

func TestBook_PushOrdering(t *testing.T) {
	bk := fillBook(t, 100, 1)

	require.Equal(t, 100, bk.Len())
	assert.Equal(t, idRange(1, 100), bookIDs(bk))

	front, err := bk.Front()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), front.ID)

	back, err := bk.Back()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), back.ID)
}

func TestBook_PushFront(t *testing.T) {
	bk := New()
	for id := uint64(50); id >= 1; id-- {
		bk.PushFront(order.Order{ID: id, Volume: 2})
	}

	assert.Equal(t, idRange(1, 50), bookIDs(bk))
	assert.Equal(t, int64(100), bk.TotalVolume())
}

func TestBook_FindEraseScenario(t *testing.T) {
	// Push ids 1..100 with volume 1 each.
	bk := fillBook(t, 100, 1)

	it := bk.Find(50)
	require.True(t, it.Valid())
	assert.Equal(t, uint64(50), it.Value().ID)

	require.True(t, bk.EraseByID(50))
	assert.False(t, bk.Find(50).Valid())
	assert.Equal(t, 99, bk.Len())
}

func TestBook_EraseByID_Absent(t *testing.T) {
	bk := fillBook(t, 10, 1)

	assert.False(t, bk.EraseByID(999))
	assert.Equal(t, 10, bk.Len())
}

func TestBook_InteriorErase_TombstoneSkipped(t *testing.T) {
	bk := fillBook(t, 10, 1)
	blk := bk.head
	require.NotNil(t, blk)
	liveBefore := blk.liveCount

	// Id 5 is interior to the first block's window.
	require.True(t, bk.EraseByID(5))

	assert.Same(t, blk, bk.head, "block stays linked")
	assert.Equal(t, liveBefore-1, blk.liveCount)

	assert.Equal(t, []uint64{1, 2, 3, 4, 6, 7, 8, 9, 10}, bookIDs(bk))

	var back []uint64
	for it := bk.End().Prev(); it.Valid(); it = it.Prev() {
		back = append(back, it.Value().ID)
	}
	assert.Equal(t, []uint64{10, 9, 8, 7, 6, 4, 3, 2, 1}, back)
}

func TestBook_EdgeErase_TrimsWindow(t *testing.T) {
	bk := fillBook(t, 10, 1)
	blk := bk.head

	// Tombstone an interior slot, then remove its live edge neighbours; the
	// window must trim past both the edge and the stranded tombstone.
	require.True(t, bk.EraseByID(2))
	require.True(t, bk.EraseByID(1))
	assert.True(t, blk.slots[blk.begin].live, "window edge references a live slot")
	assert.Equal(t, uint64(3), blk.slots[blk.begin].val.ID)

	front, err := bk.Front()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), front.ID)

	require.True(t, bk.EraseByID(9))
	require.True(t, bk.EraseByID(10))
	assert.True(t, blk.slots[blk.end-1].live)

	back, err := bk.Back()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), back.ID)
}

func TestBook_EraseIterator_ReturnsNext(t *testing.T) {
	bk := fillBook(t, 5, 1)

	next := bk.Erase(bk.Find(3))
	require.True(t, next.Valid())
	assert.Equal(t, uint64(4), next.Value().ID)

	next = bk.Erase(bk.Find(5))
	assert.False(t, next.Valid())

	assert.False(t, bk.Erase(bk.End()).Valid())
	assert.Equal(t, []uint64{1, 2, 4}, bookIDs(bk))
}

func TestBook_PopsSkipTombstones(t *testing.T) {
	bk := fillBook(t, 6, 1)
	require.True(t, bk.EraseByID(1))
	require.True(t, bk.EraseByID(6))

	require.NoError(t, bk.PopFront())
	require.NoError(t, bk.PopBack())

	assert.Equal(t, []uint64{3, 4}, bookIDs(bk))
}

func TestBook_SingletonBlockRecenter(t *testing.T) {
	bk := fillBook(t, 5, 1)
	for range 5 {
		require.NoError(t, bk.PopFront())
	}

	require.True(t, bk.Empty())
	require.NotNil(t, bk.head, "sole block is retained")
	assert.Equal(t, blockCapacity/2, bk.head.begin, "retained block is recentered")
	assert.Equal(t, bk.head.begin, bk.head.end)

	bk.PushFront(order.Order{ID: 1, Volume: 1})
	bk.PushBack(order.Order{ID: 2, Volume: 1})
	assert.Equal(t, []uint64{1, 2}, bookIDs(bk))
}

func TestBook_EmptiedBlockUnlinked(t *testing.T) {
	bk := fillBook(t, 100, 1)
	require.Greater(t, len(bk.blockOrder), 1)
	blocksBefore := len(bk.blockOrder)

	// The first block's window covers ids 1..32; erase them all.
	for id := uint64(1); id <= 32; id++ {
		require.True(t, bk.EraseByID(id))
	}

	assert.Equal(t, blocksBefore-1, len(bk.blockOrder))
	assert.Equal(t, len(bk.blockOrder), bk.blockTree.Size(), "tree size tracks block count")

	front, err := bk.Front()
	require.NoError(t, err)
	assert.Equal(t, uint64(33), front.ID)
}

func TestBook_UpdateVolume(t *testing.T) {
	bk := fillBook(t, 20, 10)
	require.Equal(t, int64(200), bk.TotalVolume())

	t.Run("absent id", func(t *testing.T) {
		assert.False(t, bk.UpdateVolume(999, 5))
	})

	t.Run("unchanged volume", func(t *testing.T) {
		assert.True(t, bk.UpdateVolume(3, 10))
		assert.Equal(t, int64(200), bk.TotalVolume())
	})

	t.Run("delta propagates", func(t *testing.T) {
		require.True(t, bk.UpdateVolume(3, 30))
		assert.Equal(t, int64(220), bk.TotalVolume())

		it := bk.Find(3)
		require.True(t, it.Valid())
		assert.Equal(t, int32(30), it.Value().Volume)

		// Prefix sums shift: 10, 20, 50, 60, ... so target 45 now lands
		// on id 3 instead of id 5.
		hit := bk.FindByVolume(45)
		require.True(t, hit.Valid())
		assert.Equal(t, uint64(3), hit.Value().ID)
	})

	t.Run("removed id", func(t *testing.T) {
		require.True(t, bk.EraseByID(7))
		assert.False(t, bk.UpdateVolume(7, 1))
	})
}

func TestBook_SizeAndVolumeUnderMixedOps(t *testing.T) {
	bk := New()
	gen := order.NewGenerator(21)
	live := make(map[uint64]int64)

	orders := gen.Generate(400)
	for _, o := range orders {
		bk.PushBack(o)
		live[o.ID] = int64(o.Volume)
	}
	for i := 0; i < 400; i += 3 {
		id := orders[i].ID
		require.True(t, bk.EraseByID(id))
		delete(live, id)
	}
	for range 40 {
		front, err := bk.Front()
		require.NoError(t, err)
		require.NoError(t, bk.PopFront())
		delete(live, front.ID)
	}

	var want int64
	for _, v := range live {
		want += v
	}
	assert.Equal(t, len(live), bk.Len())
	assert.Equal(t, want, bk.TotalVolume())
	assert.Equal(t, bk.blockTree.Total(), bk.TotalVolume(), "tree total mirrors book total")
}

func TestBook_Clone(t *testing.T) {
	bk := fillBook(t, 100, 2)
	require.True(t, bk.EraseByID(40), "leave a tombstone behind")

	c := bk.Clone()
	assert.Equal(t, bookIDs(bk), bookIDs(c))
	assert.Equal(t, bk.TotalVolume(), c.TotalVolume())

	require.True(t, c.EraseByID(10))
	assert.True(t, bk.Find(10).Valid())
	assert.Equal(t, 99, bk.Len())
	assert.Equal(t, 98, c.Len())
}

func TestBook_Move(t *testing.T) {
	bk := fillBook(t, 100, 1)

	moved := bk.Move()

	assert.Zero(t, bk.Len())
	assert.False(t, bk.Find(50).Valid())
	assert.Equal(t, 100, moved.Len())
	assert.Equal(t, idRange(1, 100), bookIDs(moved))

	bk.PushBack(order.Order{ID: 500, Volume: 4})
	assert.Equal(t, []uint64{500}, bookIDs(bk))
	assert.Equal(t, 100, moved.Len())
}

func TestBook_Clear(t *testing.T) {
	bk := fillBook(t, 150, 1)
	bk.Clear()

	assert.Zero(t, bk.Len())
	assert.Zero(t, bk.TotalVolume())
	assert.False(t, bk.Find(1).Valid())
	assert.Zero(t, bk.blockTree.Size())

	bk.PushBack(order.Order{ID: 1, Volume: 1})
	assert.Equal(t, 1, bk.Len())
}

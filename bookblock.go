// Package bookblock provides block-structured in-memory sequence containers
// for order-book records.
//
// Orders live in fixed 64-slot blocks chained into a doubly-linked list, so
// edge insertion and removal touch a single block while interior operations
// stay local to one block's window. Two container flavors build on the block
// list, plus a ring-buffer baseline for comparison:
//
//   - blockseq.Seq: a generic compacting sequence with an adaptive identity
//     index that activates once the sequence spans multiple blocks.
//   - orderbook.Book: an order-book container with tombstoned removal, a
//     mandatory identity index, and a Fenwick tree over per-block live
//     volume for O(log B) volume-prefix positioning.
//   - ringdeque.Deque: a plain power-of-two ring buffer used as the
//     benchmark baseline.
//
// # Basic Usage
//
// Maintaining a book with volume queries:
//
//	import "github.com/zhych125/bookblock"
//
//	book := bookblock.NewBook()
//	book.PushBack(order.Order{ID: 1, Volume: 100})
//	book.PushBack(order.Order{ID: 2, Volume: 250})
//
//	// Position of the order covering cumulative volume 150.
//	it := book.FindByVolume(150)
//	if it.Valid() {
//	    fmt.Println(it.Value().ID) // 2
//	}
//
// Using the generic sequence with custom records:
//
//	seq, _ := blockseq.New(
//	    func(o order.Order) uint64 { return o.ID },
//	    func(o order.Order) int64 { return int64(o.Volume) },
//	)
//	seq.PushBack(order.Order{ID: 7, Volume: 40})
//
// # Package Structure
//
// This package provides top-level constructors preconfigured for
// order.Order. For other record types or fine-grained control, use the
// blockseq, orderbook, and ringdeque packages directly.
package bookblock

import (
	"github.com/zhych125/bookblock/blockseq"
	"github.com/zhych125/bookblock/internal/hash"
	"github.com/zhych125/bookblock/order"
	"github.com/zhych125/bookblock/orderbook"
	"github.com/zhych125/bookblock/ringdeque"
)

// NewBook creates an empty order book with tombstoned removal and volume
// indexing.
func NewBook() *orderbook.Book {
	return orderbook.New()
}

// NewOrderSeq creates an empty compacting sequence keyed by order ID and
// aggregated by order volume.
func NewOrderSeq(opts ...blockseq.Option) (*blockseq.Seq[order.Order], error) {
	return blockseq.New(order.Key, order.VolumeOf, opts...)
}

// NewOrderDeque creates an empty ring-buffer deque of orders.
func NewOrderDeque() *ringdeque.Deque[order.Order] {
	return &ringdeque.Deque[order.Order]{}
}

// OrderRefID converts a client order reference into the 64-bit identifier
// space used by the containers. It uses xxHash64, matching order.RefID.
func OrderRefID(ref string) uint64 {
	return hash.RefID(ref)
}

// Package order defines the trade order record held by the bookblock
// containers, plus the synthetic feed used by tests and benchmarks.
package order

import "github.com/zhych125/bookblock/internal/hash"

// Order is a single resting order. ID is unique and immutable for the
// lifetime of the order; Volume is the signed quantity the cumulative-volume
// queries aggregate over. The struct is plain data and safe to copy.
type Order struct {
	ID                uint64
	ExchangeTimestamp uint64
	Volume            int32
	IsOwn             bool
}

// Key returns the order id. It is the key extractor the generic blockseq
// container is configured with.
func Key(o Order) uint64 { return o.ID }

// VolumeOf returns the order volume widened to int64, the volume extractor
// for the generic blockseq container.
func VolumeOf(o Order) int64 { return int64(o.Volume) }

// RefID derives the uint64 order id from an external string order reference
// using xxHash64. Feeds that key orders by exchange-assigned references use
// it to produce the id the containers index on.
func RefID(ref string) uint64 {
	return hash.RefID(ref)
}

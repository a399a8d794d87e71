package order

import "math/rand/v2"

const baseTimestamp = 1_000_000

// Generator produces a deterministic stream of synthetic orders with a
// pseudo-random but strictly increasing id sequence, suitable for filling the
// containers through back pushes while keeping the sequence sorted by id.
type Generator struct {
	rng    *rand.Rand
	nextID uint64
}

// NewGenerator creates a generator seeded with seed. Equal seeds yield equal
// order streams.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed)),
		nextID: 1,
	}
}

// NextOrder returns the next synthetic order. Ids advance by a random step
// in [1, 4], timestamps grow with the id plus 16 bits of jitter, and volumes
// are uniform in [-1000, 1000).
func (g *Generator) NextOrder() Order {
	o := Order{ID: g.nextID}
	g.nextID += 1 + g.rng.Uint64()&0x3
	o.ExchangeTimestamp = baseTimestamp + (o.ID << 5) + g.rng.Uint64()&0xFFFF
	o.Volume = int32(g.rng.Uint64()%2000) - 1000
	o.IsOwn = g.rng.Uint64()&0x1 == 0

	return o
}

// Generate returns the next count orders as a slice.
func (g *Generator) Generate(count int) []Order {
	out := make([]Order, 0, count)
	for range count {
		out = append(out, g.NextOrder())
	}

	return out
}

// MakeQueryIDs builds a mix of lookup targets over orders: each id is an
// existing order id with probability hitRatio, otherwise an id guaranteed to
// be absent (past the largest generated id). Used by the lookup benchmarks.
func MakeQueryIDs(orders []Order, count int, hitRatio float64, rng *rand.Rand) []uint64 {
	ids := make([]uint64, 0, count)
	if len(orders) == 0 {
		return ids
	}
	last := orders[len(orders)-1].ID
	missBase := last + 1
	for range count {
		if rng.Float64() < hitRatio {
			ids = append(ids, orders[rng.IntN(len(orders))].ID)
		} else {
			ids = append(ids, missBase+1+rng.Uint64N(last))
		}
	}

	return ids
}

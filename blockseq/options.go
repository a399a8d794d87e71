package blockseq

import (
	"fmt"

	"github.com/zhych125/bookblock/internal/options"
)

// defaultIndexThreshold is the block count at which the adaptive identity
// index switches on. A single block is a bounded linear scan that beats the
// hashing overhead, so indexing only pays off once the sequence spills into
// a second block.
const defaultIndexThreshold = 2

type config struct {
	indexThreshold int
}

// Option configures a Seq at construction time.
type Option = options.Option[*config]

// WithIndexThreshold sets the block count at which the adaptive identity
// index activates. The index deactivates again when the block count falls
// below the threshold. The minimum is 2: below two blocks a lookup is a
// single in-block scan and the index would never be consulted.
func WithIndexThreshold(blocks int) Option {
	return options.New(func(c *config) error {
		if blocks < 2 {
			return fmt.Errorf("index threshold must be at least 2 blocks, got %d", blocks)
		}
		c.indexThreshold = blocks

		return nil
	})
}

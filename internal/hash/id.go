package hash

import "github.com/cespare/xxhash/v2"

// RefID computes the xxHash64 of an external order reference string.
// Feeds that key orders by an exchange-assigned string reference use it to
// derive the stable uint64 id the containers index on.
func RefID(ref string) uint64 {
	return xxhash.Sum64String(ref)
}

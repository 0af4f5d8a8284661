package blockstore

import "github.com/mivelabs/multiverse/blockid"

// Key prefixes for the LevelDB-backed store, following the
// prefix-plus-identifier convention core/rawdb/accessors_chain.go uses for
// header keys.
var (
	blockPrefix = []byte("b") // blockPrefix + id -> rlp(block)
)

func blockKey(id blockid.ID) []byte {
	return append(append([]byte{}, blockPrefix...), id[:]...)
}

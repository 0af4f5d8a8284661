package block

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

// Block is a header paired with its contents. Binary (de)serialization in
// the source project is a full wire format with signature framing; here
// blocks are RLP-encoded for storage, which is enough to round-trip through
// a block store without pulling in a consensus-specific codec.
type Block struct {
	Header   Header
	Contents Contents
}

// New builds a block on top of parent (blockid.Zero for genesis), deriving
// ContentHash and the header ID deterministically from its fields.
func New(parent blockid.ID, length chainlength.T, slotTime uint64, contents Contents) (Block, error) {
	encoded, err := rlp.EncodeToBytes(contents.Fragments)
	if err != nil {
		return Block{}, err
	}
	h := Header{
		ParentID:    parent,
		ChainLength: length,
		SlotTime:    slotTime,
		ContentHash: blockid.Sum(encoded),
	}
	return Block{Header: h, Contents: contents}, nil
}

// ID returns the block's identifier, i.e. its header's ID.
func (b Block) ID() blockid.ID {
	return b.Header.ID()
}

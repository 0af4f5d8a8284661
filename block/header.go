package block

import (
	"encoding/binary"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

// EvalContext is the subset of header fields a ledger needs to evaluate a
// block's fragments (e.g. the slot/date a fragment was sealed in). It
// mirrors the source's HeaderContentEvalContext: a narrow, header-derived
// view rather than the full header.
type EvalContext struct {
	ChainLength chainlength.T
	SlotTime    uint64
}

// Header is the minimal header the multiverse needs: enough to derive an
// ID, walk parent pointers, and know a block's place in the chain.
// Signatures, VRF proofs and the BFT/GenesisPraos/Unsigned header taxonomy
// are consensus concerns out of scope for this package.
type Header struct {
	ParentID    blockid.ID
	ChainLength chainlength.T
	SlotTime    uint64

	// ContentHash summarizes the block's Contents; it is mixed into the
	// header hash so two blocks with identical parent/length but
	// different contents get distinct ids.
	ContentHash blockid.ID
}

// ID derives this header's block identifier by hashing its fields, the same
// role HeaderUnsigned/HeaderBft/HeaderGenesisPraos::id() play in the source.
func (h Header) ID() blockid.ID {
	buf := make([]byte, 0, blockid.Size*2+16)
	buf = append(buf, h.ParentID[:]...)
	buf = append(buf, h.ContentHash[:]...)
	var lenBuf, timeBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(h.ChainLength.Uint32()))
	binary.BigEndian.PutUint64(timeBuf[:], h.SlotTime)
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, timeBuf[:]...)
	return blockid.Sum(buf)
}

// EvalContext returns the view of the header a ledger needs to apply this
// block's fragments.
func (h Header) EvalContext() EvalContext {
	return EvalContext{ChainLength: h.ChainLength, SlotTime: h.SlotTime}
}

// Package blockid defines the block identifier used as the primary key of
// the multiverse's state table and length index.
package blockid

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length in bytes of an ID.
const Size = 32

// ID is a content hash identifying a block. It is a fixed-size array so it
// is comparable and usable as a map key without wrapping.
type ID [Size]byte

// Zero is the distinguished "no parent" sentinel used by genesis headers.
var Zero ID

// Sum derives an ID from arbitrary block bytes (header + contents encoding).
// Blockchain specific hashing (signatures, VRF proofs, fragment encoding) is
// out of this package's scope; this is a generic content hash.
func Sum(data []byte) ID {
	return ID(sha256.Sum256(data))
}

// IsZero reports whether id is the zero sentinel.
func (id ID) IsZero() bool {
	return id == Zero
}

// String returns the hex encoding of id, e.g. for logging.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the id's underlying bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// FromBytes builds an ID from a byte slice, which must be exactly Size long.
func FromBytes(b []byte) (ID, bool) {
	var id ID
	if len(b) != Size {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

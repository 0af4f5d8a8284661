// Package blockstore is the out-of-scope collaborator spec §4.5 calls the
// "block store": a persistent keyed archive of blocks and their metadata.
// The multiverse only ever reads from it.
package blockstore

import (
	"context"
	"errors"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

// ErrNotFound is returned by GetBlockInfo/GetBlock when id is unknown to
// the store.
var ErrNotFound = errors.New("blockstore: block not found")

// Info is the subset of a stored block's metadata reconstruction needs to
// walk parent pointers without paying for a full block fetch.
type Info struct {
	ParentID    blockid.ID
	ChainLength chainlength.T
}

// Store is the read/write contract the multiverse's reconstruction path
// (spec §4.4) and an orchestrator's block ingestion path depend on. Garbage
// collecting the store itself is explicitly out of scope (spec §1).
type Store interface {
	// GetBlockInfo fetches a block's parent pointer and chain length.
	GetBlockInfo(ctx context.Context, id blockid.ID) (Info, error)
	// GetBlock fetches the full block, contents included.
	GetBlock(ctx context.Context, id blockid.ID) (block.Block, error)
	// PutBlock persists a block, indexed by its own ID.
	PutBlock(ctx context.Context, b block.Block) error
}

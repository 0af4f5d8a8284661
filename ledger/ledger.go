// Package ledger defines the contract the multiverse treats as an opaque
// state (spec §4.5) and supplies one concrete, deliberately small
// implementation so the cache can be exercised end to end without pulling
// in a full EVM/state-trie stack.
package ledger

import (
	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/chainlength"
)

// Params bundles whatever ledger-wide parameters ApplyBlock needs to
// evaluate a block's fragments (fees, discrimination, slot duration, ...).
// The multiverse never inspects Params itself; it only threads it through
// from State.LedgerParameters() to State.ApplyBlock().
type Params struct {
	MaxFragmentsPerBlock int
}

// State is the ledger contract from spec §4.5. Implementations must be
// immutable: ApplyBlock returns a new State rather than mutating the
// receiver, since the multiverse assumes states it has already cached never
// change under it.
type State interface {
	ChainLength() chainlength.T
	LedgerParameters() Params
	ApplyBlock(params Params, contents block.Contents, evalCtx block.EvalContext) (State, error)
}

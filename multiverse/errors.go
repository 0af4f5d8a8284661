package multiverse

import (
	"errors"
	"fmt"

	"github.com/mivelabs/multiverse/blockid"
)

// ErrInitialStateUnreconstructible is returned by GetFromStorage when the
// parent walk reaches the zero-parent sentinel without finding a cached
// ancestor: there is no genesis state to rebuild from (spec §7.2).
var ErrInitialStateUnreconstructible = errors.New("multiverse: cannot reconstruct state without a cached genesis ancestor")

// StoreError wraps a failure returned by the block store during
// reconstruction (spec §7.1). The underlying error is unwrapped verbatim.
type StoreError struct {
	ID  blockid.ID
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("multiverse: block store error fetching %s: %v", e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StateTransitionFailed wraps an error State.ApplyBlock returned while
// replaying a block during reconstruction (spec §7.3). The prefix of the
// reconstruction that succeeded before the failure remains cached.
type StateTransitionFailed struct {
	ID  blockid.ID
	Err error
}

func (e *StateTransitionFailed) Error() string {
	return fmt.Sprintf("multiverse: applying block %s: %v", e.ID, e.Err)
}

func (e *StateTransitionFailed) Unwrap() error { return e.Err }

package multiverse

import (
	"context"
	"time"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/blockstore"
)

// GetFromStorage implements spec §4.4: return the cached state for k if
// present (fast path), otherwise walk parent pointers through store to the
// nearest cached ancestor and replay blocks forward to rebuild it, caching
// every intermediate state along the way.
//
// On a StateTransitionFailed error, the prefix successfully replayed before
// the failure remains cached (spec §7, explicitly not a bug).
func (m *Multiverse) GetFromStorage(ctx context.Context, k blockid.ID, store blockstore.Store) (Ref, error) {
	if r, ok := m.GetRef(k); ok {
		return r, nil
	}
	start := time.Now()
	defer func() { reconstructTimer.UpdateSince(start) }()

	var toApply []blockid.ID
	cur := k
	var seed Ref
	for {
		if cur.IsZero() {
			return Ref{}, ErrInitialStateUnreconstructible
		}
		if r, ok := m.GetRef(cur); ok {
			seed = r
			break
		}
		info, err := store.GetBlockInfo(ctx, cur)
		if err != nil {
			return Ref{}, &StoreError{ID: cur, Err: err}
		}
		toApply = append(toApply, cur)
		cur = info.ParentID
	}

	for i := len(toApply) - 1; i >= 0; i-- {
		h := toApply[i]
		blk, err := store.GetBlock(ctx, h)
		if err != nil {
			seed.Release()
			return Ref{}, &StoreError{ID: h, Err: err}
		}
		state := seed.State()
		newState, err := state.ApplyBlock(state.LedgerParameters(), blk.Contents, blk.Header.EvalContext())
		if err != nil {
			seed.Release()
			return Ref{}, &StateTransitionFailed{ID: h, Err: err}
		}
		seed.Release()
		seed = m.Add(h, newState)
	}
	if len(toApply) > 0 {
		reconstructApplyM.Mark(int64(len(toApply)))
	}
	return seed, nil
}

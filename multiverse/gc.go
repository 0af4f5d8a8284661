package multiverse

import (
	"time"

	"github.com/mivelabs/multiverse/chainlength"
)

// GC applies the exponential-gap retention schedule of spec §4.3: buckets
// within SuffixToKeep of the tip are always retained; older buckets are
// retained only at geometrically widening intervals, and states that fall
// in the gaps between them are demoted to collectable (and reclaimed
// outright once no pin holds them).
//
// GC is idempotent (spec §5): running it twice in a row with no
// intervening Add or pin change leaves the state table unchanged, since a
// bucket already fully retained stays untouched and a bucket already fully
// demoted-and-pinned is just re-checked for reclaimability.
func (m *Multiverse) GC() {
	start := time.Now()
	defer func() { gcDurationTimer.UpdateSince(start) }()

	tip, ok := m.lengths.maxLength()
	if !ok {
		return
	}
	threshold, ok := tip.NthAncestor(m.suffixToKeep)
	if !ok {
		return
	}

	nextKeep := chainlength.Zero
	var reclaimed int64
	for _, length := range m.lengths.lengthsInRange(chainlength.Zero, threshold) {
		if length >= nextKeep {
			gap := tip.Uint32() - length.Uint32()
			nextKeep = chainlength.T(length.Uint32() + gap/2)
			continue
		}
		for _, id := range m.lengths.idsAt(length) {
			entry, ok := m.states[id]
			if !ok {
				// Invariant I1 would be violated if the length index named
				// an id absent from the state table; this should never
				// happen, but GC must not panic an orchestrator over it.
				m.lengths.remove(length, id)
				continue
			}
			reclaimable := false
			if entry.retained() {
				reclaimable = entry.demote()
			} else if _, live := entry.get(); !live {
				reclaimable = true
			}
			if reclaimable {
				delete(m.states, id)
				m.lengths.remove(length, id)
				reclaimed++
			}
		}
	}
	if reclaimed > 0 {
		gcReclaimedMeter.Mark(reclaimed)
	}
	statesGauge.Update(int64(len(m.states)))
}

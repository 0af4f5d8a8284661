// Package multiverse implements the in-memory, memoized cache of computed
// chain states described by spec §2–§4: a primary state table keyed by
// block id, a secondary length index driving GC order, pin handles that
// keep specific states resident regardless of GC, an exponential-gap GC
// policy, and on-demand reconstruction from a block store.
//
// A *Multiverse is single-owner and not safe for concurrent use (spec §5);
// callers needing concurrent access should serialize through package
// mvactor instead of adding locks here.
package multiverse

import (
	"fmt"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/ledger"
)

// DefaultSuffixToKeep is the number of chain-length positions at the tip
// that GC always leaves fully retained (spec §4.3, §6).
const DefaultSuffixToKeep = 50

// Multiverse is the aggregate cache described by spec §3: a state table and
// a length index, kept mutually consistent (invariants I1-I6) across add
// and gc.
type Multiverse struct {
	states  map[blockid.ID]*cacheEntry
	lengths *lengthIndex

	suffixToKeep uint32
}

// Option configures a Multiverse at construction time.
type Option func(*Multiverse)

// WithSuffixToKeep overrides DefaultSuffixToKeep (spec §6's single tuning
// knob).
func WithSuffixToKeep(n uint32) Option {
	return func(m *Multiverse) { m.suffixToKeep = n }
}

// New returns an empty Multiverse.
func New(opts ...Option) *Multiverse {
	m := &Multiverse{
		states:       make(map[blockid.ID]*cacheEntry),
		lengths:      newLengthIndex(),
		suffixToKeep: DefaultSuffixToKeep,
	}
	for _, opt := range opts {
		opt(m)
	}
	statesGauge.Update(0)
	return m
}

// NrStates returns the number of entries in the state table, including
// collectable entries whose pin has already dropped to zero but which GC
// hasn't swept yet. The source counts these too (Design Notes, open
// question); spec §8's tests assume the same.
func (m *Multiverse) NrStates() int {
	return len(m.states)
}

// Get returns the state cached for id, if the entry exists and is still
// reachable (retained, or collectable with an outstanding pin).
func (m *Multiverse) Get(id blockid.ID) (ledger.State, bool) {
	entry, ok := m.states[id]
	if !ok {
		return nil, false
	}
	return entry.get()
}

// GetRef is Get, wrapped in a pin handle that keeps the state resident
// until Released.
func (m *Multiverse) GetRef(id blockid.ID) (Ref, bool) {
	entry, ok := m.states[id]
	if !ok {
		return Ref{}, false
	}
	if _, ok := entry.get(); !ok {
		return Ref{}, false
	}
	return newRef(id, entry.p), true
}

// Add installs state as a retained entry for id and returns a pin handle
// for it.
//
// Re-inserting an id already present panics: the source silently overwrites
// the state-table entry without fixing up the (possibly different) old
// length-index bucket, which can violate I3. This reimplementation instead
// asserts uniqueness, per the Design Notes' invitation to pick and document
// a policy; callers with a legitimate need to replace a state under an
// unchanged chain length should remove it first (not exposed, since no
// caller in this codebase needs it).
func (m *Multiverse) Add(id blockid.ID, state ledger.State) Ref {
	if _, exists := m.states[id]; exists {
		panic(fmt.Sprintf("multiverse: Add called twice for block id %s", id))
	}
	entry := newRetainedEntry(state)
	m.states[id] = entry
	m.lengths.insert(state.ChainLength(), id)
	statesGauge.Update(int64(len(m.states)))
	return newRef(id, entry.p)
}

// EntrySummary is a read-only view of one cache entry, for tooling
// (cmd/multiversebench's bexpr-filtered listing) that has no business
// touching the pinned state directly.
type EntrySummary struct {
	ID          blockid.ID
	ChainLength uint32 `bexpr:"ChainLength"`
	Retained    bool   `bexpr:"Retained"`
}

// Snapshot returns a summary of every entry in the state table whose state
// is still reachable (retained, or collectable with an outstanding pin), in
// no particular order; unpinned collectable entries are left out. It exists for operational tooling; the core
// package never calls it itself.
func (m *Multiverse) Snapshot() []EntrySummary {
	out := make([]EntrySummary, 0, len(m.states))
	for id, entry := range m.states {
		state, ok := entry.get()
		if !ok {
			continue
		}
		out = append(out, EntrySummary{
			ID:          id,
			ChainLength: state.ChainLength().Uint32(),
			Retained:    entry.retained(),
		})
	}
	return out
}

package multiverse

import (
	"sync/atomic"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/ledger"
)

// pinned is the shared cell a cache entry and every Ref minted for the same
// block id point to. refs counts outstanding Ref handles, not the table's
// own retention of the state — that distinction is carried by the entry's
// kind (retained vs collectable), below.
//
// Go has no RAII destructor to mirror Rust's Arc<Weak<State>> drop timing,
// and the stdlib's GC-backed weak pointers (package weak) only clear on the
// next garbage-collection cycle, which would make reclamation
// non-deterministic and break the exact-count assertions spec §8 makes
// (P2, P5). An explicit, atomically-counted handle is the closest
// deterministic analogue, in the same spirit as the ref-counted trie/
// snapshot layers go-ethereum itself uses for shared, externally-pinned
// state.
type pinned struct {
	state ledger.State
	refs  atomic.Int32
}

// refHandle is the mutable half of a Ref, always accessed through a pointer
// so Ref itself stays a plain value (an id plus a pointer) that is cheap and
// safe to copy and return from functions. Embedding the atomic.Bool directly
// in Ref would make every Ref-by-value return a copylocks violation.
type refHandle struct {
	p        *pinned
	released atomic.Bool
}

// Ref is the externally visible pin handle (spec §3, §4.1). It pairs a
// block id with a grip on a pinned state. As long as any Ref for a given
// pinned cell is outstanding, GC will not reclaim that state. The zero Ref
// is valid and inert: ID, State and Release are all no-ops on it, which is
// what a failed lookup or a failed reconstruction returns.
type Ref struct {
	id blockid.ID
	h  *refHandle
}

func newRef(id blockid.ID, p *pinned) Ref {
	p.refs.Add(1)
	return Ref{id: id, h: &refHandle{p: p}}
}

// ID returns the block id this pin was created for.
func (r *Ref) ID() blockid.ID {
	return r.id
}

// State returns the pinned state, or nil for the zero Ref.
func (r *Ref) State() ledger.State {
	if r.h == nil {
		return nil
	}
	return r.h.p.state
}

// Clone duplicates the pin, incrementing the shared hold count. The clone
// must be Released independently of the original, mirroring Arc::clone's
// cheap, independent-lifetime semantics (spec: "pin handles are cheaply
// cloneable").
func (r *Ref) Clone() Ref {
	if r.h == nil {
		return Ref{}
	}
	return newRef(r.id, r.h.p)
}

// Release drops this pin handle. It is idempotent: releasing an
// already-released or zero Ref is a no-op rather than an error, since Go
// gives callers no compiler-enforced single-use guarantee the way Rust's
// move semantics do.
func (r *Ref) Release() {
	if r.h == nil {
		return
	}
	if r.h.released.CompareAndSwap(false, true) {
		r.h.p.refs.Add(-1)
	}
}

// entryKind tags which ownership mode a cacheEntry is in.
type entryKind uint8

const (
	retainedKind entryKind = iota
	collectableKind
)

// cacheEntry is the per-block-id value in the state table (spec §3's "Cache
// entry"). Retained entries keep their pinned state alive on their own;
// collectable entries only observe it, and are reclaimable once no Ref
// holds it.
type cacheEntry struct {
	kind entryKind
	p    *pinned
}

func newRetainedEntry(state ledger.State) *cacheEntry {
	return &cacheEntry{kind: retainedKind, p: &pinned{state: state}}
}

// get returns the entry's state if it is still reachable: always for a
// retained entry, or only while a pin is outstanding for a collectable one.
func (e *cacheEntry) get() (ledger.State, bool) {
	if e.kind == retainedKind {
		return e.p.state, true
	}
	if e.p.refs.Load() > 0 {
		return e.p.state, true
	}
	return nil, false
}

// demote downgrades a retained entry to collectable and reports whether it
// is immediately reclaimable (no outstanding pins). Calling demote on an
// already-collectable entry just re-checks reclaimability.
func (e *cacheEntry) demote() (reclaimable bool) {
	e.kind = collectableKind
	return e.p.refs.Load() == 0
}

func (e *cacheEntry) retained() bool {
	return e.kind == retainedKind
}

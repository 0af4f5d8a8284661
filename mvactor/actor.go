// Package mvactor serializes access to a *multiverse.Multiverse behind a
// single goroutine and a periodic GC ticker, the same shape
// core/worker.go's mainLoop gives its sealing state: one owner goroutine,
// everything else talks to it over channels rather than locking directly.
// spec §5 requires this: a Multiverse is single-owner and not safe for
// concurrent use.
package mvactor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/blockstore"
	"github.com/mivelabs/multiverse/ledger"
	"github.com/mivelabs/multiverse/multiverse"
)

// Config configures an Actor.
type Config struct {
	// SuffixToKeep overrides multiverse.DefaultSuffixToKeep; zero means use
	// the default.
	SuffixToKeep uint32
	// GCInterval is how often the actor's own ticker runs GC in the
	// background, independent of any caller-driven GC request. Zero
	// disables the background ticker; callers can still request GC
	// explicitly.
	GCInterval time.Duration
}

type request struct {
	fn   func(*multiverse.Multiverse)
	done chan struct{}
}

// Actor owns a *multiverse.Multiverse and exposes it safely to concurrent
// callers by funneling every operation through a single goroutine.
type Actor struct {
	cfg Config
	mv  *multiverse.Multiverse

	reqCh chan request
	exit  chan struct{}
	wg    sync.WaitGroup
}

// New constructs an Actor. Call Start to begin serving requests.
func New(cfg Config) *Actor {
	var opts []multiverse.Option
	if cfg.SuffixToKeep > 0 {
		opts = append(opts, multiverse.WithSuffixToKeep(cfg.SuffixToKeep))
	}
	return &Actor{
		cfg:   cfg,
		mv:    multiverse.New(opts...),
		reqCh: make(chan request),
		exit:  make(chan struct{}),
	}
}

// Start implements a node.Lifecycle-shaped start: it spawns the actor's
// mainLoop goroutine and returns immediately.
func (a *Actor) Start() error {
	a.wg.Add(1)
	go a.mainLoop()
	return nil
}

// Stop signals the actor to exit and waits for its goroutine to return.
func (a *Actor) Stop() error {
	close(a.exit)
	a.wg.Wait()
	return nil
}

func (a *Actor) mainLoop() {
	defer a.wg.Done()

	var gcTicker *time.Ticker
	var gcTickerC <-chan time.Time
	if a.cfg.GCInterval > 0 {
		gcTicker = time.NewTicker(a.cfg.GCInterval)
		defer gcTicker.Stop()
		gcTickerC = gcTicker.C
	}

	for {
		select {
		case <-a.exit:
			return
		case <-gcTickerC:
			before := a.mv.NrStates()
			a.mv.GC()
			log.Debug("multiverse gc tick", "before", before, "after", a.mv.NrStates())
		case req := <-a.reqCh:
			req.fn(a.mv)
			close(req.done)
		}
	}
}

// do runs fn on the owner goroutine and blocks until it has run, or until
// ctx is done. It returns ctx.Err() if ctx is done first (if the actor had
// already accepted the request, fn still runs after do returns), and
// context.Canceled if the actor is stopped before accepting the request.
func (a *Actor) do(ctx context.Context, fn func(*multiverse.Multiverse)) error {
	done := make(chan struct{})
	req := request{fn: fn, done: done}
	select {
	case a.reqCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-a.exit:
		return context.Canceled
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Add installs state for id and returns a pin handle for it (multiverse
// §4.1). See (*multiverse.Multiverse).Add for the duplicate-id panic policy.
func (a *Actor) Add(ctx context.Context, id blockid.ID, state ledger.State) (multiverse.Ref, error) {
	var ref multiverse.Ref
	err := a.do(ctx, func(mv *multiverse.Multiverse) {
		ref = mv.Add(id, state)
	})
	return ref, err
}

// Get returns the cached state for id, if reachable.
func (a *Actor) Get(ctx context.Context, id blockid.ID) (ledger.State, bool, error) {
	var state ledger.State
	var ok bool
	err := a.do(ctx, func(mv *multiverse.Multiverse) {
		state, ok = mv.Get(id)
	})
	return state, ok, err
}

// GetRef returns a pin handle for id's cached state, if reachable.
func (a *Actor) GetRef(ctx context.Context, id blockid.ID) (multiverse.Ref, bool, error) {
	var ref multiverse.Ref
	var ok bool
	err := a.do(ctx, func(mv *multiverse.Multiverse) {
		ref, ok = mv.GetRef(id)
	})
	return ref, ok, err
}

// GetFromStorage reconstructs (or fast-paths) the state for k, serialized
// through the actor like every other operation (spec §4.4).
func (a *Actor) GetFromStorage(ctx context.Context, k blockid.ID, store blockstore.Store) (multiverse.Ref, error) {
	var ref multiverse.Ref
	var innerErr error
	err := a.do(ctx, func(mv *multiverse.Multiverse) {
		ref, innerErr = mv.GetFromStorage(ctx, k, store)
	})
	if err != nil {
		return multiverse.Ref{}, err
	}
	return ref, innerErr
}

// GC runs an out-of-band GC pass immediately, in addition to whatever the
// background ticker is doing.
func (a *Actor) GC(ctx context.Context) error {
	return a.do(ctx, func(mv *multiverse.Multiverse) {
		mv.GC()
	})
}

// NrStates reports the current state table size.
func (a *Actor) NrStates(ctx context.Context) (int, error) {
	var n int
	err := a.do(ctx, func(mv *multiverse.Multiverse) {
		n = mv.NrStates()
	})
	return n, err
}

package multiverse

import "github.com/ethereum/go-ethereum/metrics"

// Metrics mirror the chain/* gauges core/blockchain.go registers for its
// own caches; nr_states and GC behavior are exactly the kind of thing an
// operator dashboards, even though spec §1 places metrics collection
// itself out of scope for the core's contract.
var (
	statesGauge       = metrics.NewRegisteredGauge("multiverse/states", nil)
	gcReclaimedMeter  = metrics.NewRegisteredMeter("multiverse/gc/reclaimed", nil)
	gcDurationTimer   = metrics.NewRegisteredTimer("multiverse/gc/duration", nil)
	reconstructTimer  = metrics.NewRegisteredTimer("multiverse/reconstruct/duration", nil)
	reconstructApplyM = metrics.NewRegisteredMeter("multiverse/reconstruct/blocks_applied", nil)
)

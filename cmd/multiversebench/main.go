// Command multiversebench drives the linear-chain scenario from spec.md §8
// scenario 1 against either block store backend and reports cache
// occupancy, playing the same "test/ops tooling around a library package"
// role cmd/mive plays around the teacher's core package.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fjl/memsize"
	"github.com/hashicorp/go-bexpr"
	"github.com/urfave/cli/v2"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/blockstore"
	"github.com/mivelabs/multiverse/chainlength"
	"github.com/mivelabs/multiverse/ledger"
	"github.com/mivelabs/multiverse/multiverse"
	"github.com/mivelabs/multiverse/mvconfig"
	"github.com/mivelabs/multiverse/mvlog"
)

var (
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "LevelDB directory to store blocks in; empty runs entirely in memory",
	}
	lengthFlag = &cli.IntFlag{
		Name:  "length",
		Usage: "number of blocks to append on top of genesis",
		Value: 10000,
	}
	suffixFlag = &cli.UintFlag{
		Name:  "suffix-to-keep",
		Usage: "GC keep-suffix length; 0 uses the library default",
	}
	filterFlag = &cli.StringFlag{
		Name:  "filter",
		Usage: `go-bexpr expression over cache entries, e.g. "ChainLength > 9500"`,
	}
	jsonLogFlag = &cli.BoolFlag{
		Name:  "log-json",
		Usage: "emit JSON logs instead of the terminal handler",
	}
	memsizeFlag = &cli.BoolFlag{
		Name:  "memsize",
		Usage: "scan and print a resident-memory estimate of the final cache (can be slow on large caches)",
	}
)

func main() {
	app := &cli.App{
		Name:  "multiversebench",
		Usage: "exercise the multiverse chain-state cache end to end",
		Flags: []cli.Flag{dataDirFlag, lengthFlag, suffixFlag, filterFlag, jsonLogFlag, memsizeFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "multiversebench:", err)
		os.Exit(1)
	}
}

func run(cliCtx *cli.Context) error {
	mvlog.Setup(mvlog.Options{JSON: cliCtx.Bool(jsonLogFlag.Name), Verbosity: 3})

	cfg := mvconfig.Default
	cfg.DataDir = cliCtx.String(dataDirFlag.Name)
	if n := cliCtx.Uint(suffixFlag.Name); n > 0 {
		cfg.SuffixToKeep = uint32(n)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open block store: %w", err)
	}
	defer closeStore()

	var opts []multiverse.Option
	if cfg.SuffixToKeep > 0 {
		opts = append(opts, multiverse.WithSuffixToKeep(cfg.SuffixToKeep))
	}
	mv := multiverse.New(opts...)

	ctx := context.Background()
	length := cliCtx.Int(lengthFlag.Name)
	tip, err := buildLinearChain(ctx, mv, store, length)
	if err != nil {
		return err
	}

	fmt.Printf("appended %d blocks, tip length %v, nr_states=%d\n", length, tip, mv.NrStates())

	if expr := cliCtx.String(filterFlag.Name); expr != "" {
		if err := printFiltered(mv, expr); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}

	if cliCtx.Bool(memsizeFlag.Name) {
		printMemsize(mv)
	}
	return nil
}

func openStore(cfg mvconfig.Config) (blockstore.Store, func(), error) {
	if cfg.DataDir == "" {
		return blockstore.NewMemory(), func() {}, nil
	}
	ldb, err := blockstore.OpenLevelDB(cfg.DataDir, cfg.DatabaseCache, cfg.DatabaseHandles)
	if err != nil {
		return nil, nil, err
	}
	return ldb, func() { ldb.Close() }, nil
}

// buildLinearChain mirrors the spec §8 scenario 1 setup: a genesis state
// funding a single account, followed by empty blocks, reconstructing
// nothing along the way (every state is added directly, as a producer
// would).
func buildLinearChain(ctx context.Context, mv *multiverse.Multiverse, store blockstore.Store, n int) (chainlength.T, error) {
	genesisContents := block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentInitial, Payload: ledger.EncodeInitial(map[uint64]int64{0: 1_000_000})},
	}}
	genesisBlock, err := block.New(blockid.Zero, chainlength.Zero, uint64(time.Now().Unix()), genesisContents)
	if err != nil {
		return 0, err
	}
	genesisState, err := ledger.NewGenesis(ledger.Params{}, genesisContents)
	if err != nil {
		return 0, err
	}
	if err := store.PutBlock(ctx, genesisBlock); err != nil {
		return 0, err
	}
	genesisRef := mv.Add(genesisBlock.ID(), genesisState)
	genesisRef.Release()

	state := ledger.State(genesisState)
	parent := genesisBlock.ID()
	var tip chainlength.T
	for i := 1; i <= n; i++ {
		length := chainlength.T(i)
		blk, err := block.New(parent, length, uint64(i), block.Contents{})
		if err != nil {
			return 0, err
		}
		state, err = state.ApplyBlock(state.LedgerParameters(), blk.Contents, blk.Header.EvalContext())
		if err != nil {
			return 0, err
		}
		if err := store.PutBlock(ctx, blk); err != nil {
			return 0, err
		}
		ref := mv.Add(blk.ID(), state)
		mv.GC()
		ref.Release()
		parent = blk.ID()
		tip = length
	}
	return tip, nil
}

func printFiltered(mv *multiverse.Multiverse, expr string) error {
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return err
	}
	for _, entry := range mv.Snapshot() {
		matched, err := eval.Evaluate(entry)
		if err != nil {
			return err
		}
		if matched {
			fmt.Printf("%s\tlength=%d\tretained=%v\n", entry.ID, entry.ChainLength, entry.Retained)
		}
	}
	return nil
}

func printMemsize(mv *multiverse.Multiverse) {
	sizes := memsize.Scan(mv)
	fmt.Print(sizes.Report())
}

package ledger_test

import (
	"testing"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
	"github.com/mivelabs/multiverse/ledger"
)

func TestNewGenesisAppliesInitialAllocation(t *testing.T) {
	contents := block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentInitial, Payload: ledger.EncodeInitial(map[uint64]int64{1: 100, 2: 50})},
	}}
	state, err := ledger.NewGenesis(ledger.Params{}, contents)
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	if got := state.Balance(1); got != 100 {
		t.Fatalf("balance(1) = %d, want 100", got)
	}
	if got := state.Balance(2); got != 50 {
		t.Fatalf("balance(2) = %d, want 50", got)
	}
	if state.ChainLength() != chainlength.Zero {
		t.Fatalf("genesis chain length = %v, want 0", state.ChainLength())
	}
}

func TestNewGenesisRejectsNonInitialFragments(t *testing.T) {
	contents := block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentTransfer, Payload: ledger.EncodeTransfer(1, 2, 5)},
	}}
	if _, err := ledger.NewGenesis(ledger.Params{}, contents); err == nil {
		t.Fatalf("expected an error for a non-initial genesis fragment")
	}
}

func TestApplyBlockTransfer(t *testing.T) {
	genesisContents := block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentInitial, Payload: ledger.EncodeInitial(map[uint64]int64{1: 100, 2: 0})},
	}}
	genesis, err := ledger.NewGenesis(ledger.Params{}, genesisContents)
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}

	blk, err := block.New(blockid.Zero, chainlength.T(1), 1, block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentTransfer, Payload: ledger.EncodeTransfer(1, 2, 30)},
	}})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}

	next, err := genesis.ApplyBlock(ledger.Params{}, blk.Contents, blk.Header.EvalContext())
	if err != nil {
		t.Fatalf("ApplyBlock: %v", err)
	}
	simple := next.(*ledger.Simple)
	if got := simple.Balance(1); got != 70 {
		t.Fatalf("balance(1) after transfer = %d, want 70", got)
	}
	if got := simple.Balance(2); got != 30 {
		t.Fatalf("balance(2) after transfer = %d, want 30", got)
	}
	// genesis must be untouched: State implementations are immutable.
	if got := genesis.Balance(1); got != 100 {
		t.Fatalf("genesis balance(1) mutated to %d, want unchanged 100", got)
	}
}

func TestApplyBlockRejectsInsufficientBalance(t *testing.T) {
	genesisContents := block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentInitial, Payload: ledger.EncodeInitial(map[uint64]int64{1: 10})},
	}}
	genesis, err := ledger.NewGenesis(ledger.Params{}, genesisContents)
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	blk, err := block.New(blockid.Zero, chainlength.T(1), 1, block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentTransfer, Payload: ledger.EncodeTransfer(1, 2, 30)},
	}})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if _, err := genesis.ApplyBlock(ledger.Params{}, blk.Contents, blk.Header.EvalContext()); err == nil {
		t.Fatalf("expected insufficient-balance error")
	}
}

func TestApplyBlockRejectsReservedFragment(t *testing.T) {
	genesis, err := ledger.NewGenesis(ledger.Params{}, block.Contents{})
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	blk, err := block.New(blockid.Zero, chainlength.T(1), 1, block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentReserved, Payload: nil},
	}})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if _, err := genesis.ApplyBlock(ledger.Params{}, blk.Contents, blk.Header.EvalContext()); err == nil {
		t.Fatalf("expected an error applying a reserved fragment")
	}
}

func TestApplyBlockEnforcesFragmentLimit(t *testing.T) {
	genesis, err := ledger.NewGenesis(ledger.Params{}, block.Contents{})
	if err != nil {
		t.Fatalf("NewGenesis: %v", err)
	}
	blk, err := block.New(blockid.Zero, chainlength.T(1), 1, block.Contents{Fragments: []block.Fragment{
		{Tag: block.FragmentStakeDelegation, Payload: nil},
		{Tag: block.FragmentStakeDelegation, Payload: nil},
	}})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if _, err := genesis.ApplyBlock(ledger.Params{MaxFragmentsPerBlock: 1}, blk.Contents, blk.Header.EvalContext()); err == nil {
		t.Fatalf("expected a fragment-limit error")
	}
}

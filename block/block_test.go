package block_test

import (
	"testing"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

func TestNewDerivesStableID(t *testing.T) {
	contents := block.Contents{Fragments: []block.Fragment{{Tag: block.FragmentTransfer, Payload: []byte{1, 2, 3}}}}
	a, err := block.New(blockid.Zero, chainlength.T(1), 100, contents)
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	b, err := block.New(blockid.Zero, chainlength.T(1), 100, contents)
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if a.ID() != b.ID() {
		t.Fatalf("identical block construction produced different ids: %s != %s", a.ID(), b.ID())
	}
}

func TestDistinctContentsProduceDistinctIDs(t *testing.T) {
	a, err := block.New(blockid.Zero, chainlength.T(1), 100, block.Contents{})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	b, err := block.New(blockid.Zero, chainlength.T(1), 100, block.Contents{
		Fragments: []block.Fragment{{Tag: block.FragmentTransfer, Payload: []byte{9}}},
	})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("blocks with different contents produced the same id")
	}
}

func TestDistinctParentsProduceDistinctIDs(t *testing.T) {
	parentA := blockid.Sum([]byte("parent a"))
	parentB := blockid.Sum([]byte("parent b"))
	a, err := block.New(parentA, chainlength.T(1), 100, block.Contents{})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	b, err := block.New(parentB, chainlength.T(1), 100, block.Contents{})
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("blocks with different parents produced the same id")
	}
}

func TestFragmentTagString(t *testing.T) {
	cases := map[block.FragmentTag]string{
		block.FragmentInitial:         "initial",
		block.FragmentTransfer:        "transfer",
		block.FragmentReserved:        "reserved",
		block.FragmentTag(255):        "unknown",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Fatalf("FragmentTag(%d).String() = %q, want %q", tag, got, want)
		}
	}
}

package blockid_test

import (
	"testing"

	"github.com/mivelabs/multiverse/blockid"
)

func TestSumIsDeterministic(t *testing.T) {
	a := blockid.Sum([]byte("a block"))
	b := blockid.Sum([]byte("a block"))
	if a != b {
		t.Fatalf("Sum is not deterministic: %s != %s", a, b)
	}
	c := blockid.Sum([]byte("a different block"))
	if a == c {
		t.Fatalf("Sum collided for distinct inputs")
	}
}

func TestZeroIsZero(t *testing.T) {
	if !blockid.Zero.IsZero() {
		t.Fatalf("Zero.IsZero() = false")
	}
	sum := blockid.Sum([]byte("x"))
	if sum.IsZero() {
		t.Fatalf("non-zero sum reported IsZero() = true")
	}
}

func TestBytesRoundtrip(t *testing.T) {
	id := blockid.Sum([]byte("roundtrip"))
	got, ok := blockid.FromBytes(id.Bytes())
	if !ok {
		t.Fatalf("FromBytes rejected a valid Size-length slice")
	}
	if got != id {
		t.Fatalf("roundtripped id = %s, want %s", got, id)
	}
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	if _, ok := blockid.FromBytes([]byte{1, 2, 3}); ok {
		t.Fatalf("FromBytes accepted a short slice")
	}
}

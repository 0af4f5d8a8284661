package multiverse

import (
	"testing"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

func TestLengthIndexInsertRemove(t *testing.T) {
	li := newLengthIndex()
	a := blockid.ID{1}
	b := blockid.ID{2}

	li.insert(chainlength.T(5), a)
	li.insert(chainlength.T(5), b)
	li.insert(chainlength.T(3), a)

	if !li.contains(chainlength.T(5), a) || !li.contains(chainlength.T(5), b) {
		t.Fatalf("expected both ids in bucket 5")
	}
	if got, _ := li.maxLength(); got != chainlength.T(5) {
		t.Fatalf("maxLength = %v, want 5", got)
	}

	li.remove(chainlength.T(5), a)
	if li.contains(chainlength.T(5), a) {
		t.Fatalf("a should have been removed from bucket 5")
	}
	if !li.contains(chainlength.T(5), b) {
		t.Fatalf("b should remain in bucket 5")
	}

	li.remove(chainlength.T(5), b)
	if li.contains(chainlength.T(5), b) {
		t.Fatalf("b should have been removed")
	}
	// Bucket 5 is now empty; its key must be dropped too.
	lengths := li.lengthsInRange(chainlength.Zero, chainlength.T(100))
	for _, l := range lengths {
		if l == chainlength.T(5) {
			t.Fatalf("empty bucket 5 should not appear in lengthsInRange")
		}
	}
}

func TestLengthIndexKeysStaySorted(t *testing.T) {
	li := newLengthIndex()
	order := []chainlength.T{7, 2, 9, 0, 5, 3}
	for _, l := range order {
		li.insert(l, blockid.ID{byte(l)})
	}
	got := li.lengthsInRange(chainlength.Zero, chainlength.T(100))
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("keys not sorted ascending: %v", got)
		}
	}
}

func TestLengthIndexSnapshotIsolation(t *testing.T) {
	li := newLengthIndex()
	li.insert(chainlength.T(1), blockid.ID{1})
	li.insert(chainlength.T(2), blockid.ID{2})

	snap := li.lengthsInRange(chainlength.Zero, chainlength.T(100))
	li.remove(chainlength.T(1), blockid.ID{1})
	li.insert(chainlength.T(3), blockid.ID{3})

	if len(snap) != 2 {
		t.Fatalf("mutating the index after the snapshot was taken must not affect it, got %v", snap)
	}
}

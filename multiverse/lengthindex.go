package multiverse

import (
	"sort"

	"github.com/mivelabs/multiverse/blockid"
	"github.com/mivelabs/multiverse/chainlength"
)

// lengthIndex is the secondary chain-length -> {block-id} index (spec
// §4.2). The source keeps it as a BTreeMap for ordered range iteration;
// Go's stdlib has no sorted map, so this keeps a plain map for O(1)
// bucket lookup alongside a sorted slice of its keys for ordered scans,
// which is the standard stand-in for a small BTreeMap in Go (no suitable
// ordered-map library is in the example pack, see DESIGN.md).
type lengthIndex struct {
	buckets map[chainlength.T]map[blockid.ID]struct{}
	keys    []chainlength.T // always sorted ascending
}

func newLengthIndex() *lengthIndex {
	return &lengthIndex{buckets: make(map[chainlength.T]map[blockid.ID]struct{})}
}

func (li *lengthIndex) insert(length chainlength.T, id blockid.ID) {
	bucket, ok := li.buckets[length]
	if !ok {
		bucket = make(map[blockid.ID]struct{})
		li.buckets[length] = bucket
		li.insertKey(length)
	}
	bucket[id] = struct{}{}
}

func (li *lengthIndex) remove(length chainlength.T, id blockid.ID) {
	bucket, ok := li.buckets[length]
	if !ok {
		return
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(li.buckets, length)
		li.removeKey(length)
	}
}

func (li *lengthIndex) contains(length chainlength.T, id blockid.ID) bool {
	bucket, ok := li.buckets[length]
	if !ok {
		return false
	}
	_, ok = bucket[id]
	return ok
}

// maxLength returns the greatest chain length present, and false if the
// index is empty.
func (li *lengthIndex) maxLength() (chainlength.T, bool) {
	if len(li.keys) == 0 {
		return 0, false
	}
	return li.keys[len(li.keys)-1], true
}

// lengthsInRange returns a snapshot of the chain lengths present with
// lo <= length < hi, in ascending order. It is a snapshot (not a live view)
// so callers can freely mutate the index (remove ids, drop empty buckets)
// while iterating over the result.
func (li *lengthIndex) lengthsInRange(lo, hi chainlength.T) []chainlength.T {
	start := sort.Search(len(li.keys), func(i int) bool { return li.keys[i] >= lo })
	end := sort.Search(len(li.keys), func(i int) bool { return li.keys[i] >= hi })
	out := make([]chainlength.T, end-start)
	copy(out, li.keys[start:end])
	return out
}

// idsAt returns a snapshot of the ids in the bucket at length, for callers
// that need to mutate the bucket (via remove) while iterating its members.
func (li *lengthIndex) idsAt(length chainlength.T) []blockid.ID {
	bucket := li.buckets[length]
	out := make([]blockid.ID, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	return out
}

func (li *lengthIndex) insertKey(length chainlength.T) {
	i := sort.Search(len(li.keys), func(i int) bool { return li.keys[i] >= length })
	li.keys = append(li.keys, 0)
	copy(li.keys[i+1:], li.keys[i:])
	li.keys[i] = length
}

func (li *lengthIndex) removeKey(length chainlength.T) {
	i := sort.Search(len(li.keys), func(i int) bool { return li.keys[i] >= length })
	if i < len(li.keys) && li.keys[i] == length {
		li.keys = append(li.keys[:i], li.keys[i+1:]...)
	}
}

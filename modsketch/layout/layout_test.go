package layout

import (
	"testing"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

func mustHasher(t *testing.T) *hash.Hasher {
	t.Helper()
	h, err := hash.New(3, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

// TestExtendChainsTwoOverlappingReads builds two reads, A-B-C and
// B-C-D, overlapping on B and C, and checks the seed-A extension
// walks through both before running out of majority support.
func TestExtendChainsTwoOverlappingReads(t *testing.T) {
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]uint32, 4) // A, B, C, D
	for i := range ids {
		id, _ := ms.FindOrAdd(uint64(100+i*937), true)
		ms.SetCopy(id, modset.Copy1)
		ids[i] = id
	}
	A, B, C, D := ids[0], ids[1], ids[2], ids[3]

	rs := readset.New(ms)

	r1 := readset.Read{Len: 30}
	r1.Hit = []uint32{readset.PackHit(A, true), readset.PackHit(B, true), readset.PackHit(C, true)}
	r1.Dx = []uint16{0, 10, 10}
	r1.NHit = 3
	rs.Reads = append(rs.Reads, r1)

	r2 := readset.Read{Len: 30}
	r2.Hit = []uint32{readset.PackHit(B, true), readset.PackHit(C, true), readset.PackHit(D, true)}
	r2.Dx = []uint16{0, 10, 10}
	r2.NHit = 3
	rs.Reads = append(rs.Reads, r2)

	for _, id := range []uint32{A, B, B, C, C, D} {
		ms.IncrDepth(id)
	}
	rs.InvBuild()

	lo := Build(rs)
	entries, _ := lo.Extend(A, true, 0)

	if len(entries) != 2 {
		t.Fatalf("expected 2 reads in layout, got %d: %+v", len(entries), entries)
	}
	byID := map[uint32]Entry{}
	for _, e := range entries {
		byID[e.ReadID] = e
	}
	r1e, ok := byID[1]
	if !ok {
		t.Fatal("read 1 missing from layout")
	}
	if r1e.Start != 0 || r1e.End != 20 || r1e.HitCount != 3 {
		t.Fatalf("read 1 entry = %+v, want start=0 end=20 hitCount=3", r1e)
	}
	r2e, ok := byID[2]
	if !ok {
		t.Fatal("read 2 missing from layout")
	}
	if r2e.Start != 0 || r2e.End != 10 || r2e.HitCount != 2 {
		t.Fatalf("read 2 entry = %+v, want start=0 end=10 hitCount=2", r2e)
	}
}

func TestSpanIndexCovers(t *testing.T) {
	entries := []Entry{{ReadID: 1, Start: 0, End: 20}, {ReadID: 2, Start: 15, End: 40}}
	idx := NewSpanIndex(entries)
	if !idx.Covers(10) {
		t.Fatal("expected position 10 to be covered by read 1")
	}
	if !idx.Covers(30) {
		t.Fatal("expected position 30 to be covered by read 2")
	}
	if idx.Covers(100) {
		t.Fatal("did not expect position 100 to be covered")
	}
}

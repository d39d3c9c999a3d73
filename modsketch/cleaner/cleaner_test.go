package cleaner

import (
	"testing"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/readset"
)

func mustHasher(t *testing.T, w int) *hash.Hasher {
	t.Helper()
	h, err := hash.New(3, w, 1)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestCleanFlagsRepeatInternalMinor(t *testing.T) {
	h := mustHasher(t, 20) // large w so every gap below counts as "internal"
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	idA, _ := ms.FindOrAdd(101, true)
	idB, _ := ms.FindOrAdd(205, true)
	idC, _ := ms.FindOrAdd(3009, true)

	rs := readset.New(ms)
	r := readset.Read{Len: 50}
	// A appears twice (repeat), B sits between two close neighbors
	// (internal), and its depth will be far below C's (minor).
	r.Hit = []uint32{
		readset.PackHit(idA, true),
		readset.PackHit(idB, true),
		readset.PackHit(idC, true),
		readset.PackHit(idA, true),
	}
	r.Dx = []uint16{0, 3, 3, 10}
	r.NHit = 4
	rs.Reads = append(rs.Reads, r)

	ms.SetDepth(idA, 5)
	ms.SetDepth(idB, 2)
	ms.SetDepth(idC, 20)
	rs.InvBuild()

	Clean(rs)

	if !ms.HasFlag(idA, modset.InfoRepeat) {
		t.Fatal("expected A to be flagged REPEAT")
	}
	if !ms.HasFlag(idB, modset.InfoInternal) {
		t.Fatal("expected B to be flagged INTERNAL (both neighbor gaps < w)")
	}
	if !ms.HasFlag(idB, modset.InfoMinor) {
		t.Fatal("expected B to be flagged MINOR (depth << neighbor C's depth)")
	}
}

func TestLDTestDemotesPoorlyLinkedMod(t *testing.T) {
	h := mustHasher(t, 4)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	idA, _ := ms.FindOrAdd(101, true)
	idB, _ := ms.FindOrAdd(205, true)
	idC, _ := ms.FindOrAdd(3009, true)
	idD, _ := ms.FindOrAdd(4096, true)
	for _, id := range []uint32{idA, idB, idC, idD} {
		ms.SetCopy(id, modset.Copy1)
	}

	rs := readset.New(ms)
	addRead := func(ids ...uint32) {
		r := readset.Read{Len: 100}
		for _, id := range ids {
			r.Hit = append(r.Hit, readset.PackHit(id, true))
			r.Dx = append(r.Dx, 10)
			ms.IncrDepth(id)
		}
		r.NHit = len(r.Hit)
		rs.Reads = append(rs.Reads, r)
	}
	// B's flanking partner disagrees across its occurrences: once next
	// to A, once next to C, once next to D - weak linkage, should be
	// demoted.
	addRead(idA, idB)
	addRead(idB, idC)
	addRead(idD, idB)
	rs.InvBuild()

	LDTest(rs, 0, 0)

	if ms.Copy(idB) != modset.Copy0 {
		t.Fatalf("expected B to be demoted to copy-class 0, got %v", ms.Copy(idB))
	}
}

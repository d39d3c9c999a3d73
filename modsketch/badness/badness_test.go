package badness

import (
	"testing"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/modset"
	"github.com/nanoreads/modsketch/modsketch/overlap"
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

// buildLinear sets up a readset of nReads reads all sharing the same
// 4 copy-1 mods in consistent order and orientation - a clean overlap
// graph with no bad partners anywhere.
func buildLinear(t *testing.T, nReads int) (*readset.ReadSet, *overlap.Engine) {
	t.Helper()
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]uint32, 4)
	for i := range ids {
		id, _ := ms.FindOrAdd(uint64(100+i*937), true)
		ms.SetCopy(id, modset.Copy1)
		ids[i] = id
	}

	rs := readset.New(ms)
	for r := 0; r < nReads; r++ {
		rd := readset.Read{Len: 100}
		for _, id := range ids {
			rd.Hit = append(rd.Hit, readset.PackHit(id, true))
			rd.Dx = append(rd.Dx, 10)
			ms.IncrDepth(id)
		}
		rd.NHit = len(rd.Hit)
		rs.Reads = append(rs.Reads, rd)
	}
	rs.InvBuild()
	return rs, overlap.NewEngine(rs)
}

func TestClassifyLeavesCleanOverlapsUnflagged(t *testing.T) {
	rs, eng := buildLinear(t, 4)
	Classify(rs, eng)
	for i := 1; i < len(rs.Reads); i++ {
		if rs.Reads[i].Bad&(readset.BadOrder10|readset.BadOrder1) != 0 {
			t.Fatalf("read %d unexpectedly flagged bad: %#x", i, rs.Reads[i].Bad)
		}
	}
}

func TestContainPicksLargestContainingOverlap(t *testing.T) {
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]uint32, 4)
	for i := range ids {
		id, _ := ms.FindOrAdd(uint64(100+i*937), true)
		ms.SetCopy(id, modset.Copy1)
		ids[i] = id
	}

	rs := readset.New(ms)

	// y: the long read, all 4 mods at absolute positions 0,10,20,30.
	y := readset.Read{Len: 100}
	y.Hit = []uint32{
		readset.PackHit(ids[0], true), readset.PackHit(ids[1], true),
		readset.PackHit(ids[2], true), readset.PackHit(ids[3], true),
	}
	y.Dx = []uint16{0, 10, 10, 10}
	y.NHit = 4
	rs.Reads = append(rs.Reads, y)
	yID := uint32(len(rs.Reads) - 1)

	// x: a short read matching only mods 1,2,3, entirely inside y's span.
	x := readset.Read{Len: 60}
	x.Hit = []uint32{
		readset.PackHit(ids[1], true), readset.PackHit(ids[2], true), readset.PackHit(ids[3], true),
	}
	x.Dx = []uint16{0, 10, 10}
	x.NHit = 3
	rs.Reads = append(rs.Reads, x)
	xID := uint32(len(rs.Reads) - 1)

	for _, id := range ids {
		ms.IncrDepth(id)
		ms.IncrDepth(id)
	}
	// x doesn't touch ids[0]; undo its second increment.
	ms.SetDepth(ids[0], 1)

	rs.InvBuild()
	eng := overlap.NewEngine(rs)

	Contain(rs, eng)

	if rs.Reads[xID].Contained != yID {
		t.Fatalf("x.contained = %d, want %d (y)", rs.Reads[xID].Contained, yID)
	}
	if rs.Reads[yID].Contained != 0 {
		t.Fatalf("y.contained = %d, want 0 (y is not contained in x)", rs.Reads[yID].Contained)
	}
}

package overlap

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

// TestOverlapClassification reproduces the spec's literal scenario: x
// and y share copy-1 mods A, B, C in the same order and orientation,
// plus one shared copy-1 hit D whose orientation is flipped. The
// overlap record must show nBadOrder == 0, nBadFlip == 1,
// isPlus == true, shared_hit_count == 4.
func TestOverlapClassification(t *testing.T) {
	h := mustHasher(t)
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

	addRaw := func(hits ...uint32) uint32 {
		r := readset.Read{Len: 100}
		for _, h := range hits {
			r.Hit = append(r.Hit, h)
			r.Dx = append(r.Dx, 10)
		}
		r.NHit = len(r.Hit)
		rs.Reads = append(rs.Reads, r)
		id := uint32(len(rs.Reads) - 1)
		for _, h := range hits {
			modID, _ := readset.UnpackHit(h)
			ms.IncrDepth(modID)
		}
		return id
	}

	xID := addRaw(
		readset.PackHit(idA, true),
		readset.PackHit(idB, true),
		readset.PackHit(idC, true),
		readset.PackHit(idD, true),
	)
	_ = addRaw(
		readset.PackHit(idA, true),
		readset.PackHit(idB, true),
		readset.PackHit(idC, true),
		readset.PackHit(idD, false), // flipped orientation relative to x
	)

	rs.InvBuild()

	eng := NewEngine(rs)
	got := eng.Find(xID)
	if len(got) != 1 {
		t.Fatalf("expected exactly one overlap candidate, got %d", len(got))
	}
	o := got[0]
	if o.SharedHits != 4 {
		t.Fatalf("shared_hit_count = %d, want 4", o.SharedHits)
	}
	if !o.IsPlus {
		t.Fatal("expected isPlus == true")
	}
	if o.NBadOrder != 0 {
		t.Fatalf("nBadOrder = %d, want 0", o.NBadOrder)
	}
	if o.NBadFlip != 1 {
		t.Fatalf("nBadFlip = %d, want 1", o.NBadFlip)
	}
}

func TestOverlapNoMatchSetsBadFlags(t *testing.T) {
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	idA, _ := ms.FindOrAdd(101, true)
	ms.SetCopy(idA, modset.Copy1)

	rs := readset.New(ms)
	r := readset.Read{Len: 20, NHit: 1, Hit: []uint32{readset.PackHit(idA, true)}, Dx: []uint16{5}}
	r.NCopy[modset.Copy1] = 1
	rs.Reads = append(rs.Reads, r)
	ms.IncrDepth(idA)
	rs.InvBuild()

	eng := NewEngine(rs)
	got := eng.Find(1)
	if len(got) != 0 {
		t.Fatalf("expected no surviving candidates, got %d", len(got))
	}
	x := rs.Reads[1]
	if x.Bad&readset.BadNoMatch == 0 {
		t.Fatal("expected badNoMatch to be set")
	}
	if x.Bad&readset.BadLowHit == 0 {
		t.Fatal("expected badLowHit to be set (n_hit < 10)")
	}
}

package readset

import (
	"bytes"
	"testing"

	"github.com/nanoreads/modsketch/modsketch/hash"
	"github.com/nanoreads/modsketch/modsketch/modset"
)

func mustHasher(t *testing.T) *hash.Hasher {
	t.Helper()
	h, err := hash.New(3, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestPackUnpackHit(t *testing.T) {
	for _, c := range []struct {
		id int
		fw bool
	}{{1, true}, {1, false}, {0x7fffffff, true}, {42, false}} {
		h := PackHit(uint32(c.id), c.fw)
		id, fw := UnpackHit(h)
		if int(id) != c.id || fw != c.fw {
			t.Fatalf("pack/unpack(%d,%v) round-tripped to (%d,%v)", c.id, c.fw, id, fw)
		}
	}
}

// TestInverseIndexScenario reproduces the spec's literal scenario:
// three reads [A,B], [A,C,A], [B,C] over mods A, B, C must build an
// inverse index with inv[A]={1,2,2}, inv[B]={1,3}, inv[C]={2,3} and
// depth[A]==3, depth[B]==2, depth[C]==2.
func TestInverseIndexScenario(t *testing.T) {
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	idA, _ := ms.FindOrAdd(101, true)
	idB, _ := ms.FindOrAdd(205, true)
	idC, _ := ms.FindOrAdd(3009, true)

	rs := New(ms)

	addRaw := func(ids ...uint32) {
		r := Read{}
		for _, id := range ids {
			r.Hit = append(r.Hit, PackHit(id, true))
			r.Dx = append(r.Dx, 1)
			ms.IncrDepth(id)
		}
		r.NHit = len(r.Hit)
		rs.Reads = append(rs.Reads, r)
	}
	addRaw(idA, idB)    // read 1
	addRaw(idA, idC, idA) // read 2
	addRaw(idB, idC)    // read 3

	if d := ms.Depth(idA); d != 3 {
		t.Fatalf("depth[A] = %d, want 3", d)
	}
	if d := ms.Depth(idB); d != 2 {
		t.Fatalf("depth[B] = %d, want 2", d)
	}
	if d := ms.Depth(idC); d != 2 {
		t.Fatalf("depth[C] = %d, want 2", d)
	}

	rs.InvBuild()

	checkInv := func(modID uint32, want []uint32) {
		got := rs.Inv(modID)
		if len(got) != len(want) {
			t.Fatalf("inv[%d] = %v, want %v", modID, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("inv[%d] = %v, want %v", modID, got, want)
			}
		}
	}
	checkInv(idA, []uint32{1, 2, 2})
	checkInv(idB, []uint32{1, 3})
	checkInv(idC, []uint32{2, 3})

	if rs.TotalHit != 7 {
		t.Fatalf("total_hit = %d, want 7", rs.TotalHit)
	}
}

func TestReadSetSerializationRoundTrip(t *testing.T) {
	h := mustHasher(t)
	ms, err := modset.New(h, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	idA, _ := ms.FindOrAdd(101, true)
	idB, _ := ms.FindOrAdd(205, true)

	rs := New(ms)
	r := Read{Len: 30, NHit: 2}
	r.Hit = []uint32{PackHit(idA, true), PackHit(idB, false)}
	r.Dx = []uint16{4, 9}
	rs.Reads = append(rs.Reads, r)
	ms.IncrDepth(idA)
	ms.IncrDepth(idB)
	rs.InvBuild()

	var buf bytes.Buffer
	if err := rs.Write(&buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Read(&buf, ms)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Reads) != len(rs.Reads) {
		t.Fatalf("loaded %d reads, want %d", len(loaded.Reads), len(rs.Reads))
	}
	got := loaded.Reads[1]
	if got.Len != 30 || got.NHit != 2 {
		t.Fatalf("read 1 metadata mismatch: %+v", got)
	}
	if got.Hit[0] != r.Hit[0] || got.Hit[1] != r.Hit[1] {
		t.Fatalf("read 1 hits mismatch: %v, want %v", got.Hit, r.Hit)
	}
	if got.Dx[0] != 4 || got.Dx[1] != 9 {
		t.Fatalf("read 1 dx mismatch: %v", got.Dx)
	}
}

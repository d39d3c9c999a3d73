package hash

import (
	"bytes"
	"testing"
)

// canonicalOf returns the canonical (min of forward/reverse) hash and
// orientation for the bases slice under h, by brute-force rolling.
func canonicalOf(t *testing.T, h *Hasher, bases []byte) (uint64, bool) {
	t.Helper()
	if len(bases) != h.K {
		t.Fatalf("want %d bases, got %d", h.K, len(bases))
	}
	var fwd, rev uint64
	for _, b := range bases {
		fwd = h.RollForward(fwd, b)
		rev = h.RollReverse(rev, b)
	}
	hf, hr := h.Canonical(fwd), h.Canonical(rev)
	if hf <= hr {
		return hf, true
	}
	return hr, false
}

func revComp(bases []byte) []byte {
	out := make([]byte, len(bases))
	for i, b := range bases {
		out[len(bases)-1-i] = 3 - b
	}
	return out
}

func TestCanonicalInvariantUnderReverseComplement(t *testing.T) {
	h, err := New(3, 2, 17)
	if err != nil {
		t.Fatal(err)
	}

	acg := []byte{0, 1, 2} // ACG
	cgt := revComp(acg)    // CGT

	h1, _ := canonicalOf(t, h, acg)
	h2, _ := canonicalOf(t, h, cgt)
	if h1 != h2 {
		t.Fatalf("canonical hash of ACG (%d) != canonical hash of its reverse complement CGT (%d)", h1, h2)
	}
}

func TestFactor1Reproducible(t *testing.T) {
	h1, err := New(5, 4, 17)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := New(5, 4, 17)
	if err != nil {
		t.Fatal(err)
	}
	if h1.Factor1 != h2.Factor1 {
		t.Fatalf("rebuilding with the same seed produced different factor1: %x vs %x", h1.Factor1, h2.Factor1)
	}
	if h1.Factor1&1 != 1 {
		t.Fatalf("factor1 must be odd, got %x", h1.Factor1)
	}
}

func TestInvalidParams(t *testing.T) {
	if _, err := New(0, 2, 1); err == nil {
		t.Fatal("expected error for k=0")
	}
	if _, err := New(32, 2, 1); err == nil {
		t.Fatal("expected error for k=32")
	}
	if _, err := New(3, 0, 1); err == nil {
		t.Fatal("expected error for w=0")
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	h, err := New(11, 7, 42)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := h.Write(&buf); err != nil {
		t.Fatal(err)
	}

	h2, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *h != *h2 {
		t.Fatalf("round-tripped hasher differs: %+v vs %+v", h, h2)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("garbage!" + "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
	if _, err := Read(buf); err == nil {
		t.Fatal("expected magic mismatch error")
	}
}
